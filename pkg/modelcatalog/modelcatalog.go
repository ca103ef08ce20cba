package modelcatalog

// Scope restricts which callers may select a model.
type Scope string

const (
	// ScopeAll models are usable by anonymous (temporary track) callers.
	ScopeAll Scope = "ALL"
	// ScopeAuthenticated models require a signed-in user.
	ScopeAuthenticated Scope = "AUTHENTICATED"
)

type Model struct {
	Label string
	Name  string
	Scope Scope
}

var Supported = []Model{
	{Label: "Nova Lite", Name: "bedrock/amazon.nova-lite-v1:0", Scope: ScopeAll},
	{Label: "Nova Micro", Name: "bedrock/amazon.nova-micro-v1:0", Scope: ScopeAll},
	{Label: "DeepSeek V3", Name: "fireworks/deepseek-v3", Scope: ScopeAuthenticated},
	{Label: "DeepSeek R1", Name: "groq/deepseek-r1-distill-llama-70b", Scope: ScopeAuthenticated},
	{Label: "Claude 3 Haiku", Name: "anthropic/claude-v3-haiku", Scope: ScopeAuthenticated},
	{Label: "Qwen 3", Name: "deepinfra/qwen3-14b", Scope: ScopeAuthenticated},
	{Label: "Gemini 2.0 Flash", Name: "vertex/gemini-2.0-flash-001", Scope: ScopeAll},
	{Label: "Llama 4 Maverick", Name: "bedrock/meta.llama4-maverick-17b-instruct-v1", Scope: ScopeAuthenticated},
	{Label: "Llama 4 Scout", Name: "bedrock/meta.llama4-scout-17b-instruct-v1", Scope: ScopeAuthenticated},
	{Label: "GPT 4o Mini", Name: "openai/gpt-4o-mini", Scope: ScopeAll},
	{Label: "GPT 4.1 Nano", Name: "openai/gpt-4.1-nano", Scope: ScopeAll},
	{Label: "Mistral Saba", Name: "groq/mistral-saba-24b", Scope: ScopeAuthenticated},
}

func find(name string) (Model, bool) {
	for _, m := range Supported {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

func IsSupported(name string) bool {
	_, ok := find(name)
	return ok
}

// AllowedForAnonymous reports whether anonymous callers may use the model.
func AllowedForAnonymous(name string) bool {
	m, ok := find(name)
	return ok && m.Scope == ScopeAll
}
