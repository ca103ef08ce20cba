package openaigw

import (
	"context"
	"fmt"

	"ai-chat-be/pkg/gateway"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client talks to an OpenAI-compatible model gateway. The base URL points at
// the hosted gateway, which routes the model id to the actual vendor.
type Client struct {
	client openai.Client
}

func New(baseURL, apiKey string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{client: openai.NewClient(opts...)}
}

func (c *Client) ChatStream(ctx context.Context, model string, history []gateway.Message, onDelta func(delta string) error, options ...gateway.Option) error {
	params := buildParams(model, history, options...)

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := onDelta(delta); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("gateway stream for model %s: %w", model, err)
	}
	return nil
}

func (c *Client) Generate(ctx context.Context, model string, system string, prompt string, options ...gateway.Option) (string, error) {
	history := []gateway.Message{}
	if system != "" {
		history = append(history, gateway.Message{Role: gateway.RoleSystem, Text: system})
	}
	history = append(history, gateway.Message{Role: gateway.RoleUser, Text: prompt})

	params := buildParams(model, history, options...)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("gateway completion for model %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gateway completion for model %s: empty response", model)
	}
	return resp.Choices[0].Message.Content, nil
}

func buildParams(model string, history []gateway.Message, options ...gateway.Option) openai.ChatCompletionNewParams {
	var opts gateway.Options
	for _, o := range options {
		o(&opts)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: buildMessages(history),
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	return params
}

func buildMessages(history []gateway.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case gateway.RoleSystem:
			out = append(out, openai.SystemMessage(m.Text))
		case gateway.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Text))
		default:
			if len(m.Images) == 0 && len(m.Files) == 0 {
				out = append(out, openai.UserMessage(m.Text))
				continue
			}
			parts := []openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(m.Text),
			}
			for _, u := range m.Images {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: u}))
			}
			for _, f := range m.Files {
				parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
					FileData: openai.String(f.URL),
					Filename: openai.String(f.Name),
				}))
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}
