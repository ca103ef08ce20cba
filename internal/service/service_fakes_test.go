package service

import (
	"context"
	"sync"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/gateway"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret the same
// specifications the gorm implementations translate to SQL, so service code
// runs unmodified against them.

type fakeThreadRepo struct {
	mu   sync.Mutex
	rows []*entity.Thread
}

func threadMatches(t *entity.Thread, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if t.Id != sp.ID {
				return false
			}
		case specification.ByExternalID:
			if t.ExternalId != sp.ExternalID {
				return false
			}
		case specification.OwnedBy:
			if t.OwnerId != sp.OwnerID {
				return false
			}
		case specification.PublicOnly:
			if !t.IsPublic {
				return false
			}
		}
	}
	return true
}

func wantsDesc(specs []specification.Specification) bool {
	for _, s := range specs {
		if ob, ok := s.(specification.OrderBy); ok && ob.Desc {
			return true
		}
	}
	return false
}

func copyThread(t *entity.Thread) *entity.Thread {
	c := *t
	return &c
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *entity.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := copyThread(thread)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, c)
	return nil
}

func (r *fakeThreadRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.Id == id {
			t.Title = title
		}
	}
	return nil
}

func (r *fakeThreadRepo) SetPublic(ctx context.Context, id uuid.UUID, isPublic bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.Id == id {
			t.IsPublic = isPublic
		}
	}
	return nil
}

func (r *fakeThreadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, t := range r.rows {
		if t.Id != id {
			kept = append(kept, t)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeThreadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if threadMatches(t, specs) {
			return copyThread(t), nil
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Thread, 0)
	for _, t := range r.rows {
		if threadMatches(t, specs) {
			out = append(out, copyThread(t))
		}
	}
	if wantsDesc(specs) {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *fakeThreadRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	rows []*entity.Message
}

func messageMatches(m *entity.Message, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.ByThreadID:
			if m.ThreadId != sp.ThreadID {
				return false
			}
		case specification.OwnedBy:
			if m.OwnerId != sp.OwnerID {
				return false
			}
		}
	}
	return true
}

func copyMessage(m *entity.Message) *entity.Message {
	c := *m
	c.Files = append([]entity.Attachment(nil), m.Files...)
	return &c
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := copyMessage(message)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, c)
	return nil
}

func (r *fakeMessageRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.Id == id {
			m.Content = content
		}
	}
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, m := range r.rows {
		if m.Id != id {
			kept = append(kept, m)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeMessageRepo) DeleteByThreadId(ctx context.Context, threadId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, m := range r.rows {
		if m.ThreadId != threadId {
			kept = append(kept, m)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if messageMatches(m, specs) {
			return copyMessage(m), nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Message, 0)
	for _, m := range r.rows {
		if messageMatches(m, specs) {
			out = append(out, copyMessage(m))
		}
	}
	if wantsDesc(specs) {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeUnitOfWork struct {
	threads     *fakeThreadRepo
	messages    *fakeMessageRepo
	tmpThreads  *fakeThreadRepo
	tmpMessages *fakeMessageRepo
	inTx        bool
	commits     int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		threads:     &fakeThreadRepo{},
		messages:    &fakeMessageRepo{},
		tmpThreads:  &fakeThreadRepo{},
		tmpMessages: &fakeMessageRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.inTx = false
	u.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) ThreadRepository() contract.ThreadRepository           { return u.threads }
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository         { return u.messages }
func (u *fakeUnitOfWork) TemporaryThreadRepository() contract.ThreadRepository  { return u.tmpThreads }
func (u *fakeUnitOfWork) TemporaryMessageRepository() contract.MessageRepository {
	return u.tmpMessages
}

func (u *fakeUnitOfWork) Threads(track entity.Track) contract.ThreadRepository {
	if track == entity.TrackTemporary {
		return u.tmpThreads
	}
	return u.threads
}

func (u *fakeUnitOfWork) Messages(track entity.Track) contract.MessageRepository {
	if track == entity.TrackTemporary {
		return u.tmpMessages
	}
	return u.messages
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// Scripted model gateway.
type fakeGateway struct {
	deltas      []string
	streamErr   error
	generated   string
	generateErr error

	streamCalls   int
	generateCalls int
	lastModel     string
	lastHistory   []gateway.Message
	lastOptions   gateway.Options
}

func resolveOptions(options []gateway.Option) gateway.Options {
	var o gateway.Options
	for _, fn := range options {
		fn(&o)
	}
	return o
}

func (g *fakeGateway) ChatStream(ctx context.Context, model string, history []gateway.Message, onDelta func(delta string) error, options ...gateway.Option) error {
	g.streamCalls++
	g.lastModel = model
	g.lastHistory = history
	for _, d := range g.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return g.streamErr
}

func (g *fakeGateway) Generate(ctx context.Context, model string, system string, prompt string, options ...gateway.Option) (string, error) {
	g.generateCalls++
	g.lastModel = model
	g.lastOptions = resolveOptions(options)
	return g.generated, g.generateErr
}

type sentUpdate struct {
	OwnerId string
	Update  websocket.StreamUpdate
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent []sentUpdate
}

func (d *fakeDelivery) Send(ownerId string, update websocket.StreamUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentUpdate{OwnerId: ownerId, Update: update})
}

func (d *fakeDelivery) Broadcast(update websocket.StreamUpdate) {
	d.Send("*", update)
}

func (d *fakeDelivery) ofType(eventType string) []sentUpdate {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []sentUpdate{}
	for _, s := range d.sent {
		if s.Update.Type == eventType {
			out = append(out, s)
		}
	}
	return out
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeStore struct{}

func (fakeStore) PresignedUpload(ctx context.Context, storageID string) (string, error) {
	return "https://files.test/upload/" + storageID, nil
}

func (fakeStore) PresignedGet(ctx context.Context, storageID string) (string, error) {
	return "https://files.test/get/" + storageID, nil
}

func byExternal(id string) []specification.Specification {
	return []specification.Specification{specification.ByExternalID{ExternalID: id}}
}

func byThread(id string) []specification.Specification {
	return []specification.Specification{specification.ByThreadID{ThreadID: id}}
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
