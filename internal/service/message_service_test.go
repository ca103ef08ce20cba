package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageServiceForTest() (*fakeUnitOfWork, *fakePublisher, *fakePublisher, *fakeDelivery, *memory.SharedThreadCache, IMessageService) {
	uow := newFakeUnitOfWork()
	replyPub := &fakePublisher{}
	titlePub := &fakePublisher{}
	delivery := &fakeDelivery{}
	cache := memory.NewSharedThreadCache()
	svc := NewMessageService(&fakeFactory{uow: uow}, replyPub, titlePub, fakeStore{}, cache, delivery, nopLogger{})
	return uow, replyPub, titlePub, delivery, cache, svc
}

func seedThread(uow *fakeUnitOfWork, track entity.Track, ownerId, externalId, title string) *entity.Thread {
	t := &entity.Thread{
		Id:         uuid.New(),
		ExternalId: externalId,
		Title:      title,
		OwnerId:    ownerId,
	}
	repo := uow.threads
	if track == entity.TrackTemporary {
		repo = uow.tmpThreads
	}
	repo.Create(context.Background(), t)
	return t
}

func TestCreateMessageStoresPairAndQueuesTasks(t *testing.T) {
	uow, replyPub, titlePub, delivery, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", entity.DefaultThreadTitle)

	res, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1",
		Content:  "hello there",
		By:       entity.RoleHuman,
		Model:    "openai/gpt-4o-mini",
	})
	require.NoError(t, err)
	require.Len(t, res, 2)

	stored, _ := uow.messages.FindAll(context.Background())
	require.Len(t, stored, 2)

	human, placeholder := stored[0], stored[1]
	assert.Equal(t, "hello there", human.Content)
	assert.Equal(t, entity.RoleHuman, human.By)

	// The reply slot exists before any token arrives.
	assert.Equal(t, "", placeholder.Content)
	assert.Equal(t, "openai/gpt-4o-mini", placeholder.By)
	assert.True(t, placeholder.IsPlaceholder())

	require.Len(t, replyPub.payloads, 1)
	var task dto.PublishReplyTask
	require.NoError(t, json.Unmarshal(replyPub.payloads[0], &task))
	assert.Equal(t, placeholder.Id, task.MessageId)
	assert.Equal(t, "openai/gpt-4o-mini", task.Model)
	// History ends with the user's turn and never includes the placeholder.
	require.Len(t, task.History, 1)
	assert.Equal(t, "hello there", task.History[0].Content)

	// Sentinel title queues exactly one title task.
	require.Len(t, titlePub.payloads, 1)
	var titleTask dto.PublishTitleTask
	require.NoError(t, json.Unmarshal(titlePub.payloads[0], &titleTask))
	assert.Equal(t, "hello there", titleTask.FirstMessage)

	assert.Len(t, delivery.ofType(websocket.EventMessageUpdated), 2)
}

func TestCreateMessageWithoutModelStoresOnlyHumanTurn(t *testing.T) {
	uow, replyPub, titlePub, delivery, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", entity.DefaultThreadTitle)

	res, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1",
		Content:  "just a note to self",
		By:       entity.RoleHuman,
	})
	require.NoError(t, err)
	require.Len(t, res, 1)

	stored, _ := uow.messages.FindAll(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, entity.RoleHuman, stored[0].By)

	// No model means no placeholder and no deferred work at all.
	assert.Empty(t, replyPub.payloads)
	assert.Empty(t, titlePub.payloads)
	assert.Len(t, delivery.ofType(websocket.EventMessageUpdated), 1)
}

func TestCreateMessageSkipsTitleTaskAfterRename(t *testing.T) {
	uow, replyPub, titlePub, _, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Trip planning")

	_, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1",
		Content:  "next question",
		By:       entity.RoleHuman,
		Model:    "openai/gpt-4o-mini",
	})
	require.NoError(t, err)

	assert.Len(t, replyPub.payloads, 1)
	assert.Empty(t, titlePub.payloads)
}

func TestCreateMessageResolvesHistoryAttachments(t *testing.T) {
	uow, replyPub, _, _, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Docs")

	_, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1",
		Content:  "what is in these?",
		By:       entity.RoleHuman,
		Model:    "openai/gpt-4o-mini",
		Files: []dto.AttachmentDTO{
			{StorageId: "img-1", MimeType: "image/png", DisplayName: "chart.png"},
			{StorageId: "doc-1", MimeType: "application/pdf", DisplayName: "report.pdf"},
			{StorageId: "bin-1", MimeType: "application/zip", DisplayName: "data.zip"},
		},
	})
	require.NoError(t, err)

	var task dto.PublishReplyTask
	require.NoError(t, json.Unmarshal(replyPub.payloads[0], &task))
	require.Len(t, task.History, 1)

	// Only images and PDFs reach the gateway; the zip is dropped.
	require.Len(t, task.History[0].Files, 2)
	assert.Equal(t, "https://files.test/get/img-1", task.History[0].Files[0].URL)
	assert.Equal(t, "image/png", task.History[0].Files[0].MimeType)
	assert.Equal(t, "https://files.test/get/doc-1", task.History[0].Files[1].URL)
}

func TestCreateMessageModelValidation(t *testing.T) {
	uow, _, _, _, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", entity.DefaultThreadTitle)
	seedThread(uow, entity.TrackTemporary, "anon-1", "th-2", entity.DefaultThreadTitle)

	_, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1", Content: "hi", By: entity.RoleHuman, Model: "acme/unknown-model",
	})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	// Anonymous callers cannot pick an authenticated-only model.
	_, err = svc.CreateMessage(context.Background(), "anon-1", entity.TrackTemporary, &dto.CreateMessageRequest{
		ThreadId: "th-2", Content: "hi", By: entity.RoleHuman, Model: "fireworks/deepseek-v3",
	})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCreateMessageHistoryKeepsEmptyReplies(t *testing.T) {
	uow, replyPub, _, _, _, svc := newMessageServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Retrying")
	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "first question", By: entity.RoleHuman, OwnerId: "user-1",
	})
	// A reply that never produced tokens stays in the record.
	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "", By: "openai/gpt-4o-mini", OwnerId: "user-1",
	})

	_, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "th-1", Content: "trying again", By: entity.RoleHuman, Model: "openai/gpt-4o-mini",
	})
	require.NoError(t, err)

	var task dto.PublishReplyTask
	require.NoError(t, json.Unmarshal(replyPub.payloads[0], &task))
	// The failed reply rides along as an empty model turn.
	require.Len(t, task.History, 3)
	assert.Equal(t, "openai/gpt-4o-mini", task.History[1].By)
	assert.Equal(t, "", task.History[1].Content)
	assert.Equal(t, "trying again", task.History[2].Content)
}

func TestGetMessagesUnknownThreadReturnsEmpty(t *testing.T) {
	_, _, _, _, _, svc := newMessageServiceForTest()

	res, err := svc.GetMessages(context.Background(), "user-1", entity.TrackPermanent, "no-such-thread")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCreateMessageUnknownThread(t *testing.T) {
	_, _, _, _, _, svc := newMessageServiceForTest()

	_, err := svc.CreateMessage(context.Background(), "user-1", entity.TrackPermanent, &dto.CreateMessageRequest{
		ThreadId: "missing", Content: "hi", By: entity.RoleHuman, Model: "openai/gpt-4o-mini",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetSharedMessagesRequiresPublicThread(t *testing.T) {
	uow, _, _, _, _, svc := newMessageServiceForTest()
	thread := seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Secret")

	_, err := svc.GetSharedMessages(context.Background(), thread.Id)
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.GetSharedMessages(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetSharedMessagesReturnsConversation(t *testing.T) {
	uow, _, _, _, _, svc := newMessageServiceForTest()
	thread := seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Public stuff")
	uow.threads.SetPublic(context.Background(), thread.Id, true)

	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "q", By: entity.RoleHuman, OwnerId: "user-1",
	})
	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "a", By: "openai/gpt-4o-mini", OwnerId: "user-1",
	})

	// No owner filter; the sharing owner's messages come back as-is.
	res, err := svc.GetSharedMessages(context.Background(), thread.Id)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "q", res[0].Content)
	assert.Equal(t, "a", res[1].Content)
}

func TestUpdateMessageContentChecksOwner(t *testing.T) {
	uow, _, _, _, _, svc := newMessageServiceForTest()
	msgId := uuid.New()
	uow.messages.Create(context.Background(), &entity.Message{
		Id: msgId, ThreadId: "th-1", Content: "draft", By: entity.RoleHuman, OwnerId: "user-1",
	})

	err := svc.UpdateMessageContent(context.Background(), "someone-else", entity.TrackPermanent, msgId, "hijacked")
	assert.True(t, apperrors.IsForbidden(err))

	err = svc.UpdateMessageContent(context.Background(), "user-1", entity.TrackPermanent, msgId, "edited")
	require.NoError(t, err)

	stored, _ := uow.messages.FindOne(context.Background())
	assert.Equal(t, "edited", stored.Content)
}

func TestListAttachmentsFlattensFiles(t *testing.T) {
	uow, _, _, _, _, svc := newMessageServiceForTest()
	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "see these", By: entity.RoleHuman, OwnerId: "user-1",
		Files: []entity.Attachment{
			{StorageId: "a", MimeType: "image/png", DisplayName: "a.png"},
			{StorageId: "b", MimeType: "application/pdf", DisplayName: "b.pdf"},
		},
	})
	uow.messages.Create(context.Background(), &entity.Message{
		Id: uuid.New(), ThreadId: "th-1", Content: "no files", By: "openai/gpt-4o-mini", OwnerId: "user-1",
	})

	items, err := svc.ListAttachments(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "th-1", items[0].ThreadId)
}
