package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForkServiceForTest() (*fakeUnitOfWork, IForkService) {
	uow := newFakeUnitOfWork()
	svc := NewForkService(&fakeFactory{uow: uow}, nil, nopLogger{})
	return uow, svc
}

func seedConversation(uow *fakeUnitOfWork, track entity.Track, ownerId, threadId string, contents ...string) []uuid.UUID {
	repo := uow.messages
	if track == entity.TrackTemporary {
		repo = uow.tmpMessages
	}
	ids := make([]uuid.UUID, 0, len(contents))
	for i, c := range contents {
		by := entity.RoleHuman
		if i%2 == 1 {
			by = "openai/gpt-4o-mini"
		}
		id := uuid.New()
		repo.Create(context.Background(), &entity.Message{
			Id: id, ThreadId: threadId, Content: c, By: by, OwnerId: ownerId,
		})
		ids = append(ids, id)
	}
	return ids
}

func TestBranchOffCopiesInclusivePrefix(t *testing.T) {
	uow, svc := newForkServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Road trip")
	ids := seedConversation(uow, entity.TrackPermanent, "user-1", "th-1", "q1", "a1", "q2", "a2")

	res, err := svc.BranchOff(context.Background(), "user-1", entity.TrackPermanent, &dto.BranchThreadRequest{
		ThreadId:  "th-1",
		MessageId: ids[2], // cut at the second question
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ExternalId)

	branch, _ := uow.threads.FindOne(context.Background(), byExternal(res.ExternalId)...)
	require.NotNil(t, branch)
	assert.Equal(t, entity.BranchTitlePrefix+"Road trip", branch.Title)
	assert.False(t, branch.IsPublic)

	copied, _ := uow.messages.FindAll(context.Background(), byThread(res.ExternalId)...)
	require.Len(t, copied, 3)
	assert.Equal(t, "q1", copied[0].Content)
	assert.Equal(t, "a1", copied[1].Content)
	assert.Equal(t, "q2", copied[2].Content)
	// Fresh row ids, not shared with the source.
	assert.NotEqual(t, ids[0], copied[0].Id)

	// Source keeps its full conversation.
	original, _ := uow.messages.FindAll(context.Background(), byThread("th-1")...)
	assert.Len(t, original, 4)
}

func TestBranchOffUnknownCutoffCopiesWholeThread(t *testing.T) {
	uow, svc := newForkServiceForTest()
	seedThread(uow, entity.TrackPermanent, "user-1", "th-1", "Everything")
	seedConversation(uow, entity.TrackPermanent, "user-1", "th-1", "q1", "a1", "q2")

	res, err := svc.BranchOff(context.Background(), "user-1", entity.TrackPermanent, &dto.BranchThreadRequest{
		ThreadId:  "th-1",
		MessageId: uuid.New(),
	})
	require.NoError(t, err)

	copied, _ := uow.messages.FindAll(context.Background(), byThread(res.ExternalId)...)
	assert.Len(t, copied, 3)
}

func TestBranchOffUnknownThread(t *testing.T) {
	_, svc := newForkServiceForTest()

	_, err := svc.BranchOff(context.Background(), "user-1", entity.TrackPermanent, &dto.BranchThreadRequest{
		ThreadId:  "missing",
		MessageId: uuid.New(),
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBranchOffOnTemporaryTrack(t *testing.T) {
	uow, svc := newForkServiceForTest()
	seedThread(uow, entity.TrackTemporary, "anon-1", "th-1", "Scratch")
	ids := seedConversation(uow, entity.TrackTemporary, "anon-1", "th-1", "q1", "a1")

	res, err := svc.BranchOff(context.Background(), "anon-1", entity.TrackTemporary, &dto.BranchThreadRequest{
		ThreadId:  "th-1",
		MessageId: ids[0],
	})
	require.NoError(t, err)

	copied, _ := uow.tmpMessages.FindAll(context.Background(), byThread(res.ExternalId)...)
	assert.Len(t, copied, 1)
	permanent, _ := uow.messages.FindAll(context.Background())
	assert.Empty(t, permanent)
}

func TestPromoteMovesThreadsAndMessages(t *testing.T) {
	uow, svc := newForkServiceForTest()
	shared := seedThread(uow, entity.TrackTemporary, "anon-1", "th-1", "Scratch ideas")
	uow.tmpThreads.SetPublic(context.Background(), shared.Id, true)
	seedThread(uow, entity.TrackTemporary, "anon-1", "th-2", entity.DefaultThreadTitle)
	seedConversation(uow, entity.TrackTemporary, "anon-1", "th-1", "q1", "a1")
	seedConversation(uow, entity.TrackTemporary, "anon-1", "th-2", "q2")

	err := svc.Promote(context.Background(), "user-9", &dto.PromoteRequest{AnonymousId: "anon-1"})
	require.NoError(t, err)

	// Temporary track is fully drained.
	tmpThreads, _ := uow.tmpThreads.FindAll(context.Background())
	tmpMessages, _ := uow.tmpMessages.FindAll(context.Background())
	assert.Empty(t, tmpThreads)
	assert.Empty(t, tmpMessages)

	// External ids survive, ownership moves to the signed-in subject.
	moved, _ := uow.threads.FindOne(context.Background(), byExternal("th-1")...)
	require.NotNil(t, moved)
	assert.Equal(t, "user-9", moved.OwnerId)
	assert.Equal(t, "Scratch ideas", moved.Title)
	// A shared temporary thread stays shared after login.
	assert.True(t, moved.IsPublic)

	msgs, _ := uow.messages.FindAll(context.Background(), byThread("th-1")...)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user-9", msgs[0].OwnerId)
	assert.Equal(t, "q1", msgs[0].Content)
	assert.Empty(t, msgs[0].Files)

	assert.Equal(t, 1, uow.commits)
}

func TestPromoteIgnoresOtherAnonymousOwners(t *testing.T) {
	uow, svc := newForkServiceForTest()
	seedThread(uow, entity.TrackTemporary, "anon-other", "th-1", "Not yours")

	err := svc.Promote(context.Background(), "user-9", &dto.PromoteRequest{AnonymousId: "anon-1"})
	require.NoError(t, err)

	remaining, _ := uow.tmpThreads.FindAll(context.Background())
	assert.Len(t, remaining, 1)
	promoted, _ := uow.threads.FindAll(context.Background())
	assert.Empty(t, promoted)
}

func TestPromoteWithNoTemporaryDataIsNoop(t *testing.T) {
	uow, svc := newForkServiceForTest()

	err := svc.Promote(context.Background(), "user-9", &dto.PromoteRequest{AnonymousId: "anon-1"})
	require.NoError(t, err)
	assert.Zero(t, uow.commits)
}
