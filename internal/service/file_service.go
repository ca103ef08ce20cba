package service

import (
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/pkg/apperrors"
	"ai-chat-be/pkg/objectstore"

	"github.com/google/uuid"
)

type IFileService interface {
	// GenerateUploadURL mints a fresh storage id and a presigned PUT URL the
	// client uploads the bytes to before referencing the id in a message.
	GenerateUploadURL(ctx context.Context) (*dto.GenerateUploadURLResponse, error)
	ResolveFileURL(ctx context.Context, storageId string) (*dto.ResolveFileURLResponse, error)
}

type fileService struct {
	store objectstore.Store
}

func NewFileService(store objectstore.Store) IFileService {
	return &fileService{store: store}
}

func (s *fileService) GenerateUploadURL(ctx context.Context) (*dto.GenerateUploadURLResponse, error) {
	storageId := uuid.NewString()
	uploadURL, err := s.store.PresignedUpload(ctx, storageId)
	if err != nil {
		return nil, apperrors.UpstreamFailure("failed to create upload url", err)
	}
	return &dto.GenerateUploadURLResponse{
		StorageId: storageId,
		UploadURL: uploadURL,
	}, nil
}

func (s *fileService) ResolveFileURL(ctx context.Context, storageId string) (*dto.ResolveFileURLResponse, error) {
	if storageId == "" {
		return nil, apperrors.InvalidArgument("storage id is required")
	}
	url, err := s.store.PresignedGet(ctx, storageId)
	if err != nil {
		return nil, apperrors.UpstreamFailure("failed to resolve file url", err)
	}
	return &dto.ResolveFileURLResponse{
		StorageId: storageId,
		URL:       url,
	}, nil
}
