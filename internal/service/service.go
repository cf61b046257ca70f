package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/avatar-fix/internal/database"
	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/kafka"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/processor"
)

type AvatarService interface {
	// Select runs one invocation for the file and returns the session state afterwards.
	// Every pipeline failure is silent: the previous state is returned untouched.
	Select(ctx context.Context, sessionID string, file entity.SourceFile) (*entity.SessionState, error)
	State(ctx context.Context, sessionID string) (*entity.SessionState, error)
	Download(ctx context.Context, sessionID string) (entity.Rendition, error)
}

type avatarService struct {
	repo      database.SessionRepository
	producer  kafka.Producer
	processor processor.ImageProcessor
	now       func() time.Time
}

func NewAvatarService(repo database.SessionRepository, producer kafka.Producer, processor processor.ImageProcessor) AvatarService {
	return &avatarService{
		repo:      repo,
		producer:  producer,
		processor: processor,
		now:       time.Now,
	}
}
