package service

import (
	"context"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/processor"
	"github.com/sirupsen/logrus"
)

func (s *avatarService) Select(ctx context.Context, sessionID string, file entity.SourceFile) (*entity.SessionState, error) {
	log := logrus.WithFields(logrus.Fields{
		"session": sessionID,
		"file":    file.Name,
	})

	// Не изображение: ничего не запускаем
	if !processor.IsImage(file.ContentType) {
		log.WithField("content_type", file.ContentType).Debug("Ignoring non-image file")
		return s.repo.Get(ctx, sessionID)
	}

	generation, err := s.repo.Begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log = log.WithField("generation", generation)

	observe := func(stage processor.Stage) {
		log.WithField("stage", stage.String()).Debug("Pipeline stage")
	}

	result, err := s.processor.Process(ctx, file, observe)

	var published *entity.Published
	if err != nil {
		log.WithError(err).Warn("Invocation produced no result")
	} else {
		published = &entity.Published{
			Original:       result.Original,
			Result:         result.Rendered,
			Generation:     generation,
			OverlayApplied: result.OverlayApplied,
			SourceWidth:    result.SourceWidth,
			SourceHeight:   result.SourceHeight,
			PublishedAt:    s.now(),
		}
	}

	// the flag must be cleared even when the request is gone
	finishCtx := context.WithoutCancel(ctx)
	applied, err := s.repo.Finish(finishCtx, sessionID, generation, published)
	if err != nil {
		return nil, err
	}

	switch {
	case !applied:
		log.Info("Superseded by a newer invocation, result dropped")
	case published != nil:
		observe(processor.StagePublished)
		log.WithField("overlay_applied", published.OverlayApplied).Info("Result published")
		s.notify(finishCtx, sessionID, published)
	}

	return s.repo.Get(finishCtx, sessionID)
}

func (s *avatarService) State(ctx context.Context, sessionID string) (*entity.SessionState, error) {
	return s.repo.Get(ctx, sessionID)
}

func (s *avatarService) Download(ctx context.Context, sessionID string) (entity.Rendition, error) {
	state, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return entity.Rendition{}, err
	}
	if state.Published == nil {
		return entity.Rendition{}, entity.ErrNothingToExport
	}
	return state.Published.Result, nil
}

func (s *avatarService) notify(ctx context.Context, sessionID string, p *entity.Published) {
	event := entity.PublishedEvent{
		SessionID:      sessionID,
		Generation:     p.Generation,
		OverlayApplied: p.OverlayApplied,
		SourceWidth:    p.SourceWidth,
		SourceHeight:   p.SourceHeight,
		ResultBytes:    len(p.Result.Data),
		PublishedAt:    p.PublishedAt,
	}
	if err := s.producer.SendMessage(ctx, sessionID, event); err != nil {
		logrus.WithError(err).WithField("session", sessionID).Error("Failed to send published event")
	}
}
