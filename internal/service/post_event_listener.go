package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/events"
	"github.com/dodream/blog-api/internal/repository"
)

// PostEventListener reacts to post lifecycle events by logging them and
// dropping the cached post projections.
type PostEventListener struct {
	dispatcher events.Dispatcher
	cache      repository.PostCache
	logger     *zap.Logger
}

// NewPostEventListener creates the listener.
func NewPostEventListener(dispatcher events.Dispatcher, cache repository.PostCache, logger *zap.Logger) *PostEventListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostEventListener{
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (l *PostEventListener) RegisterHandlers() {
	if l.dispatcher == nil {
		return
	}
	l.dispatcher.Subscribe(events.EventPostCreated, l.handlePostCreated)
	l.dispatcher.Subscribe(events.EventPostUpdated, l.handlePostUpdated)
	l.dispatcher.Subscribe(events.EventPostDeleted, l.handlePostDeleted)
}

func (l *PostEventListener) handlePostCreated(ctx context.Context, event events.Event) error {
	l.logger.Info("PostCreated", zap.String("post_id", event.PostID), zap.Any("payload", event.Payload))
	return l.invalidate(ctx, event)
}

func (l *PostEventListener) handlePostUpdated(ctx context.Context, event events.Event) error {
	l.logger.Info("PostUpdated", zap.String("post_id", event.PostID), zap.Any("payload", event.Payload))
	return l.invalidate(ctx, event)
}

func (l *PostEventListener) handlePostDeleted(ctx context.Context, event events.Event) error {
	l.logger.Info("PostDeleted", zap.String("post_id", event.PostID), zap.Any("payload", event.Payload))
	return l.invalidate(ctx, event)
}

func (l *PostEventListener) invalidate(ctx context.Context, event events.Event) error {
	if l.cache == nil {
		return nil
	}
	if err := l.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate post cache after %s: %w", event.Type, err)
	}
	l.logger.Debug("post cache invalidated", zap.String("event_type", string(event.Type)))
	return nil
}
