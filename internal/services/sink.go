package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink receives the side records of state-changing operations. It never
// fails the operation that produced them.
type Sink interface {
	Notify(ctx context.Context, recipientID *uuid.UUID, message, severity string)
	Record(ctx context.Context, kind string, meta map[string]any)
}

// FeedSink writes to the notification feeds and the activity log, logging
// whatever it could not store.
type FeedSink struct {
	notifications *NotificationService
	activity      *ActivityService
	logger        *zap.Logger
}

func NewFeedSink(notifications *NotificationService, activity *ActivityService, logger *zap.Logger) *FeedSink {
	return &FeedSink{notifications: notifications, activity: activity, logger: logger}
}

func (s *FeedSink) Notify(ctx context.Context, recipientID *uuid.UUID, message, severity string) {
	if _, err := s.notifications.Record(ctx, recipientID, message, severity); err != nil {
		s.logger.Warn("failed to record notification", zap.String("message", message), zap.Error(err))
	}
}

func (s *FeedSink) Record(ctx context.Context, kind string, meta map[string]any) {
	if err := s.activity.Record(ctx, kind, meta); err != nil {
		s.logger.Warn("failed to record activity", zap.String("kind", kind), zap.Error(err))
	}
}

type nopSink struct{}

func (nopSink) Notify(context.Context, *uuid.UUID, string, string) {}
func (nopSink) Record(context.Context, string, map[string]any)     {}

func sinkOrNop(s Sink) Sink {
	if s == nil {
		return nopSink{}
	}
	return s
}
