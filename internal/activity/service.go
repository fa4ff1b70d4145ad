package activity

import (
	"context"

	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultQueryLimit caps activity reads when the caller does not ask for a
// specific number of entries.
const DefaultQueryLimit = 20

// MaxQueryLimit bounds how many entries a single query may return.
const MaxQueryLimit = 100

// Service defines activity log business logic.
type Service interface {
	// Record appends an entry. It never returns an error to callers on the
	// write path; failures are logged and swallowed.
	Record(ctx context.Context, userID uuid.UUID, actType ActivityType, message string, relatedID *uuid.UUID, relatedType *string)
	Query(ctx context.Context, userID uuid.UUID, limit int) ([]Activity, error)
}

type serviceImpl struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger.Named("activity_service")}
}

// Record appends an activity entry. Invoked after the triggering write has
// committed, so a failure here must not fail the caller's request.
func (s *serviceImpl) Record(ctx context.Context, userID uuid.UUID, actType ActivityType, message string, relatedID *uuid.UUID, relatedType *string) {
	entry := &Activity{
		UserID:            userID,
		Type:              actType,
		Message:           message,
		RelatedEntityID:   relatedID,
		RelatedEntityType: relatedType,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record activity",
			zap.String("user_id", userID.String()),
			zap.String("type", string(actType)),
			zap.Error(err),
		)
	}
}

// Query returns the user's most recent entries, newest first. A
// non-positive limit falls back to DefaultQueryLimit.
func (s *serviceImpl) Query(ctx context.Context, userID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	entries, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to query activity", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve activity.")
	}
	return entries, nil
}
