package contract

import (
	"context"

	"github.com/google/uuid"

	"nexusai-be/internal/entity"
	"nexusai-be/internal/repository/specification"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// Upsert writes the whole aggregate, create-or-replace keyed by Id.
	Upsert(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindBySessionKey resolves the aggregate by its logical key. A nil
	// userId matches only guest sessions: an authenticated and an anonymous
	// session may share the same sessionId string and remain distinct rows.
	FindBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (*entity.ChatSession, error)
	// DeleteBySessionKey reports whether a record existed.
	DeleteBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (bool, error)
	// DeleteAllByUserId cascades on account removal; returns rows deleted.
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error)

	// Stats
	SumMessageCount(ctx context.Context, specs ...specification.Specification) (int64, error)
	TopicDistribution(ctx context.Context, specs ...specification.Specification) (map[string]int64, error)
}
