package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nexusai-be/internal/entity"
	"nexusai-be/internal/mapper"
	"nexusai-be/internal/model"
	"nexusai-be/internal/repository/contract"
	"nexusai-be/internal/repository/specification"
)

type ChatHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatHistoryRepository(db *gorm.DB) contract.ChatHistoryRepository {
	return &ChatHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatHistoryRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatHistoryRepositoryImpl) Upsert(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ToModel(session)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatHistoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChatHistory{}, id).Error
}

func (r *ChatHistoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var m model.ChatHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var models []*model.ChatHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatHistory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatHistoryRepositoryImpl) FindBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (*entity.ChatSession, error) {
	specs := []specification.Specification{specification.BySessionID{SessionID: sessionId}}
	if userId != nil {
		specs = append(specs, specification.OwnedBy{UserID: *userId})
	} else {
		specs = append(specs, specification.AnonymousSession{})
	}
	return r.FindOne(ctx, specs...)
}

func (r *ChatHistoryRepositoryImpl) DeleteBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (bool, error) {
	query := r.db.WithContext(ctx).Where("session_id = ?", sessionId)
	if userId != nil {
		query = query.Where("user_id = ?", *userId)
	} else {
		query = query.Where("user_id IS NULL")
	}
	result := query.Delete(&model.ChatHistory{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ChatHistoryRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.ChatHistory{})
	return result.RowsAffected, result.Error
}

func (r *ChatHistoryRepositoryImpl) SumMessageCount(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var total *int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatHistory{}), specs...)
	if err := query.Select("SUM(message_count)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *ChatHistoryRepositoryImpl) TopicDistribution(ctx context.Context, specs ...specification.Specification) (map[string]int64, error) {
	var rows []struct {
		Topic string
		Count int64
	}
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatHistory{}), specs...)
	err := query.Select("topic, COUNT(*) as count").Group("topic").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int64, len(rows))
	for _, row := range rows {
		dist[row.Topic] = row.Count
	}
	return dist, nil
}
