// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"nexusai-be/internal/constant"
	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"
	"nexusai-be/pkg/llm"
	"nexusai-be/pkg/topic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// MessageSavedTopic is the in-process bus topic the usage counter listens on.
const MessageSavedTopic = "chat.message.saved"

// MessageSavedEvent is published after each successful user message exchange.
type MessageSavedEvent struct {
	UserId    string    `json:"user_id,omitempty"`
	SessionId string    `json:"session_id"`
	Topic     string    `json:"topic"`
	SavedAt   time.Time `json:"saved_at"`
}

type IChatService interface {
	SendMessage(ctx context.Context, userId *uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ChatHistoryResponse, error)
	GetSessionDetail(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ChatDetailResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId string) error
	GetStats(ctx context.Context, userId uuid.UUID) (*dto.ChatStatsEnvelope, error)
	HealthCheck(ctx context.Context) (*dto.AssistantHealthResponse, error)
}

// AnswerCache fronts the LLM with a best-effort answer store keyed by
// (topic, question). Satisfied by answercache.Cache.
type AnswerCache interface {
	Get(ctx context.Context, topic, question string) (string, bool)
	Set(ctx context.Context, topic, question, answer string)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	llmProvider  llm.LLMProvider
	answerCache  AnswerCache
	logger       logger.ILogger
	busPublisher message.Publisher
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, llmProvider llm.LLMProvider, cache AnswerCache, log logger.ILogger, busPublisher message.Publisher) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		llmProvider:  llmProvider,
		answerCache:  cache,
		logger:       log,
		busPublisher: busPublisher,
	}
}

func (s *chatService) SendMessage(ctx context.Context, userId *uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = fmt.Sprintf("session_%d", time.Now().UnixMilli())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatHistoryRepository().FindBySessionKey(ctx, userId, sessionId)
	if err != nil {
		s.logger.Error("CHAT", "failed to load session", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		session = nil
	}
	if session == nil {
		session = entity.NewChatSession(userId, sessionId)
	}

	now := time.Now()
	if err := session.AddMessage(req.Message, entity.MessageSenderUser, entity.MessageMetadata{}, now); err != nil {
		return nil, err
	}
	s.saveSession(ctx, uow, session, now)

	chelsea, frontend := topic.InScope(req.Message)
	if !chelsea && !frontend {
		declineAt := time.Now()
		if err := session.AddMessage(constant.OutOfScopeResponse, entity.MessageSenderAssistant, entity.MessageMetadata{IsOutOfScope: true}, declineAt); err != nil {
			return nil, err
		}
		s.saveSession(ctx, uow, session, declineAt)

		return &dto.SendMessageResponse{
			Response:     constant.OutOfScopeResponse,
			IsOutOfScope: true,
			SessionId:    sessionId,
			Timestamp:    &declineAt,
		}, nil
	}

	answer, cacheTopic, answeredFromCache := s.answerFor(ctx, req.Message, chelsea, frontend)

	replyAt := time.Now()
	metadata := entity.MessageMetadata{IsError: answer == constant.UpstreamErrorResponse}
	if err := session.AddMessage(answer, entity.MessageSenderAssistant, metadata, replyAt); err != nil {
		return nil, err
	}
	s.saveSession(ctx, uow, session, replyAt)

	if !metadata.IsError {
		s.publishMessageSaved(userId, session)
		if !answeredFromCache {
			// Store under the same topic key the lookup used, so a
			// repeated question actually hits.
			s.answerCache.Set(ctx, cacheTopic, req.Message, answer)
		}
	}

	return &dto.SendMessageResponse{
		Response:     answer,
		IsOutOfScope: false,
		SessionId:    sessionId,
		Timestamp:    &replyAt,
	}, nil
}

// answerFor resolves the assistant reply: cache first, then the model with
// the topic-specialised prompt. A transient upstream failure degrades to the
// fixed apology text rather than an error. The returned cacheTopic is the
// key the caller must store a fresh answer under.
func (s *chatService) answerFor(ctx context.Context, question string, chelsea, frontend bool) (answer, cacheTopic string, fromCache bool) {
	var prompt string
	switch {
	case chelsea && frontend:
		prompt = question
		cacheTopic = topic.Mixed
	case chelsea:
		prompt = fmt.Sprintf(constant.ChelseaPromptTemplate, question)
		cacheTopic = topic.Chelsea
	default:
		prompt = fmt.Sprintf(constant.FrontendPromptTemplate, question)
		cacheTopic = topic.Frontend
	}

	if cached, ok := s.answerCache.Get(ctx, cacheTopic, question); ok {
		return cached, cacheTopic, true
	}

	reply, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.AssistantSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		s.logger.Error("CHAT", "assistant call failed", map[string]interface{}{"error": err.Error()})
		return constant.UpstreamErrorResponse, cacheTopic, false
	}
	return reply, cacheTopic, false
}

// saveSession recomputes derived fields and persists. Persistence failures
// are logged and swallowed so a storage hiccup never breaks the exchange.
func (s *chatService) saveSession(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, now time.Time) {
	session.RecalculateDerived(now)
	if err := uow.ChatHistoryRepository().Upsert(ctx, session); err != nil {
		s.logger.Error("CHAT", "failed to persist session", map[string]interface{}{
			"session_id": session.SessionId,
			"error":      err.Error(),
		})
		return
	}
	session.IsNew = false
}

func (s *chatService) publishMessageSaved(userId *uuid.UUID, session *entity.ChatSession) {
	if s.busPublisher == nil {
		return
	}
	event := MessageSavedEvent{
		SessionId: session.SessionId,
		Topic:     session.Topic,
		SavedAt:   time.Now(),
	}
	if userId != nil {
		event.UserId = userId.String()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.busPublisher.Publish(MessageSavedTopic, msg); err != nil {
		s.logger.Warn("CHAT", "failed to publish message event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ChatHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ChatHistoryRepository()

	owned := specification.OwnedBy{UserID: userId}
	total, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}

	sessions, err := repo.FindAll(ctx,
		owned,
		specification.OrderBy{Field: "last_activity", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChatListItem, len(sessions))
	for i, session := range sessions {
		items[i] = dto.ChatListItem{
			SessionId:    session.SessionId,
			Title:        session.Title,
			Topic:        session.Topic,
			MessageCount: session.MessageCount,
			LastActivity: session.LastActivity,
			CreatedAt:    session.CreatedAt,
			Preview:      session.Preview(),
		}
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return &dto.ChatHistoryResponse{
		Chats: items,
		Pagination: dto.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *chatService) GetSessionDetail(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.ChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatHistoryRepository().FindBySessionKey(ctx, &userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &apperrors.NotFoundError{Resource: "chat session"}
	}

	return &dto.ChatDetailResponse{
		SessionId:    session.SessionId,
		Title:        session.Title,
		Topic:        session.Topic,
		MessageCount: session.MessageCount,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
		Messages:     toMessageResponses(session.Messages),
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existed, err := uow.ChatHistoryRepository().DeleteBySessionKey(ctx, &userId, sessionId)
	if err != nil {
		return err
	}
	if !existed {
		return &apperrors.NotFoundError{Resource: "chat session"}
	}
	s.logger.Info("CHAT", "session deleted", map[string]interface{}{
		"user_id":    userId.String(),
		"session_id": sessionId,
	})
	return nil
}

func (s *chatService) GetStats(ctx context.Context, userId uuid.UUID) (*dto.ChatStatsEnvelope, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ChatHistoryRepository()
	owned := specification.OwnedBy{UserID: userId}

	totalChats, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	totalMessages, err := repo.SumMessageCount(ctx, owned)
	if err != nil {
		return nil, err
	}
	distribution, err := repo.TopicDistribution(ctx, owned)
	if err != nil {
		return nil, err
	}

	var avg int64
	if totalChats > 0 {
		avg = totalMessages / totalChats
	}

	topics := make([]dto.TopicCount, 0, len(distribution))
	for name, count := range distribution {
		topics = append(topics, dto.TopicCount{Topic: name, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Count > topics[j].Count })

	mostActive := "none"
	if len(topics) > 0 {
		mostActive = topics[0].Topic
	}

	recent, err := repo.FindAll(ctx,
		owned,
		specification.OrderBy{Field: "last_activity", Desc: true},
		specification.Pagination{Limit: 5},
	)
	if err != nil {
		return nil, err
	}
	activity := make([]dto.RecentChatActivity, len(recent))
	for i, session := range recent {
		activity[i] = dto.RecentChatActivity{
			Title:        session.Title,
			Topic:        session.Topic,
			MessageCount: session.MessageCount,
			LastActivity: session.LastActivity,
		}
	}

	return &dto.ChatStatsEnvelope{
		Stats: dto.ChatStatsResponse{
			TotalChats:         totalChats,
			TotalMessages:      totalMessages,
			AvgMessagesPerChat: avg,
			MostActiveTopic:    mostActive,
			TopicDistribution:  topics,
		},
		RecentActivity: activity,
	}, nil
}

func (s *chatService) HealthCheck(ctx context.Context) (*dto.AssistantHealthResponse, error) {
	reply, err := s.llmProvider.Generate(ctx, constant.HealthCheckPrompt, llm.WithMaxTokens(20))
	if err != nil {
		return &dto.AssistantHealthResponse{Status: "unhealthy", Response: err.Error()}, nil
	}
	return &dto.AssistantHealthResponse{Status: "healthy", Response: reply}, nil
}

func toMessageResponses(messages []entity.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = dto.MessageResponse{
			Content:   msg.Content,
			Sender:    msg.Sender,
			Timestamp: msg.Timestamp,
			Metadata: dto.MessageMetadataResponse{
				IsOutOfScope: msg.Metadata.IsOutOfScope,
				IsError:      msg.Metadata.IsError,
				Topic:        msg.Metadata.Topic,
			},
		}
	}
	return out
}
