package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"nexusai-be/internal/constant"
	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/contract"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"
	"nexusai-be/pkg/answercache"
	"nexusai-be/pkg/llm"
	"nexusai-be/pkg/topic"
)

// ---- In-memory fakes ----

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
func (noopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (noopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type fakeLLM struct {
	reply     string
	err       error
	chatCalls int
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	f.chatCalls++
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.reply, f.err
}

type fakeChatRepo struct {
	sessions  map[string]*entity.ChatSession
	upsertErr error
	findErr   error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{sessions: map[string]*entity.ChatSession{}}
}

func sessionKey(userId *uuid.UUID, sessionId string) string {
	if userId == nil {
		return "guest|" + sessionId
	}
	return userId.String() + "|" + sessionId
}

func (r *fakeChatRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	return r.Upsert(ctx, session)
}

func (r *fakeChatRepo) Upsert(ctx context.Context, session *entity.ChatSession) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copied := *session
	r.sessions[sessionKey(session.UserId, session.SessionId)] = &copied
	return nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return nil, nil
}

func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	out := make([]*entity.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.sessions)), nil
}

func (r *fakeChatRepo) FindBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (*entity.ChatSession, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	session, ok := r.sessions[sessionKey(userId, sessionId)]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeChatRepo) DeleteBySessionKey(ctx context.Context, userId *uuid.UUID, sessionId string) (bool, error) {
	key := sessionKey(userId, sessionId)
	if _, ok := r.sessions[key]; !ok {
		return false, nil
	}
	delete(r.sessions, key)
	return true, nil
}

func (r *fakeChatRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	var deleted int64
	for key, s := range r.sessions {
		if s.UserId != nil && *s.UserId == userId {
			delete(r.sessions, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeChatRepo) SumMessageCount(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var sum int64
	for _, s := range r.sessions {
		sum += int64(s.MessageCount)
	}
	return sum, nil
}

func (r *fakeChatRepo) TopicDistribution(ctx context.Context, specs ...specification.Specification) (map[string]int64, error) {
	dist := map[string]int64{}
	for _, s := range r.sessions {
		dist[s.Topic]++
	}
	return dist, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	copied := *u
	return &copied
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.Delete(ctx, id)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byEmail, ok := spec.(specification.ByEmail); ok {
			for _, u := range r.users {
				if u.Email == byEmail.Email {
					copied := *u
					return &copied, nil
				}
			}
			return nil, nil
		}
		if byId, ok := spec.(specification.ByID); ok {
			if u, found := r.users[byId.ID]; found {
				copied := *u
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.FindOne(ctx, specs...)
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Restore(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Status = entity.UserStatus(status)
	}
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	return nil
}

func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

func (r *fakeUserRepo) FindUserByProvider(ctx context.Context, providerName, providerUserId string) (*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return 0, nil
}

type fakeUow struct {
	chatRepo *fakeChatRepo
	userRepo *fakeUserRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.userRepo }
func (u *fakeUow) ChatHistoryRepository() contract.ChatHistoryRepository {
	return u.chatRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeAnswerCache struct {
	entries map[string]string
}

func newFakeAnswerCache() *fakeAnswerCache {
	return &fakeAnswerCache{entries: map[string]string{}}
}

func (c *fakeAnswerCache) Get(ctx context.Context, topic, question string) (string, bool) {
	answer, ok := c.entries[topic+"|"+question]
	return answer, ok
}

func (c *fakeAnswerCache) Set(ctx context.Context, topic, question, answer string) {
	c.entries[topic+"|"+question] = answer
}

func newChatFixture() (*fakeChatRepo, *fakeLLM, IChatService) {
	chatRepo := newFakeChatRepo()
	llmStub := &fakeLLM{reply: "a fine answer"}
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: chatRepo, userRepo: newFakeUserRepo()}}
	svc := NewChatService(factory, llmStub, answercache.New(nil), noopLogger{}, nil)
	return chatRepo, llmStub, svc
}

// ---- Tests ----

func TestSendMessageGeneratesSessionId(t *testing.T) {
	chatRepo, _, svc := newChatFixture()

	resp, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message: "Who is Chelsea's manager?",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if !strings.HasPrefix(resp.SessionId, "session_") {
		t.Errorf("SessionId = %q, want session_ prefix", resp.SessionId)
	}

	stored, _ := chatRepo.FindBySessionKey(context.Background(), nil, resp.SessionId)
	if stored == nil {
		t.Fatal("session was not persisted")
	}
	if stored.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2 (question and reply)", stored.MessageCount)
	}
}

func TestSendMessageOutOfScope(t *testing.T) {
	chatRepo, llmStub, svc := newChatFixture()

	resp, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   "What is the capital of France?",
		SessionId: "session_77",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if !resp.IsOutOfScope {
		t.Error("IsOutOfScope = false, want true")
	}
	if resp.Response != constant.OutOfScopeResponse {
		t.Errorf("Response = %q, want the fixed decline text", resp.Response)
	}
	if llmStub.chatCalls != 0 {
		t.Errorf("LLM was called %d times for an out-of-scope message, want 0", llmStub.chatCalls)
	}

	stored, _ := chatRepo.FindBySessionKey(context.Background(), nil, "session_77")
	if stored == nil {
		t.Fatal("declined exchange was not persisted")
	}
	last := stored.Messages[len(stored.Messages)-1]
	if !last.Metadata.IsOutOfScope {
		t.Error("persisted decline message missing isOutOfScope marker")
	}
}

func TestSendMessageInScope(t *testing.T) {
	chatRepo, llmStub, svc := newChatFixture()
	llmStub.reply = "Enzo Maresca took over in 2024."

	userId := uuid.New()
	resp, err := svc.SendMessage(context.Background(), &userId, &dto.SendMessageRequest{
		Message:   "Who coaches Chelsea right now?",
		SessionId: "session_1",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if resp.IsOutOfScope {
		t.Error("IsOutOfScope = true for a Chelsea question")
	}
	if resp.Response != llmStub.reply {
		t.Errorf("Response = %q, want the model reply", resp.Response)
	}
	if llmStub.chatCalls != 1 {
		t.Errorf("LLM calls = %d, want 1", llmStub.chatCalls)
	}

	stored, _ := chatRepo.FindBySessionKey(context.Background(), &userId, "session_1")
	if stored == nil {
		t.Fatal("session was not persisted")
	}
	if stored.Topic != topic.Chelsea {
		t.Errorf("session Topic = %q, want %q", stored.Topic, topic.Chelsea)
	}
	if !stored.IsAuthenticated {
		t.Error("IsAuthenticated = false for an owned session")
	}
}

func TestSendMessageUpstreamFailureDegradesToApology(t *testing.T) {
	chatRepo, llmStub, svc := newChatFixture()
	llmStub.err = &apperrors.UpstreamError{Provider: "openai", Err: errors.New("rate limited"), Transient: true}

	resp, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   "Explain CSS grid",
		SessionId: "session_5",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v, want nil despite upstream failure", err)
	}
	if resp.Response != constant.UpstreamErrorResponse {
		t.Errorf("Response = %q, want the apology text", resp.Response)
	}
	if resp.IsOutOfScope {
		t.Error("IsOutOfScope = true, apology is still an in-scope reply")
	}

	stored, _ := chatRepo.FindBySessionKey(context.Background(), nil, "session_5")
	if stored == nil {
		t.Fatal("session was not persisted")
	}
	last := stored.Messages[len(stored.Messages)-1]
	if !last.Metadata.IsError {
		t.Error("persisted apology missing isError marker")
	}
}

func TestSendMessageRepeatedQuestionHitsCache(t *testing.T) {
	chatRepo := newFakeChatRepo()
	llmStub := &fakeLLM{reply: "Palmer wears number 10."}
	cache := newFakeAnswerCache()
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: chatRepo, userRepo: newFakeUserRepo()}}
	svc := NewChatService(factory, llmStub, cache, noopLogger{}, nil)

	// A broad-only question: the scope gate says chelsea, while the
	// narrow session-level label stays general. The cache key must come
	// from the gate on both the read and the write.
	question := "Who is Palmer?"

	first, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   question,
		SessionId: "session_a",
	})
	if err != nil {
		t.Fatalf("first SendMessage() error = %v", err)
	}
	second, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   question,
		SessionId: "session_b",
	})
	if err != nil {
		t.Fatalf("second SendMessage() error = %v", err)
	}

	if llmStub.chatCalls != 1 {
		t.Errorf("LLM calls = %d, want 1 for a repeated identical question", llmStub.chatCalls)
	}
	if second.Response != first.Response {
		t.Errorf("cached Response = %q, want %q", second.Response, first.Response)
	}
}

func TestSendMessagePersistFailureIsSwallowed(t *testing.T) {
	chatRepo, llmStub, svc := newChatFixture()
	chatRepo.upsertErr = errors.New("connection refused")
	llmStub.reply = "useEffect runs after render."

	resp, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   "When does useEffect run in React?",
		SessionId: "session_9",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v, want nil despite storage failure", err)
	}
	if resp.Response != llmStub.reply {
		t.Errorf("Response = %q, want the model reply", resp.Response)
	}
}

func TestSendMessageRejectsEmptyMessage(t *testing.T) {
	_, _, svc := newChatFixture()

	_, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message: "   ",
	})
	if err == nil {
		t.Fatal("SendMessage() error = nil, want validation error")
	}
	if _, ok := err.(*apperrors.ValidationError); !ok {
		t.Errorf("error type = %T, want *apperrors.ValidationError", err)
	}
}

func TestGuestAndOwnedSessionsStayDistinct(t *testing.T) {
	chatRepo, _, svc := newChatFixture()
	userId := uuid.New()

	if _, err := svc.SendMessage(context.Background(), nil, &dto.SendMessageRequest{
		Message:   "Chelsea transfer news?",
		SessionId: "session_shared",
	}); err != nil {
		t.Fatalf("guest SendMessage() error = %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), &userId, &dto.SendMessageRequest{
		Message:   "Tailwind utility classes?",
		SessionId: "session_shared",
	}); err != nil {
		t.Fatalf("owned SendMessage() error = %v", err)
	}

	guest, _ := chatRepo.FindBySessionKey(context.Background(), nil, "session_shared")
	owned, _ := chatRepo.FindBySessionKey(context.Background(), &userId, "session_shared")
	if guest == nil || owned == nil {
		t.Fatal("expected both a guest and an owned session under the same id")
	}
	if guest.Id == owned.Id {
		t.Error("guest and owned sessions collapsed into one record")
	}
}

func TestGetSessionDetailNotFound(t *testing.T) {
	_, _, svc := newChatFixture()

	_, err := svc.GetSessionDetail(context.Background(), uuid.New(), "session_missing")
	if err == nil {
		t.Fatal("GetSessionDetail() error = nil, want not found")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("error = %v, want wrapping ErrNotFound", err)
	}
}

func TestDeleteSessionNotFound(t *testing.T) {
	_, _, svc := newChatFixture()

	err := svc.DeleteSession(context.Background(), uuid.New(), "session_missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("error = %v, want wrapping ErrNotFound", err)
	}
}

func TestGetHistoryClampsPagination(t *testing.T) {
	_, _, svc := newChatFixture()

	resp, err := svc.GetHistory(context.Background(), uuid.New(), -3, 5000)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if resp.Pagination.Page != 1 {
		t.Errorf("Page = %d, want clamped to 1", resp.Pagination.Page)
	}
	if resp.Pagination.Limit != 10 {
		t.Errorf("Limit = %d, want default 10", resp.Pagination.Limit)
	}
}

func TestHealthCheckReportsUnhealthyWithoutError(t *testing.T) {
	_, llmStub, svc := newChatFixture()
	llmStub.err = errors.New("connection refused")

	resp, err := svc.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck() error = %v, want nil", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", resp.Status)
	}
}
