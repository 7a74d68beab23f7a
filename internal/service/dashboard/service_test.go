package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chat-dashboard-backend/internal/model"
	"chat-dashboard-backend/internal/session"
)

type memoryRepository struct {
	mu          sync.Mutex
	chats       []model.EmbedChatItem
	submissions []model.PrechatSubmissionItem
	embeds      []model.EmbedConfigItem
}

func (m *memoryRepository) ListTurns(ctx context.Context) ([]model.EmbedChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.EmbedChatItem(nil), m.chats...), nil
}

func (m *memoryRepository) ListTurnsByEmbed(ctx context.Context, embedID string) ([]model.EmbedChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filtered := make([]model.EmbedChatItem, 0)
	for _, chat := range m.chats {
		if chat.EmbedID == embedID {
			filtered = append(filtered, chat)
		}
	}
	return filtered, nil
}

func (m *memoryRepository) ListTurnsBySession(ctx context.Context, sessionID string) ([]model.EmbedChatItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filtered := make([]model.EmbedChatItem, 0)
	for _, chat := range m.chats {
		if chat.SessionID == sessionID {
			filtered = append(filtered, chat)
		}
	}
	return filtered, nil
}

func (m *memoryRepository) ListIdentities(ctx context.Context) ([]model.PrechatSubmissionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PrechatSubmissionItem(nil), m.submissions...), nil
}

func (m *memoryRepository) ListEmbeds(ctx context.Context) ([]model.EmbedConfigItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.EmbedConfigItem(nil), m.embeds...), nil
}

func fixedTime() time.Time {
	return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
}

func chatItem(chatID, sessionID, embedID, prompt, createdAt string) model.EmbedChatItem {
	return model.EmbedChatItem{
		PK:        model.ChatPK(sessionID, chatID),
		ChatID:    chatID,
		SessionID: sessionID,
		EmbedID:   embedID,
		Prompt:    prompt,
		Response:  `{"text":"reply"}`,
		CreatedAt: createdAt,
	}
}

func TestListSessionsGroupsByFirstSeen(t *testing.T) {
	repo := &memoryRepository{
		chats: []model.EmbedChatItem{
			chatItem("c1", "sess-a", "emb-1", "hello", "2024-03-04T10:00:00Z"),
			chatItem("c2", "sess-b", "emb-1", "hi", "2024-03-04T10:05:00Z"),
			chatItem("c3", "sess-a", "emb-1", "more", "2024-03-04T10:10:00Z"),
		},
	}
	service := NewWithRepository(repo, fixedTime)

	summaries, err := service.ListSessions(context.Background(), ListSessionsParams{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(summaries))
	}
	if summaries[0].SessionID != "sess-a" || summaries[1].SessionID != "sess-b" {
		t.Fatalf("order: %s, %s", summaries[0].SessionID, summaries[1].SessionID)
	}
	if summaries[0].MessageCount != 2 {
		t.Fatalf("sess-a count: %d", summaries[0].MessageCount)
	}
	if summaries[0].UserName != session.AnonymousUserName {
		t.Fatalf("expected anonymous name, got %q", summaries[0].UserName)
	}
}

func TestListSessionsFiltersByEmbed(t *testing.T) {
	repo := &memoryRepository{
		chats: []model.EmbedChatItem{
			chatItem("c1", "sess-a", "emb-1", "hello", "2024-03-04T10:00:00Z"),
			chatItem("c2", "sess-b", "emb-2", "hi", "2024-03-04T10:05:00Z"),
		},
	}
	service := NewWithRepository(repo, fixedTime)

	summaries, err := service.ListSessions(context.Background(), ListSessionsParams{EmbedID: "emb-2"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(summaries) != 1 || summaries[0].SessionID != "sess-b" {
		t.Fatalf("filter result: %+v", summaries)
	}
}

func TestListSessionsJoinsIdentity(t *testing.T) {
	repo := &memoryRepository{
		chats: []model.EmbedChatItem{
			chatItem("c1", "sess-a", "emb-1", "hello", "2024-03-04T10:00:00Z"),
		},
		submissions: []model.PrechatSubmissionItem{
			{
				UUID:      "u1",
				Name:      "Mickey",
				Email:     "mickey@example.com",
				Mobile:    "9999999999",
				Region:    "Pune",
				SessionID: "sess-a",
				Status:    model.SubmissionStatusSubmitted,
				CreatedAt: "2024-03-04T09:55:00Z",
			},
			{
				// No session token, never joined.
				UUID:      "u2",
				Name:      "Nobody",
				Email:     "nobody@example.com",
				Status:    model.SubmissionStatusSubmitted,
				CreatedAt: "2024-03-04T09:00:00Z",
			},
		},
	}
	service := NewWithRepository(repo, fixedTime)

	summaries, err := service.ListSessions(context.Background(), ListSessionsParams{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 session, got %d", len(summaries))
	}
	got := summaries[0]
	if !got.HasIdentity || got.UserName != "Mickey" || got.UserEmail != "mickey@example.com" {
		t.Fatalf("identity not joined: %+v", got)
	}
	wantFirstSeen := time.Date(2024, 3, 4, 9, 55, 0, 0, time.UTC)
	if !got.FirstSeen.Equal(wantFirstSeen) {
		t.Fatalf("first seen not taken from identity: %v", got.FirstSeen)
	}
}

func TestSessionDetail(t *testing.T) {
	repo := &memoryRepository{
		chats: []model.EmbedChatItem{
			chatItem("c2", "sess-a", "emb-1", "second", "2024-03-04T10:10:00Z"),
			chatItem("c1", "sess-a", "emb-1", "first", "2024-03-04T10:00:00Z"),
		},
	}
	service := NewWithRepository(repo, fixedTime)

	detail, err := service.SessionDetail(context.Background(), "sess-a")
	if err != nil {
		t.Fatalf("session detail: %v", err)
	}
	if detail.Summary.SessionID != "sess-a" {
		t.Fatalf("summary session: %q", detail.Summary.SessionID)
	}
	if len(detail.Transcript) != 2 {
		t.Fatalf("transcript length: %d", len(detail.Transcript))
	}
	if detail.Transcript[0].UserMessage != "first" || detail.Transcript[1].UserMessage != "second" {
		t.Fatalf("transcript not sorted: %+v", detail.Transcript)
	}
	if detail.Transcript[0].AssistantMessage != "reply" {
		t.Fatalf("assistant message: %q", detail.Transcript[0].AssistantMessage)
	}
}

func TestSessionDetailNotFound(t *testing.T) {
	service := NewWithRepository(&memoryRepository{}, fixedTime)

	_, err := service.SessionDetail(context.Background(), "missing")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = service.SessionDetail(context.Background(), "  ")
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStats(t *testing.T) {
	repo := &memoryRepository{
		chats: []model.EmbedChatItem{
			chatItem("c1", "sess-a", "emb-1", "hello", "2024-03-04T10:00:00Z"),
			chatItem("c2", "sess-a", "emb-1", "again", "2024-03-03T10:00:00Z"),
			chatItem("c3", "sess-b", "emb-1", "hi", "2024-02-01T10:00:00Z"),
		},
	}
	service := NewWithRepository(repo, fixedTime)

	usage, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if usage.TotalMessages != 3 {
		t.Fatalf("total: %d", usage.TotalMessages)
	}
	if usage.TodayMessages != 1 || usage.YesterdayMessages != 1 {
		t.Fatalf("day counters: %+v", usage)
	}
	if usage.UniqueSessions != 2 {
		t.Fatalf("unique sessions: %d", usage.UniqueSessions)
	}
}

func TestListEmbeds(t *testing.T) {
	repo := &memoryRepository{
		embeds: []model.EmbedConfigItem{
			{EmbedID: "emb-1", WorkspaceName: "Support", Enabled: true, CreatedAt: "2024-01-01T00:00:00Z"},
		},
	}
	service := NewWithRepository(repo, fixedTime)

	embeds, err := service.ListEmbeds(context.Background())
	if err != nil {
		t.Fatalf("list embeds: %v", err)
	}
	if len(embeds) != 1 || embeds[0].EmbedID != "emb-1" {
		t.Fatalf("embeds: %+v", embeds)
	}
}
