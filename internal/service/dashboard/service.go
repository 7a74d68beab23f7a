package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/model"
	"chat-dashboard-backend/internal/session"
)

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "validation_error"
	ErrorCodeNotFound   ErrorCode = "not_found"
	ErrorCodeInternal   ErrorCode = "internal_error"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Service assembles the chat dashboard's read model: session summaries,
// transcripts and usage counters derived from the stored chat log.
type Service struct {
	repo Repository
	now  func() time.Time
}

func New(db *database.Database) *Service {
	return NewWithRepository(NewDynamoRepository(db), time.Now)
}

func NewWithRepository(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

type ListSessionsParams struct {
	EmbedID string
}

// SessionDetail is one session's summary together with its full transcript.
type SessionDetail struct {
	Summary    session.Summary
	Transcript []session.TurnView
}

func (s *Service) ListSessions(ctx context.Context, params ListSessionsParams) ([]session.Summary, error) {
	embedID := strings.TrimSpace(params.EmbedID)

	var chats []model.EmbedChatItem
	var err error
	if embedID != "" {
		chats, err = s.repo.ListTurnsByEmbed(ctx, embedID)
	} else {
		chats, err = s.repo.ListTurns(ctx)
	}
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch chat sessions", err)
	}

	identities, err := s.loadIdentities(ctx)
	if err != nil {
		return nil, err
	}

	return session.Summarize(toTurns(chats), identities, s.now()), nil
}

func (s *Service) SessionDetail(ctx context.Context, sessionID string) (SessionDetail, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return SessionDetail{}, newError(ErrorCodeValidation, "session id is required", nil)
	}

	chats, err := s.repo.ListTurnsBySession(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, newError(ErrorCodeInternal, "failed to fetch chat session", err)
	}

	turns := toTurns(chats)
	transcript, err := session.Transcript(sessionID, turns)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return SessionDetail{}, newError(ErrorCodeNotFound, "session not found", err)
		}
		return SessionDetail{}, newError(ErrorCodeInternal, "failed to build transcript", err)
	}

	identities, err := s.loadIdentities(ctx)
	if err != nil {
		return SessionDetail{}, err
	}

	summaries := session.Summarize(turns, identities, s.now())
	detail := SessionDetail{Transcript: transcript}
	for _, summary := range summaries {
		if summary.SessionID == sessionID {
			detail.Summary = summary
			break
		}
	}
	return detail, nil
}

func (s *Service) Stats(ctx context.Context) (session.Usage, error) {
	chats, err := s.repo.ListTurns(ctx)
	if err != nil {
		return session.Usage{}, newError(ErrorCodeInternal, "failed to fetch chat log", err)
	}
	return session.Stats(toTurns(chats), s.now()), nil
}

func (s *Service) ListEmbeds(ctx context.Context) ([]model.EmbedConfigItem, error) {
	embeds, err := s.repo.ListEmbeds(ctx)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch embeds", err)
	}
	return embeds, nil
}

func (s *Service) loadIdentities(ctx context.Context) ([]session.Identity, error) {
	submissions, err := s.repo.ListIdentities(ctx)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch visitor identities", err)
	}

	identities := make([]session.Identity, 0, len(submissions))
	for _, submission := range submissions {
		if submission.SessionID == "" {
			continue
		}
		identities = append(identities, session.Identity{
			SessionToken: submission.SessionID,
			Name:         submission.Name,
			Email:        submission.Email,
			Mobile:       submission.Mobile,
			Region:       submission.Region,
			CreatedAt:    parseTime(submission.CreatedAt),
		})
	}
	return identities, nil
}

func toTurns(chats []model.EmbedChatItem) []session.Turn {
	turns := make([]session.Turn, 0, len(chats))
	for _, chat := range chats {
		turns = append(turns, session.Turn{
			ID:             chat.ChatID,
			SessionID:      chat.SessionID,
			Prompt:         chat.Prompt,
			Response:       chat.Response,
			ConnectionInfo: chat.ConnectionInfo,
			CreatedAt:      parseTime(chat.CreatedAt),
		})
	}
	return turns
}

// parseTime tolerates the two timestamp shapes found in the chat log. A row
// with an unparseable timestamp still surfaces, just with a zero time.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return parsed
	}
	return time.Time{}
}
