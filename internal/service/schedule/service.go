package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/officehours"
)

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "validation_error"
	ErrorCodeInternal   ErrorCode = "internal_error"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(db *database.Database) *Service {
	return &Service{
		repo: NewDynamoRepository(db),
		now:  time.Now,
	}
}

func NewWithRepository(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: repo,
		now:  now,
	}
}

// GetSchedule loads the stored office-hours schedule, falling back to the
// default when nothing has been configured yet. A stored value that no
// longer parses also falls back rather than breaking the admin page.
func (s *Service) GetSchedule(ctx context.Context) (officehours.Schedule, error) {
	raw, err := s.repo.GetOfficeHours(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return officehours.Default(), nil
		}
		return officehours.Schedule{}, newError(ErrorCodeInternal, "failed to load office hours", err)
	}

	var sched officehours.Schedule
	if err := json.Unmarshal([]byte(raw), &sched); err != nil {
		return officehours.Default(), nil
	}
	return sched, nil
}

// UpdateSchedule validates and persists a new schedule. Validation is
// atomic: any violation rejects the whole schedule and nothing is written.
func (s *Service) UpdateSchedule(ctx context.Context, sched officehours.Schedule) (officehours.Schedule, error) {
	if err := officehours.Validate(sched); err != nil {
		return officehours.Schedule{}, newError(ErrorCodeValidation, err.Error(), err)
	}

	raw, err := json.Marshal(sched)
	if err != nil {
		return officehours.Schedule{}, newError(ErrorCodeInternal, "failed to encode office hours", err)
	}

	nowStr := s.now().UTC().Format(time.RFC3339)
	if err := s.repo.PutOfficeHours(ctx, string(raw), nowStr); err != nil {
		return officehours.Schedule{}, newError(ErrorCodeInternal, "failed to store office hours", err)
	}
	return sched, nil
}

// Status evaluates the stored schedule at the service clock's current time.
func (s *Service) Status(ctx context.Context) (officehours.Status, error) {
	sched, err := s.GetSchedule(ctx)
	if err != nil {
		return officehours.Status{}, err
	}
	return officehours.Evaluate(sched, s.now()), nil
}
