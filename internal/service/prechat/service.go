package prechat

import (
	"context"
	"errors"
	"strings"
	"time"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/model"

	"github.com/google/uuid"
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

var allowedStatuses = map[model.SubmissionStatus]bool{
	model.SubmissionStatusSubmitted: true,
	model.SubmissionStatusContacted: true,
	model.SubmissionStatusResolved:  true,
	model.SubmissionStatusArchived:  true,
}

type CreateSubmissionParams struct {
	Name        string
	Email       string
	Mobile      string
	CountryCode string
	Region      string
	Message     string
	WorkspaceID string
	SessionID   string
	IPAddress   string
	UserAgent   string
}

type ListParams struct {
	Status      string
	WorkspaceID string
	StartDate   string
	EndDate     string
	Limit       int
	Page        int
}

type ListResult struct {
	Submissions []model.PrechatSubmissionItem
	Page        int
	Limit       int
	Total       int
	TotalPages  int
}

type StatsResult struct {
	Total    int
	Today    int
	Week     int
	ByStatus map[string]int
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

func (s *Service) CreateSubmission(ctx context.Context, params CreateSubmissionParams) (model.PrechatSubmissionItem, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)
	mobile := strings.TrimSpace(params.Mobile)
	region := strings.TrimSpace(params.Region)

	if name == "" || email == "" || mobile == "" || region == "" {
		return model.PrechatSubmissionItem{}, newError(ErrorCodeValidation, "missing required fields: name, email, mobile, region", nil)
	}
	if !isValidEmail(email) {
		return model.PrechatSubmissionItem{}, newError(ErrorCodeValidation, "invalid email format", nil)
	}

	nowStr := s.now().UTC().Format(time.RFC3339)
	submission := model.PrechatSubmissionItem{
		UUID:        uuid.NewString(),
		Name:        name,
		Email:       email,
		Mobile:      mobile,
		CountryCode: strings.TrimSpace(params.CountryCode),
		Region:      region,
		Message:     strings.TrimSpace(params.Message),
		WorkspaceID: strings.TrimSpace(params.WorkspaceID),
		SessionID:   strings.TrimSpace(params.SessionID),
		IPAddress:   strings.TrimSpace(params.IPAddress),
		UserAgent:   params.UserAgent,
		Status:      model.SubmissionStatusSubmitted,
		CreatedAt:   nowStr,
		UpdatedAt:   nowStr,
	}

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return model.PrechatSubmissionItem{}, newError(ErrorCodeInternal, "failed to save submission", err)
	}
	return submission, nil
}

func (s *Service) ListSubmissions(ctx context.Context, params ListParams) (ListResult, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	// Page only feeds the response envelope for the client's pager. The
	// store always returns the newest rows up to limit; it never offsets.
	page := params.Page
	if page <= 0 {
		page = 1
	}

	var submissions []model.PrechatSubmissionItem
	var err error

	switch {
	case strings.TrimSpace(params.Status) != "":
		status := model.SubmissionStatus(strings.TrimSpace(params.Status))
		if !allowedStatuses[status] {
			return ListResult{}, newError(ErrorCodeValidation, "invalid status filter", nil)
		}
		submissions, err = s.repo.ListSubmissionsByStatus(ctx, status, limit)
	case strings.TrimSpace(params.WorkspaceID) != "":
		submissions, err = s.repo.ListSubmissionsByWorkspace(ctx, strings.TrimSpace(params.WorkspaceID), limit)
	case params.StartDate != "" && params.EndDate != "":
		var start, end time.Time
		start, err = time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return ListResult{}, newError(ErrorCodeValidation, "invalid startDate, expected YYYY-MM-DD", err)
		}
		end, err = time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return ListResult{}, newError(ErrorCodeValidation, "invalid endDate, expected YYYY-MM-DD", err)
		}
		submissions, err = s.repo.ListSubmissionsBetween(ctx, start, end.AddDate(0, 0, 1))
	default:
		submissions, err = s.repo.ListRecentSubmissions(ctx, limit)
	}
	if err != nil {
		return ListResult{}, newError(ErrorCodeInternal, "failed to fetch submissions", err)
	}

	total, err := s.repo.CountSubmissions(ctx)
	if err != nil {
		return ListResult{}, newError(ErrorCodeInternal, "failed to count submissions", err)
	}

	totalPages := (total + limit - 1) / limit
	return ListResult{
		Submissions: submissions,
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
	}, nil
}

// exportLimit caps unfiltered exports.
const exportLimit = 1000

// ExportSubmissions returns the rows for a CSV download. A date range takes
// precedence over a status filter; with neither, the newest rows are
// returned up to exportLimit.
func (s *Service) ExportSubmissions(ctx context.Context, params ListParams) ([]model.PrechatSubmissionItem, error) {
	var submissions []model.PrechatSubmissionItem
	var err error

	switch {
	case params.StartDate != "" && params.EndDate != "":
		var start, end time.Time
		start, err = time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return nil, newError(ErrorCodeValidation, "invalid startDate, expected YYYY-MM-DD", err)
		}
		end, err = time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return nil, newError(ErrorCodeValidation, "invalid endDate, expected YYYY-MM-DD", err)
		}
		submissions, err = s.repo.ListSubmissionsBetween(ctx, start, end.AddDate(0, 0, 1))
	case strings.TrimSpace(params.Status) != "":
		status := model.SubmissionStatus(strings.TrimSpace(params.Status))
		if !allowedStatuses[status] {
			return nil, newError(ErrorCodeValidation, "invalid status filter", nil)
		}
		submissions, err = s.repo.ListSubmissionsByStatus(ctx, status, exportLimit)
	default:
		submissions, err = s.repo.ListRecentSubmissions(ctx, exportLimit)
	}
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch submissions", err)
	}
	return submissions, nil
}

func (s *Service) GetSubmission(ctx context.Context, submissionUUID string) (model.PrechatSubmissionItem, error) {
	submissionUUID = strings.TrimSpace(submissionUUID)
	if submissionUUID == "" {
		return model.PrechatSubmissionItem{}, newError(ErrorCodeValidation, "submission id is required", nil)
	}

	submission, err := s.repo.GetSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.PrechatSubmissionItem{}, newError(ErrorCodeNotFound, "submission not found", err)
		}
		return model.PrechatSubmissionItem{}, newError(ErrorCodeInternal, "failed to fetch submission", err)
	}
	return submission, nil
}

func (s *Service) UpdateStatus(ctx context.Context, submissionUUID, status string) (model.PrechatSubmissionItem, error) {
	next := model.SubmissionStatus(strings.TrimSpace(status))
	if !allowedStatuses[next] {
		return model.PrechatSubmissionItem{}, newError(ErrorCodeValidation, "invalid status, must be one of: submitted, contacted, resolved, archived", nil)
	}

	submission, err := s.GetSubmission(ctx, submissionUUID)
	if err != nil {
		return model.PrechatSubmissionItem{}, err
	}

	nowStr := s.now().UTC().Format(time.RFC3339)
	if err := s.repo.UpdateSubmissionStatus(ctx, submission.UUID, next, nowStr); err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.PrechatSubmissionItem{}, newError(ErrorCodeNotFound, "submission not found", err)
		}
		return model.PrechatSubmissionItem{}, newError(ErrorCodeInternal, "failed to update submission", err)
	}

	submission.Status = next
	submission.UpdatedAt = nowStr
	return submission, nil
}

func (s *Service) DeleteSubmission(ctx context.Context, submissionUUID string) error {
	submission, err := s.GetSubmission(ctx, submissionUUID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSubmission(ctx, submission.UUID); err != nil {
		return newError(ErrorCodeInternal, "failed to delete submission", err)
	}
	return nil
}

// Stats derives counters over the whole submission log. Day and week windows
// use UTC midnight boundaries, matching the dashboard's other counters.
func (s *Service) Stats(ctx context.Context) (StatsResult, error) {
	submissions, err := s.repo.ListAllSubmissions(ctx)
	if err != nil {
		return StatsResult{}, newError(ErrorCodeInternal, "failed to fetch statistics", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := today.AddDate(0, 0, -7)

	result := StatsResult{ByStatus: make(map[string]int)}
	for _, submission := range submissions {
		result.Total++
		result.ByStatus[string(submission.Status)]++

		created, err := time.Parse(time.RFC3339, submission.CreatedAt)
		if err != nil {
			continue
		}
		if !created.Before(today) {
			result.Today++
		}
		if !created.Before(weekAgo) {
			result.Week++
		}
	}
	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	local, domain := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	return true
}
