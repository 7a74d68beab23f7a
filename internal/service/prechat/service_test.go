package prechat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"chat-dashboard-backend/internal/model"
)

type memoryRepository struct {
	mu          sync.Mutex
	submissions map[string]model.PrechatSubmissionItem
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		submissions: make(map[string]model.PrechatSubmissionItem),
	}
}

func (m *memoryRepository) CreateSubmission(ctx context.Context, submission model.PrechatSubmissionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[submission.UUID] = submission
	return nil
}

func (m *memoryRepository) GetSubmission(ctx context.Context, submissionUUID string) (model.PrechatSubmissionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[submissionUUID]
	if !ok {
		return model.PrechatSubmissionItem{}, ErrNotFound
	}
	return submission, nil
}

func (m *memoryRepository) all() []model.PrechatSubmissionItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	submissions := make([]model.PrechatSubmissionItem, 0, len(m.submissions))
	for _, submission := range m.submissions {
		submissions = append(submissions, submission)
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].CreatedAt > submissions[j].CreatedAt
	})
	return submissions
}

func (m *memoryRepository) ListRecentSubmissions(ctx context.Context, limit int) ([]model.PrechatSubmissionItem, error) {
	submissions := m.all()
	if limit > 0 && len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions, nil
}

func (m *memoryRepository) ListSubmissionsByStatus(ctx context.Context, status model.SubmissionStatus, limit int) ([]model.PrechatSubmissionItem, error) {
	filtered := make([]model.PrechatSubmissionItem, 0)
	for _, submission := range m.all() {
		if submission.Status == status {
			filtered = append(filtered, submission)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (m *memoryRepository) ListSubmissionsByWorkspace(ctx context.Context, workspaceID string, limit int) ([]model.PrechatSubmissionItem, error) {
	filtered := make([]model.PrechatSubmissionItem, 0)
	for _, submission := range m.all() {
		if submission.WorkspaceID == workspaceID {
			filtered = append(filtered, submission)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (m *memoryRepository) ListSubmissionsBetween(ctx context.Context, start, end time.Time) ([]model.PrechatSubmissionItem, error) {
	filtered := make([]model.PrechatSubmissionItem, 0)
	for _, submission := range m.all() {
		created, err := time.Parse(time.RFC3339, submission.CreatedAt)
		if err != nil {
			continue
		}
		if !created.Before(start) && created.Before(end) {
			filtered = append(filtered, submission)
		}
	}
	return filtered, nil
}

func (m *memoryRepository) ListAllSubmissions(ctx context.Context) ([]model.PrechatSubmissionItem, error) {
	return m.all(), nil
}

func (m *memoryRepository) UpdateSubmissionStatus(ctx context.Context, submissionUUID string, status model.SubmissionStatus, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission, ok := m.submissions[submissionUUID]
	if !ok {
		return ErrNotFound
	}
	submission.Status = status
	submission.UpdatedAt = updatedAt
	m.submissions[submissionUUID] = submission
	return nil
}

func (m *memoryRepository) DeleteSubmission(ctx context.Context, submissionUUID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.submissions, submissionUUID)
	return nil
}

func (m *memoryRepository) CountSubmissions(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submissions), nil
}

func fixedTime() time.Time {
	return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
}

func TestCreateSubmission(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)

	submission, err := service.CreateSubmission(context.Background(), CreateSubmissionParams{
		Name:      "  Mickey  ",
		Email:     "Mickey@Example.COM",
		Mobile:    "9999999999",
		Region:    "Pune",
		Message:   "hi",
		SessionID: "sess-1",
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if submission.UUID == "" {
		t.Fatalf("uuid not assigned")
	}
	if submission.Name != "Mickey" {
		t.Fatalf("name not trimmed: %q", submission.Name)
	}
	if submission.Email != "mickey@example.com" {
		t.Fatalf("email not normalized: %q", submission.Email)
	}
	if submission.Status != model.SubmissionStatusSubmitted {
		t.Fatalf("status: %s", submission.Status)
	}

	stored, err := repo.GetSubmission(context.Background(), submission.UUID)
	if err != nil {
		t.Fatalf("stored submission missing: %v", err)
	}
	if stored.SessionID != "sess-1" || stored.IPAddress != "10.0.0.1" {
		t.Fatalf("client info not persisted: %+v", stored)
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	service := NewWithRepository(newMemoryRepository(), fixedTime)

	cases := []CreateSubmissionParams{
		{Email: "a@b.com", Mobile: "1", Region: "x"},                     // missing name
		{Name: "a", Mobile: "1", Region: "x"},                           // missing email
		{Name: "a", Email: "a@b.com", Region: "x"},                      // missing mobile
		{Name: "a", Email: "a@b.com", Mobile: "1"},                      // missing region
		{Name: "a", Email: "not-an-email", Mobile: "1", Region: "x"},    // bad email
		{Name: "a", Email: "a@nodomain", Mobile: "1", Region: "x"},      // bad email domain
	}
	for i, params := range cases {
		_, err := service.CreateSubmission(context.Background(), params)
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func seedSubmission(t *testing.T, repo *memoryRepository, uuid, status, createdAt string) {
	t.Helper()
	repo.submissions[uuid] = model.PrechatSubmissionItem{
		UUID:      uuid,
		Name:      "n",
		Email:     "n@example.com",
		Mobile:    "1",
		Region:    "r",
		Status:    model.SubmissionStatus(status),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestListSubmissionsByStatus(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)

	seedSubmission(t, repo, "u1", "submitted", "2024-03-01T10:00:00Z")
	seedSubmission(t, repo, "u2", "contacted", "2024-03-02T10:00:00Z")
	seedSubmission(t, repo, "u3", "submitted", "2024-03-03T10:00:00Z")

	result, err := service.ListSubmissions(context.Background(), ListParams{Status: "submitted"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Submissions) != 2 {
		t.Fatalf("expected 2 submitted, got %d", len(result.Submissions))
	}
	if result.Total != 3 || result.TotalPages != 1 {
		t.Fatalf("pagination: %+v", result)
	}

	if _, err := service.ListSubmissions(context.Background(), ListParams{Status: "bogus"}); err == nil {
		t.Fatalf("expected invalid status filter error")
	}
}

func TestListSubmissionsByDateRange(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)

	seedSubmission(t, repo, "u1", "submitted", "2024-03-01T10:00:00Z")
	seedSubmission(t, repo, "u2", "submitted", "2024-03-02T10:00:00Z")
	seedSubmission(t, repo, "u3", "submitted", "2024-03-05T10:00:00Z")

	result, err := service.ListSubmissions(context.Background(), ListParams{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-02",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// End date is inclusive: the whole end day is in range.
	if len(result.Submissions) != 2 {
		t.Fatalf("expected 2 in range, got %d", len(result.Submissions))
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)
	seedSubmission(t, repo, "u1", "submitted", "2024-03-01T10:00:00Z")

	updated, err := service.UpdateStatus(context.Background(), "u1", "contacted")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.SubmissionStatusContacted {
		t.Fatalf("status: %s", updated.Status)
	}

	if _, err := service.UpdateStatus(context.Background(), "u1", "nonsense"); err == nil {
		t.Fatalf("expected invalid status error")
	}

	_, err = service.UpdateStatus(context.Background(), "missing", "resolved")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSubmission(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)
	seedSubmission(t, repo, "u1", "submitted", "2024-03-01T10:00:00Z")

	if err := service.DeleteSubmission(context.Background(), "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetSubmission(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("submission still present")
	}

	err := service.DeleteSubmission(context.Background(), "u1")
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)

	seedSubmission(t, repo, "u1", "submitted", "2024-03-04T09:00:00Z") // today
	seedSubmission(t, repo, "u2", "contacted", "2024-03-01T10:00:00Z") // this week
	seedSubmission(t, repo, "u3", "resolved", "2024-01-01T10:00:00Z")  // old

	stats, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Today != 1 || stats.Week != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByStatus["submitted"] != 1 || stats.ByStatus["contacted"] != 1 || stats.ByStatus["resolved"] != 1 {
		t.Fatalf("by-status: %+v", stats.ByStatus)
	}
}

func TestExportSubmissions(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, fixedTime)

	seedSubmission(t, repo, "u1", "submitted", "2024-03-01T10:00:00Z")
	seedSubmission(t, repo, "u2", "contacted", "2024-03-02T10:00:00Z")
	seedSubmission(t, repo, "u3", "contacted", "2024-03-04T10:00:00Z")

	// No filters: everything, newest first.
	submissions, err := service.ExportSubmissions(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(submissions) != 3 || submissions[0].UUID != "u3" {
		t.Fatalf("unexpected export: %+v", submissions)
	}

	// A date range wins over a status filter.
	submissions, err = service.ExportSubmissions(context.Background(), ListParams{
		Status:    "submitted",
		StartDate: "2024-03-02",
		EndDate:   "2024-03-02",
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(submissions) != 1 || submissions[0].UUID != "u2" {
		t.Fatalf("expected only u2, got %+v", submissions)
	}

	submissions, err = service.ExportSubmissions(context.Background(), ListParams{Status: "contacted"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(submissions) != 2 {
		t.Fatalf("expected two contacted rows, got %+v", submissions)
	}

	if _, err := service.ExportSubmissions(context.Background(), ListParams{Status: "nonsense"}); err == nil {
		t.Fatalf("expected invalid status error")
	}
	if _, err := service.ExportSubmissions(context.Background(), ListParams{
		StartDate: "bad",
		EndDate:   "2024-03-02",
	}); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
