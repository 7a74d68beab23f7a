package prechat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrNotFound = errors.New("prechat repository: not found")

type Repository interface {
	CreateSubmission(ctx context.Context, submission model.PrechatSubmissionItem) error
	GetSubmission(ctx context.Context, submissionUUID string) (model.PrechatSubmissionItem, error)
	ListRecentSubmissions(ctx context.Context, limit int) ([]model.PrechatSubmissionItem, error)
	ListSubmissionsByStatus(ctx context.Context, status model.SubmissionStatus, limit int) ([]model.PrechatSubmissionItem, error)
	ListSubmissionsByWorkspace(ctx context.Context, workspaceID string, limit int) ([]model.PrechatSubmissionItem, error)
	ListSubmissionsBetween(ctx context.Context, start, end time.Time) ([]model.PrechatSubmissionItem, error)
	ListAllSubmissions(ctx context.Context) ([]model.PrechatSubmissionItem, error)
	UpdateSubmissionStatus(ctx context.Context, submissionUUID string, status model.SubmissionStatus, updatedAt string) error
	DeleteSubmission(ctx context.Context, submissionUUID string) error
	CountSubmissions(ctx context.Context) (int, error)
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) CreateSubmission(ctx context.Context, submission model.PrechatSubmissionItem) error {
	return r.db.Client.PutItem(ctx, model.PrechatSubmissionsTable, submission)
}

func (r *DynamoRepository) GetSubmission(ctx context.Context, submissionUUID string) (model.PrechatSubmissionItem, error) {
	var submission model.PrechatSubmissionItem
	err := r.db.Client.GetItem(
		ctx,
		model.PrechatSubmissionsTable,
		map[string]types.AttributeValue{
			"uuid": &types.AttributeValueMemberS{Value: submissionUUID},
		},
		&submission,
	)
	if err != nil {
		if isNotFound(err) {
			return model.PrechatSubmissionItem{}, ErrNotFound
		}
		return model.PrechatSubmissionItem{}, err
	}
	return submission, nil
}

func (r *DynamoRepository) ListRecentSubmissions(ctx context.Context, limit int) ([]model.PrechatSubmissionItem, error) {
	submissions, err := r.ListAllSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions, nil
}

func (r *DynamoRepository) ListSubmissionsByStatus(ctx context.Context, status model.SubmissionStatus, limit int) ([]model.PrechatSubmissionItem, error) {
	items, err := r.db.Client.ScanItems(
		ctx,
		model.PrechatSubmissionsTable,
		"#status = :status",
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		map[string]string{
			"#status": "status",
		},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalSorted(items, limit)
}

func (r *DynamoRepository) ListSubmissionsByWorkspace(ctx context.Context, workspaceID string, limit int) ([]model.PrechatSubmissionItem, error) {
	items, err := r.db.Client.ScanItems(
		ctx,
		model.PrechatSubmissionsTable,
		"workspaceId = :workspaceId",
		map[string]types.AttributeValue{
			":workspaceId": &types.AttributeValueMemberS{Value: workspaceID},
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalSorted(items, limit)
}

func (r *DynamoRepository) ListSubmissionsBetween(ctx context.Context, start, end time.Time) ([]model.PrechatSubmissionItem, error) {
	submissions, err := r.ListAllSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.PrechatSubmissionItem, 0, len(submissions))
	for _, submission := range submissions {
		created := parseTime(submission.CreatedAt)
		if created.IsZero() {
			continue
		}
		if !created.Before(start) && created.Before(end) {
			filtered = append(filtered, submission)
		}
	}
	return filtered, nil
}

func (r *DynamoRepository) ListAllSubmissions(ctx context.Context) ([]model.PrechatSubmissionItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.PrechatSubmissionsTable)
	if err != nil {
		return nil, err
	}
	return unmarshalSorted(items, 0)
}

func (r *DynamoRepository) UpdateSubmissionStatus(ctx context.Context, submissionUUID string, status model.SubmissionStatus, updatedAt string) error {
	return r.db.Client.UpdateItem(
		ctx,
		model.PrechatSubmissionsTable,
		map[string]types.AttributeValue{
			"uuid": &types.AttributeValueMemberS{Value: submissionUUID},
		},
		"SET #status = :status, #updatedAt = :updatedAt",
		map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(status)},
			":updatedAt": &types.AttributeValueMemberS{Value: updatedAt},
		},
		map[string]string{
			"#status":    "status",
			"#updatedAt": "updatedAt",
		},
		nil,
	)
}

func (r *DynamoRepository) DeleteSubmission(ctx context.Context, submissionUUID string) error {
	return r.db.Client.DeleteItem(
		ctx,
		model.PrechatSubmissionsTable,
		map[string]types.AttributeValue{
			"uuid": &types.AttributeValueMemberS{Value: submissionUUID},
		},
	)
}

func (r *DynamoRepository) CountSubmissions(ctx context.Context) (int, error) {
	items, err := r.db.Client.ScanAll(ctx, model.PrechatSubmissionsTable)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// unmarshalSorted decodes submissions newest-first and applies limit.
func unmarshalSorted(items []map[string]types.AttributeValue, limit int) ([]model.PrechatSubmissionItem, error) {
	submissions := make([]model.PrechatSubmissionItem, 0, len(items))
	for _, item := range items {
		var submission model.PrechatSubmissionItem
		if err := attributevalue.UnmarshalMap(item, &submission); err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].CreatedAt > submissions[j].CreatedAt
	})

	if limit > 0 && len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions, nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}

func parseTime(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
