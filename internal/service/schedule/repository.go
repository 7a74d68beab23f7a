package schedule

import (
	"context"
	"errors"
	"strings"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrNotFound = errors.New("schedule repository: not found")

type Repository interface {
	GetOfficeHours(ctx context.Context) (string, error)
	PutOfficeHours(ctx context.Context, value, updatedAt string) error
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) GetOfficeHours(ctx context.Context) (string, error) {
	var setting model.SettingItem
	err := r.db.Client.GetItem(
		ctx,
		model.SettingsTable,
		map[string]types.AttributeValue{
			"label": &types.AttributeValueMemberS{Value: model.OfficeHoursSettingLabel},
		},
		&setting,
	)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return setting.Value, nil
}

func (r *DynamoRepository) PutOfficeHours(ctx context.Context, value, updatedAt string) error {
	return r.db.Client.PutItem(ctx, model.SettingsTable, model.SettingItem{
		Label:     model.OfficeHoursSettingLabel,
		Value:     value,
		UpdatedAt: updatedAt,
	})
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}
