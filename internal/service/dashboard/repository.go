package dashboard

import (
	"context"

	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Repository reads the chat log and its related tables. The chat runtime
// owns the writes; the dashboard only ever reads.
type Repository interface {
	ListTurns(ctx context.Context) ([]model.EmbedChatItem, error)
	ListTurnsByEmbed(ctx context.Context, embedID string) ([]model.EmbedChatItem, error)
	ListTurnsBySession(ctx context.Context, sessionID string) ([]model.EmbedChatItem, error)
	ListIdentities(ctx context.Context) ([]model.PrechatSubmissionItem, error)
	ListEmbeds(ctx context.Context) ([]model.EmbedConfigItem, error)
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) ListTurns(ctx context.Context) ([]model.EmbedChatItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.EmbedChatsTable)
	if err != nil {
		return nil, err
	}
	return unmarshalChats(items)
}

func (r *DynamoRepository) ListTurnsByEmbed(ctx context.Context, embedID string) ([]model.EmbedChatItem, error) {
	items, err := r.db.Client.ScanAllWithFilter(
		ctx,
		model.EmbedChatsTable,
		"embedId = :embedId",
		map[string]types.AttributeValue{
			":embedId": &types.AttributeValueMemberS{Value: embedID},
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalChats(items)
}

func (r *DynamoRepository) ListTurnsBySession(ctx context.Context, sessionID string) ([]model.EmbedChatItem, error) {
	items, err := r.db.Client.ScanAllWithFilter(
		ctx,
		model.EmbedChatsTable,
		"sessionId = :sessionId",
		map[string]types.AttributeValue{
			":sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalChats(items)
}

func (r *DynamoRepository) ListIdentities(ctx context.Context) ([]model.PrechatSubmissionItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.PrechatSubmissionsTable)
	if err != nil {
		return nil, err
	}
	submissions := make([]model.PrechatSubmissionItem, 0, len(items))
	for _, item := range items {
		var submission model.PrechatSubmissionItem
		if err := attributevalue.UnmarshalMap(item, &submission); err != nil {
			continue
		}
		submissions = append(submissions, submission)
	}
	return submissions, nil
}

func (r *DynamoRepository) ListEmbeds(ctx context.Context) ([]model.EmbedConfigItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.EmbedConfigsTable)
	if err != nil {
		return nil, err
	}
	embeds := make([]model.EmbedConfigItem, 0, len(items))
	for _, item := range items {
		var embed model.EmbedConfigItem
		if err := attributevalue.UnmarshalMap(item, &embed); err != nil {
			continue
		}
		embeds = append(embeds, embed)
	}
	return embeds, nil
}

func unmarshalChats(items []map[string]types.AttributeValue) ([]model.EmbedChatItem, error) {
	chats := make([]model.EmbedChatItem, 0, len(items))
	for _, item := range items {
		var chat model.EmbedChatItem
		if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}
