package model

import "fmt"

const (
	EmbedChatsTable         = "EmbedChats"
	EmbedConfigsTable       = "EmbedConfigs"
	PrechatSubmissionsTable = "PrechatSubmissions"
	SettingsTable           = "Settings"
)

// Settings rows are keyed by label; exactly one row per label.
const OfficeHoursSettingLabel = "office_hours"

func ChatPK(sessionID, chatID string) string {
	return fmt.Sprintf("%s#%s", sessionID, chatID)
}

// EmbedChatItem is one stored prompt/response exchange from the embedded chat
// widget. This service only reads these rows; the chat runtime writes them.
// ConnectionInfo is a JSON-encoded string and may be empty or malformed.
type EmbedChatItem struct {
	PK             string `dynamodbav:"pk"`
	ChatID         string `dynamodbav:"chatId"`
	SessionID      string `dynamodbav:"sessionId"`
	EmbedID        string `dynamodbav:"embedId,omitempty"`
	Prompt         string `dynamodbav:"prompt"`
	Response       string `dynamodbav:"response,omitempty"`
	ConnectionInfo string `dynamodbav:"connection_information,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt"`
}

type EmbedConfigItem struct {
	EmbedID       string `dynamodbav:"embedId"`
	WorkspaceName string `dynamodbav:"workspaceName,omitempty"`
	Enabled       bool   `dynamodbav:"enabled"`
	CreatedAt     string `dynamodbav:"createdAt"`
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusContacted SubmissionStatus = "contacted"
	SubmissionStatusResolved  SubmissionStatus = "resolved"
	SubmissionStatusArchived  SubmissionStatus = "archived"
)

type PrechatSubmissionItem struct {
	UUID        string           `dynamodbav:"uuid"`
	Name        string           `dynamodbav:"name"`
	Email       string           `dynamodbav:"email"`
	Mobile      string           `dynamodbav:"mobile"`
	CountryCode string           `dynamodbav:"countryCode,omitempty"`
	Region      string           `dynamodbav:"region"`
	Message     string           `dynamodbav:"message,omitempty"`
	WorkspaceID string           `dynamodbav:"workspaceId,omitempty"`
	SessionID   string           `dynamodbav:"sessionId,omitempty"`
	IPAddress   string           `dynamodbav:"ipAddress,omitempty"`
	UserAgent   string           `dynamodbav:"userAgent,omitempty"`
	Status      SubmissionStatus `dynamodbav:"status"`
	CreatedAt   string           `dynamodbav:"createdAt"`
	UpdatedAt   string           `dynamodbav:"updatedAt"`
}

type SettingItem struct {
	Label     string `dynamodbav:"label"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}
