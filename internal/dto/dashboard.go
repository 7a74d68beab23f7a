package dto

type ChatSessionSummary struct {
	SessionID    string `json:"sessionId"`
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail,omitempty"`
	UserMobile   string `json:"userMobile,omitempty"`
	UserRegion   string `json:"userRegion,omitempty"`
	FirstSeen    string `json:"firstSeen"`
	LastActivity string `json:"lastActivity"`
	MessageCount int    `json:"messageCount"`
	LastMessage  string `json:"lastMessage,omitempty"`
	HasIdentity  bool   `json:"hasIdentity"`
	Status       string `json:"status"`
}

type ChatSessionListResponse struct {
	Sessions []ChatSessionSummary `json:"sessions"`
	Total    int                  `json:"total"`
}

type TranscriptTurn struct {
	ID               string `json:"id"`
	UserMessage      string `json:"userMessage"`
	AssistantMessage string `json:"assistantMessage"`
	Timestamp        string `json:"timestamp"`
}

type ChatSessionDetailResponse struct {
	Session    ChatSessionSummary `json:"session"`
	Transcript []TranscriptTurn   `json:"transcript"`
}

type UsageStatsResponse struct {
	TotalMessages     int     `json:"totalMessages"`
	TodayMessages     int     `json:"todayMessages"`
	YesterdayMessages int     `json:"yesterdayMessages"`
	WeekMessages      int     `json:"weekMessages"`
	UniqueSessions    int     `json:"uniqueSessions"`
	GrowthRatePercent float64 `json:"growthRatePercent"`
}

type EmbedResponse struct {
	EmbedID       string `json:"embedId"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	Enabled       bool   `json:"enabled"`
	CreatedAt     string `json:"createdAt"`
}
