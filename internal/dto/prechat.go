package dto

type CreatePrechatSubmissionRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region"`
	Message     string `json:"message,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
}

type PrechatSubmissionResponse struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region"`
	Message     string `json:"message,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type PrechatSubmissionListResponse struct {
	Submissions []PrechatSubmissionResponse `json:"submissions"`
	Page        int                         `json:"page"`
	Limit       int                         `json:"limit"`
	Total       int                         `json:"total"`
	TotalPages  int                         `json:"totalPages"`
}

type UpdateSubmissionStatusRequest struct {
	Status string `json:"status"`
}

type PrechatStatsResponse struct {
	Total    int            `json:"total"`
	Today    int            `json:"today"`
	Week     int            `json:"week"`
	ByStatus map[string]int `json:"byStatus"`
}
