package api

import "github.com/chatlet/chatlet/internal/domain/commonModels"

type IngestResponse struct {
	Success       bool   `json:"success"`
	DocumentId    int64  `json:"documentId" example:"42"`
	SectionsCount int    `json:"sectionsCount" example:"7"`
	FileName      string `json:"fileName,omitempty"`
	FileSize      int64  `json:"fileSize,omitempty"`
	Message       string `json:"message"`
}

type WidgetConfigResponse struct {
	TenantId string                      `json:"tenantId"`
	Name     string                      `json:"name"`
	Settings commonModels.WidgetSettings `json:"settings"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid file type. Only PDF and TXT files are allowed"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// requests---------------------

type ChatRequest struct {
	Id       string                 `json:"id,omitempty"`
	Messages []commonModels.Message `json:"messages" validate:"required"`
}

type IngestURLRequest struct {
	URL string `json:"url" validate:"required"`
}
