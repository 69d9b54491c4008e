package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// TrainingRuleRequest creates or replaces a training rule
type TrainingRuleRequest struct {
	Category      string `json:"category" binding:"required,oneof=general curriculum safety tone faq" example:"faq"`
	TriggerPhrase string `json:"triggerPhrase" binding:"required,min=3,max=255" example:"when is homework due"`
	Response      string `json:"response" binding:"required,min=1,max=10000" example:"Homework is due every **Friday**."`
	Priority      *int   `json:"priority" binding:"omitempty,gte=0,lte=100" example:"50"`
	Enabled       *bool  `json:"enabled" example:"true"`
}

// ToggleTrainingRuleRequest switches a rule on or off
type ToggleTrainingRuleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PreviewRequest renders a response without saving it
type PreviewRequest struct {
	Response string `json:"response" binding:"required,max=10000"`
}

// PreviewResponse is a rendered training response
type PreviewResponse struct {
	HTML      string `json:"html"`
	PlainText string `json:"plainText"`
}

// TrainingRuleListResponse represents a page of rules
type TrainingRuleListResponse struct {
	Rules      []models.TrainingRule `json:"rules"`
	Pagination PaginationInfo        `json:"pagination"`
}

// ExportedRule is one rule of the assistant prompt bundle
type ExportedRule struct {
	ID            int64                   `json:"id"`
	Category      models.TrainingCategory `json:"category"`
	TriggerPhrase string                  `json:"triggerPhrase"`
	Response      string                  `json:"response"`
	PlainText     string                  `json:"plainText"`
	Priority      int                     `json:"priority"`
}

// TrainingExport is the bundle of enabled rules handed to the assistant
type TrainingExport struct {
	CompanyID   int64          `json:"companyId"`
	GeneratedAt int64          `json:"generatedAt"`
	Count       int            `json:"count"`
	Rules       []ExportedRule `json:"rules"`
}
