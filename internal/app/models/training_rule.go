package models

import "github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"

// TrainingCategory groups AI assistant training rules
type TrainingCategory string

const (
	CategoryGeneral    TrainingCategory = "general"
	CategoryCurriculum TrainingCategory = "curriculum"
	CategorySafety     TrainingCategory = "safety"
	CategoryTone       TrainingCategory = "tone"
	CategoryFAQ        TrainingCategory = "faq"
)

// TrainingCategories lists the accepted categories
var TrainingCategories = []TrainingCategory{CategoryGeneral, CategoryCurriculum, CategorySafety, CategoryTone, CategoryFAQ}

// IsValid reports whether c is an accepted category
func (c TrainingCategory) IsValid() bool {
	for _, known := range TrainingCategories {
		if c == known {
			return true
		}
	}
	return false
}

// TrainingRule is a row of local_aiassistant_training
type TrainingRule struct {
	ID            int64            `json:"id"`
	CompanyID     int64            `json:"companyId"`
	Category      TrainingCategory `json:"category"`
	TriggerPhrase string           `json:"triggerPhrase"`
	Response      string           `json:"response"`
	Priority      int              `json:"priority"`
	Enabled       bool             `json:"enabled"`
	CreatedBy     int64            `json:"createdBy"`
	TimeCreated   int64            `json:"timeCreated"`
	TimeModified  int64            `json:"timeModified"`
}

// TrainingRuleFilter narrows a rule listing
type TrainingRuleFilter struct {
	CompanyID int64
	Category  TrainingCategory
	Enabled   *bool
	Search    string
	Page      helpers.Page
}
