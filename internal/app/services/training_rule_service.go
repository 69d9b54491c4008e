package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/markdown"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

const (
	DefaultRulePriority = 50
	MinTriggerLength    = 3
	MaxTriggerLength    = 255
	MaxResponseLength   = 10000
)

// TrainingRuleService defines the AI assistant rule editor
type TrainingRuleService interface {
	List(ctx context.Context, scope int64, filter models.TrainingRuleFilter) (*dto.TrainingRuleListResponse, error)
	Get(ctx context.Context, scope, id int64) (*models.TrainingRule, error)
	Create(ctx context.Context, caller *models.SessionUser, scope int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error)
	Update(ctx context.Context, caller *models.SessionUser, scope, id int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error)
	Toggle(ctx context.Context, caller *models.SessionUser, scope, id int64, enabled bool) (*models.TrainingRule, error)
	Delete(ctx context.Context, caller *models.SessionUser, scope, id int64) error
	Preview(ctx context.Context, response string) (*dto.PreviewResponse, error)
	Export(ctx context.Context, scope int64) (*dto.TrainingExport, error)
}

type trainingRuleServiceImpl struct {
	ruleRepo repositories.ITrainingRuleRepository
	events   EventPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTrainingRuleService creates a new TrainingRuleService
func NewTrainingRuleService(ruleRepo repositories.ITrainingRuleRepository, events EventPublisher, logger zerolog.Logger) TrainingRuleService {
	return &trainingRuleServiceImpl{
		ruleRepo: ruleRepo,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// applyRuleRequest validates req and copies it onto rule
func applyRuleRequest(rule *models.TrainingRule, req *dto.TrainingRuleRequest) error {
	category := models.TrainingCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.IsValid() {
		return apperrors.NewValidationError("category must be one of general, curriculum, safety, tone, faq")
	}

	trigger := strings.TrimSpace(req.TriggerPhrase)
	if n := utf8.RuneCountInString(trigger); n < MinTriggerLength || n > MaxTriggerLength {
		return apperrors.NewValidationError(fmt.Sprintf("triggerPhrase must be %d to %d characters", MinTriggerLength, MaxTriggerLength))
	}

	response := strings.TrimSpace(req.Response)
	if n := utf8.RuneCountInString(response); n < 1 || n > MaxResponseLength {
		return apperrors.NewValidationError(fmt.Sprintf("response must be 1 to %d characters", MaxResponseLength))
	}

	priority := DefaultRulePriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	if priority < 0 || priority > 100 {
		return apperrors.NewValidationError("priority must be between 0 and 100")
	}

	rule.Category = category
	rule.TriggerPhrase = trigger
	rule.Response = response
	rule.Priority = priority
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	return nil
}

// visible reports whether a rule shows up for the scope; site-wide rules show everywhere
func visible(scope int64, rule *models.TrainingRule) bool {
	return rule.CompanyID == 0 || appauth.CanAccessCompanyResource(scope, rule.CompanyID)
}

// List returns a page of rules ordered by priority
func (s *trainingRuleServiceImpl) List(ctx context.Context, scope int64, filter models.TrainingRuleFilter) (*dto.TrainingRuleListResponse, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category")
	}
	filter.CompanyID = scope

	rules, total, err := s.ruleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing training rules: %w", err)
	}
	return &dto.TrainingRuleListResponse{
		Rules:      rules,
		Pagination: dto.NewPaginationInfo(filter.Page, total),
	}, nil
}

// Get returns one rule
func (s *trainingRuleServiceImpl) Get(ctx context.Context, scope, id int64) (*models.TrainingRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(scope, rule) {
		return nil, apperrors.ErrTrainingRuleNotFound
	}
	return rule, nil
}

func (s *trainingRuleServiceImpl) loadModifiable(ctx context.Context, caller *models.SessionUser, scope, id int64) (*models.TrainingRule, error) {
	rule, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !appauth.CanModifyTrainingRule(caller, rule) {
		return nil, apperrors.NewForbiddenError("site-wide training rules can only be changed by administrators")
	}
	return rule, nil
}

// Create adds a rule to the scope; an admin without a selected school creates a site-wide rule
func (s *trainingRuleServiceImpl) Create(ctx context.Context, caller *models.SessionUser, scope int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error) {
	now := s.now().Unix()
	rule := &models.TrainingRule{
		CompanyID:    scope,
		Enabled:      true,
		CreatedBy:    caller.ID,
		TimeCreated:  now,
		TimeModified: now,
	}
	if err := applyRuleRequest(rule, req); err != nil {
		return nil, err
	}
	if !appauth.CanModifyTrainingRule(caller, rule) {
		return nil, apperrors.NewForbiddenError("site-wide training rules can only be created by administrators")
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("ruleID", rule.ID).Int64("companyID", rule.CompanyID).Int64("actorID", caller.ID).Msg("Training rule created")
	publish(s.events, websocket.EventTrainingRuleChanged, rule.CompanyID, caller.ID, map[string]interface{}{"action": "created", "rule": rule})
	return rule, nil
}

// Update replaces the editable fields of a rule
func (s *trainingRuleServiceImpl) Update(ctx context.Context, caller *models.SessionUser, scope, id int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error) {
	rule, err := s.loadModifiable(ctx, caller, scope, id)
	if err != nil {
		return nil, err
	}
	if err := applyRuleRequest(rule, req); err != nil {
		return nil, err
	}
	rule.TimeModified = s.now().Unix()

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("ruleID", id).Int64("actorID", caller.ID).Msg("Training rule updated")
	publish(s.events, websocket.EventTrainingRuleChanged, rule.CompanyID, caller.ID, map[string]interface{}{"action": "updated", "rule": rule})
	return rule, nil
}

// Toggle switches a rule on or off
func (s *trainingRuleServiceImpl) Toggle(ctx context.Context, caller *models.SessionUser, scope, id int64, enabled bool) (*models.TrainingRule, error) {
	rule, err := s.loadModifiable(ctx, caller, scope, id)
	if err != nil {
		return nil, err
	}
	now := s.now().Unix()
	if err := s.ruleRepo.SetEnabled(ctx, id, enabled, now); err != nil {
		return nil, err
	}
	rule.Enabled = enabled
	rule.TimeModified = now

	publish(s.events, websocket.EventTrainingRuleChanged, rule.CompanyID, caller.ID, map[string]interface{}{"action": "toggled", "rule": rule})
	return rule, nil
}

// Delete removes a rule
func (s *trainingRuleServiceImpl) Delete(ctx context.Context, caller *models.SessionUser, scope, id int64) error {
	rule, err := s.loadModifiable(ctx, caller, scope, id)
	if err != nil {
		return err
	}
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("ruleID", id).Int64("actorID", caller.ID).Msg("Training rule deleted")
	publish(s.events, websocket.EventTrainingRuleChanged, rule.CompanyID, caller.ID, map[string]interface{}{"action": "deleted", "id": id})
	return nil
}

// Preview renders a response the way the assistant will show it
func (s *trainingRuleServiceImpl) Preview(ctx context.Context, response string) (*dto.PreviewResponse, error) {
	if utf8.RuneCountInString(response) > MaxResponseLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("response must be at most %d characters", MaxResponseLength))
	}
	html, err := markdown.Render(response)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return &dto.PreviewResponse{HTML: html, PlainText: markdown.PlainText(response)}, nil
}

// Export bundles every enabled rule the school's assistant loads, highest priority first
func (s *trainingRuleServiceImpl) Export(ctx context.Context, scope int64) (*dto.TrainingExport, error) {
	rules, err := s.ruleRepo.ListEnabled(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("error exporting training rules: %w", err)
	}

	out := make([]dto.ExportedRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.ExportedRule{
			ID:            r.ID,
			Category:      r.Category,
			TriggerPhrase: r.TriggerPhrase,
			Response:      r.Response,
			PlainText:     markdown.PlainText(r.Response),
			Priority:      r.Priority,
		})
	}
	return &dto.TrainingExport{
		CompanyID:   scope,
		GeneratedAt: s.now().Unix(),
		Count:       len(out),
		Rules:       out,
	}, nil
}
