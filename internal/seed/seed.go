package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/zakiByline/remui-kids-sub019/internal/app/models"
	appRepos "github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

// starterRules are the site-wide rules every assistant starts with
var starterRules = []appModels.TrainingRule{
	{
		Category:      appModels.CategorySafety,
		TriggerPhrase: "share personal information",
		Response:      "Never share your **full name**, address, phone number or passwords in the chat. Ask your teacher if you are unsure.",
		Priority:      100,
	},
	{
		Category:      appModels.CategoryTone,
		TriggerPhrase: "how should you talk to students",
		Response:      "Use short sentences, friendly words and encouragement suited to primary school pupils.",
		Priority:      80,
	},
	{
		Category:      appModels.CategoryGeneral,
		TriggerPhrase: "who can help me",
		Response:      "Your class teacher is the first person to ask. You can also message the school office from your dashboard.",
		Priority:      50,
	},
}

// Seeder inserts default school data that is missing. Existing rows are never overwritten.
type Seeder struct {
	companies appRepos.ICompanyRepository
	settings  appRepos.ISchoolSettingRepository
	rules     appRepos.ITrainingRuleRepository
	db        appRepos.Querier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSeeder creates a Seeder writing through db
func NewSeeder(repos *appRepos.Repositories, db appRepos.Querier, lgr zerolog.Logger) *Seeder {
	return &Seeder{
		companies: repos.CompanyRepository,
		settings:  repos.SchoolSettingRepository,
		rules:     repos.TrainingRuleRepository,
		db:        db,
		logger:    lgr,
		now:       time.Now,
	}
}

// CreateDefaultData enables every dashboard audience for schools without a stored
// toggle and adds the starter site-wide training rules.
func (s *Seeder) CreateDefaultData(ctx context.Context) error {
	s.logger.Info().Msg("Checking/Creating default data (dashboard access, training rules)...")
	var finalErr error // collect errors without stopping the process

	if err := s.seedDashboardAccess(ctx); err != nil {
		finalErr = errors.Join(finalErr, err)
	}
	if err := s.seedTrainingRules(ctx); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr != nil {
		s.logger.Warn().Err(finalErr).Msg("Default data created with errors")
		return finalErr
	}
	s.logger.Info().Msg("Default data check complete")
	return nil
}

func (s *Seeder) seedDashboardAccess(ctx context.Context) error {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing schools: %w", err)
	}

	var finalErr error
	created := 0
	now := s.now().Unix()
	for _, company := range companies {
		for _, audience := range appModels.Audiences {
			existing, err := s.settings.Get(ctx, company.ID, audience.SettingName())
			if err != nil {
				finalErr = errors.Join(finalErr, err)
				continue
			}
			if existing != nil {
				continue
			}

			setting := &appModels.SchoolSetting{
				CompanyID:    company.ID,
				Name:         audience.SettingName(),
				Value:        "1",
				TimeModified: now,
			}
			if err := s.settings.Upsert(ctx, s.db, setting); err != nil {
				s.logger.Error().Err(err).Int64("companyID", company.ID).Str("audience", string(audience)).Msg("Error creating dashboard access setting")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			created++
		}
	}

	s.logger.Info().Int("schools", len(companies)).Int("created", created).Msg("Dashboard access defaults checked")
	return finalErr
}

func (s *Seeder) seedTrainingRules(ctx context.Context) error {
	var finalErr error
	now := s.now().Unix()
	for _, starter := range starterRules {
		exists, err := s.siteRuleExists(ctx, starter.TriggerPhrase)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		rule := starter
		rule.Enabled = true
		rule.TimeCreated = now
		rule.TimeModified = now
		if err := s.rules.Create(ctx, &rule); err != nil {
			s.logger.Error().Err(err).Str("trigger", rule.TriggerPhrase).Msg("Error creating starter training rule")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		s.logger.Info().Int64("ruleID", rule.ID).Str("trigger", rule.TriggerPhrase).Msg("Starter training rule created")
	}
	return finalErr
}

func (s *Seeder) siteRuleExists(ctx context.Context, trigger string) (bool, error) {
	rules, _, err := s.rules.List(ctx, appModels.TrainingRuleFilter{
		Search: trigger,
		Page:   helpers.NewPage(1, helpers.MaxPageSize),
	})
	if err != nil {
		return false, fmt.Errorf("error checking training rules: %w", err)
	}
	for _, r := range rules {
		if r.CompanyID == 0 && strings.EqualFold(r.TriggerPhrase, trigger) {
			return true, nil
		}
	}
	return false, nil
}
