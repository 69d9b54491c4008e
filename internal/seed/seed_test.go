package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/zakiByline/remui-kids-sub019/internal/app/models"
	appRepos "github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
)

type fakeCompanies struct {
	appRepos.ICompanyRepository
	companies []appModels.Company
	err       error
}

func (f *fakeCompanies) List(ctx context.Context) ([]appModels.Company, error) {
	return f.companies, f.err
}

type fakeSettings struct {
	appRepos.ISchoolSettingRepository
	stored map[string]*appModels.SchoolSetting
}

func settingKey(companyID int64, name string) string {
	return fmt.Sprintf("%d/%s", companyID, name)
}

func (f *fakeSettings) Get(ctx context.Context, companyID int64, name string) (*appModels.SchoolSetting, error) {
	return f.stored[settingKey(companyID, name)], nil
}

func (f *fakeSettings) Upsert(ctx context.Context, q appRepos.Querier, s *appModels.SchoolSetting) error {
	f.stored[settingKey(s.CompanyID, s.Name)] = s
	return nil
}

type fakeRules struct {
	appRepos.ITrainingRuleRepository
	rules []appModels.TrainingRule
}

func (f *fakeRules) List(ctx context.Context, filter appModels.TrainingRuleFilter) ([]appModels.TrainingRule, int64, error) {
	return f.rules, int64(len(f.rules)), nil
}

func (f *fakeRules) Create(ctx context.Context, rule *appModels.TrainingRule) error {
	rule.ID = int64(len(f.rules) + 1)
	f.rules = append(f.rules, *rule)
	return nil
}

func newTestSeeder(companies *fakeCompanies, settings *fakeSettings, rules *fakeRules) *Seeder {
	return &Seeder{
		companies: companies,
		settings:  settings,
		rules:     rules,
		logger:    zerolog.Nop(),
		now:       func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestCreateDefaultData(t *testing.T) {
	settings := &fakeSettings{stored: map[string]*appModels.SchoolSetting{}}
	// school 3 already switched parents off
	settings.stored[settingKey(3, appModels.AudienceParent.SettingName())] = &appModels.SchoolSetting{CompanyID: 3, Name: appModels.AudienceParent.SettingName(), Value: "0"}
	rules := &fakeRules{rules: []appModels.TrainingRule{{ID: 9, CompanyID: 0, TriggerPhrase: "Who can help me"}}}

	s := newTestSeeder(&fakeCompanies{companies: []appModels.Company{{ID: 3}, {ID: 4}}}, settings, rules)
	require.NoError(t, s.CreateDefaultData(context.Background()))

	assert.Len(t, settings.stored, 8)
	assert.Equal(t, "0", settings.stored[settingKey(3, appModels.AudienceParent.SettingName())].Value)
	assert.Equal(t, "1", settings.stored[settingKey(4, appModels.AudienceParent.SettingName())].Value)
	assert.Equal(t, int64(1700000000), settings.stored[settingKey(4, appModels.AudienceStudent.SettingName())].TimeModified)

	// the existing rule is matched case-insensitively
	assert.Len(t, rules.rules, 3)
	for _, r := range rules.rules[1:] {
		assert.True(t, r.Enabled)
		assert.Zero(t, r.CompanyID)
	}

	// a second run changes nothing
	require.NoError(t, s.CreateDefaultData(context.Background()))
	assert.Len(t, settings.stored, 8)
	assert.Len(t, rules.rules, 3)
}

func TestCreateDefaultData_ContinuesAfterErrors(t *testing.T) {
	rules := &fakeRules{}
	s := newTestSeeder(&fakeCompanies{err: errors.New("db down")}, &fakeSettings{stored: map[string]*appModels.SchoolSetting{}}, rules)

	err := s.CreateDefaultData(context.Background())
	assert.Error(t, err)
	assert.Len(t, rules.rules, len(starterRules))
}
