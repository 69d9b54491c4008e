package models

// SchoolSetting is a row of theme_remui_school_settings
type SchoolSetting struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	Name         string `json:"name"`
	Value        string `json:"value"`
	TimeModified int64  `json:"timeModified"`
}

// Audience is a dashboard audience that can be switched on or off per school
type Audience string

const (
	AudienceStudent Audience = "student"
	AudienceTeacher Audience = "teacher"
	AudienceParent  Audience = "parent"
	AudienceManager Audience = "manager"
)

// Audiences lists every audience in display order
var Audiences = []Audience{AudienceStudent, AudienceTeacher, AudienceParent, AudienceManager}

// IsValid reports whether a is a known audience
func (a Audience) IsValid() bool {
	for _, known := range Audiences {
		if a == known {
			return true
		}
	}
	return false
}

// SettingName is the settings key that stores the audience toggle
func (a Audience) SettingName() string {
	return "dashboard_access_" + string(a)
}

// DashboardAccess is the effective toggle of one audience
type DashboardAccess struct {
	Audience     Audience `json:"audience" example:"student"`
	Enabled      bool     `json:"enabled" example:"true"`
	IsDefault    bool     `json:"isDefault" example:"false"`
	TimeModified int64    `json:"timeModified"`
}
