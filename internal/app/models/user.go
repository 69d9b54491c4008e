package models

import "strings"

// MoodleUser is the subset of mdl_user the service reads
type MoodleUser struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"-"`
	Auth       string `json:"auth"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Suspended  bool   `json:"suspended"`
	Deleted    bool   `json:"-"`
	LastAccess int64  `json:"lastAccess"`
}

// FullName joins first and last name
func (u *MoodleUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SessionUser is the authenticated caller carried in the JWT
type SessionUser struct {
	ID          int64    `json:"id" example:"2"`
	Username    string   `json:"username" example:"admin"`
	FirstName   string   `json:"firstName" example:"Site"`
	LastName    string   `json:"lastName" example:"Admin"`
	Email       string   `json:"email" example:"admin@school.example"`
	RoleType    RoleType `json:"roleType" example:"ADMIN" enums:"ADMIN,MANAGER"`
	CompanyID   int64    `json:"companyId" example:"0"`
	CompanyName string   `json:"companyName,omitempty" example:"Riverside Primary"`
}

// IsAdmin reports whether the caller is a site administrator
func (s *SessionUser) IsAdmin() bool {
	return s.RoleType == RoleAdmin
}

// CompanyMembership is a row of company_users
type CompanyMembership struct {
	CompanyID   int64  `json:"companyId"`
	CompanyName string `json:"companyName"`
	ManagerType int    `json:"managerType"`
}
