package models

import "github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"

// License is a row of companylicense
type License struct {
	ID          int64   `json:"id"`
	CompanyID   int64   `json:"companyId"`
	Name        string  `json:"name"`
	Allocation  int     `json:"allocation"`
	Used        int     `json:"used"`
	ValidLength int     `json:"validLength"`
	StartDate   int64   `json:"startDate"`
	ExpiryDate  int64   `json:"expiryDate"`
	Type        int     `json:"type"`
	CourseIDs   []int64 `json:"courseIds"`
}

// Available returns the number of unallocated seats
func (l *License) Available() int {
	if l.Used >= l.Allocation {
		return 0
	}
	return l.Allocation - l.Used
}

// LicenseUser is a row of companylicense_users joined with mdl_user
type LicenseUser struct {
	ID        int64  `json:"id"`
	LicenseID int64  `json:"licenseId"`
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsUsing   bool   `json:"isUsing"`
	IssueDate int64  `json:"issueDate"`
}

// LicenseFilter narrows a license listing
type LicenseFilter struct {
	// CompanyID 0 lists every school's licenses
	CompanyID int64
	Name      string
	Page      helpers.Page
}
