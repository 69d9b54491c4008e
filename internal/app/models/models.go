package models

// RoleType defines the dashboard role resolved at login
type RoleType string

const (
	// RoleAdmin is a Moodle site administrator (listed in siteadmins)
	RoleAdmin RoleType = "ADMIN"
	// RoleManager is an IOMAD company manager pinned to one school
	RoleManager RoleType = "MANAGER"
)

// IsValid reports whether r is a known dashboard role
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleManager
}

// Moodle course role shortnames used by the enrollment surface
const (
	CourseRoleStudent        = "student"
	CourseRoleTeacher        = "teacher"
	CourseRoleEditingTeacher = "editingteacher"
)

// ContextLevelCourse is Moodle's CONTEXT_COURSE
const ContextLevelCourse = 50
