package analytics

import (
	"sort"
	"time"
)

// Flag names one early-warning condition.
type Flag string

const (
	FlagLowGrade      Flag = "low_grade"
	FlagInactive      Flag = "inactive"
	FlagNeverLoggedIn Flag = "never_logged_in"
	FlagLowCompletion Flag = "low_completion"
	FlagNoEnrolments  Flag = "no_enrolments"
)

// Severity of a warning.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// WarningRules are the school-wide thresholds.
type WarningRules struct {
	PassingGrade      float64
	MinCompletionRate float64
	InactivityDays    int
}

// Warning is a flagged student.
type Warning struct {
	UserID         int64    `json:"userId"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	GradeLevel     string   `json:"gradeLevel"`
	AverageGrade   *float64 `json:"averageGrade"`
	CompletionRate float64  `json:"completionRate"`
	// DaysInactive is -1 for students who never logged in.
	DaysInactive int      `json:"daysInactive"`
	Flags        []Flag   `json:"flags"`
	Severity     Severity `json:"severity"`
}

// EvaluateWarnings flags students breaking any rule. One flag is medium severity;
// two or more flags, or never having logged in, is high. High severity sorts first,
// then lowest average grade (ungraded before graded), then name.
func EvaluateWarnings(students []StudentRecord, rules WarningRules, now time.Time) []Warning {
	out := []Warning{}
	cutoff := now.Add(-time.Duration(rules.InactivityDays) * 24 * time.Hour).Unix()

	for _, s := range students {
		var flags []Flag
		daysInactive := -1

		if s.AverageGrade != nil && *s.AverageGrade < rules.PassingGrade {
			flags = append(flags, FlagLowGrade)
		}

		if s.LastAccess <= 0 {
			flags = append(flags, FlagNeverLoggedIn)
		} else {
			daysInactive = int(now.Sub(time.Unix(s.LastAccess, 0)).Hours() / 24)
			if s.LastAccess < cutoff {
				flags = append(flags, FlagInactive)
			}
		}

		if s.EnrolledCourses == 0 {
			flags = append(flags, FlagNoEnrolments)
		} else if s.CompletionRate() < rules.MinCompletionRate {
			flags = append(flags, FlagLowCompletion)
		}

		if len(flags) == 0 {
			continue
		}

		severity := SeverityMedium
		if len(flags) >= 2 || hasFlag(flags, FlagNeverLoggedIn) {
			severity = SeverityHigh
		}

		out = append(out, Warning{
			UserID:         s.UserID,
			Name:           s.FullName(),
			Email:          s.Email,
			GradeLevel:     s.GradeLevel,
			AverageGrade:   s.AverageGrade,
			CompletionRate: s.CompletionRate(),
			DaysInactive:   daysInactive,
			Flags:          flags,
			Severity:       severity,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity != b.Severity {
			return a.Severity == SeverityHigh
		}
		ga, gb := gradeKey(a.AverageGrade), gradeKey(b.AverageGrade)
		if ga != gb {
			return ga < gb
		}
		return a.Name < b.Name
	})
	return out
}

// CountBySeverity tallies warnings for summary cards.
func CountBySeverity(warnings []Warning) map[Severity]int {
	counts := map[Severity]int{SeverityHigh: 0, SeverityMedium: 0}
	for _, w := range warnings {
		counts[w.Severity]++
	}
	return counts
}

func hasFlag(flags []Flag, f Flag) bool {
	for _, x := range flags {
		if x == f {
			return true
		}
	}
	return false
}

func gradeKey(g *float64) float64 {
	if g == nil {
		return -1
	}
	return *g
}
