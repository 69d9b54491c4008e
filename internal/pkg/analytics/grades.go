package analytics

import (
	"sort"
	"strings"
	"unicode"
)

// UnassignedLevel groups students whose grade-level profile field is empty.
const UnassignedLevel = "Unassigned"

// GradeBucket is one letter band of a grade distribution.
type GradeBucket struct {
	Letter     string  `json:"letter"`
	Min        float64 `json:"min"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

var letterBands = []struct {
	letter string
	min    float64
}{
	{"A", 90},
	{"B", 80},
	{"C", 70},
	{"D", 60},
	{"F", 0},
}

// Letter maps a percentage onto the A-F scale. Bands are inclusive at the bottom.
func Letter(pct float64) string {
	for _, b := range letterBands {
		if pct >= b.min {
			return b.letter
		}
	}
	return "F"
}

// Distribution counts percentages per letter band, always returning all five bands.
func Distribution(percents []float64) []GradeBucket {
	buckets := make([]GradeBucket, len(letterBands))
	index := make(map[string]int, len(letterBands))
	for i, b := range letterBands {
		buckets[i] = GradeBucket{Letter: b.letter, Min: b.min}
		index[b.letter] = i
	}

	for _, p := range percents {
		buckets[index[Letter(p)]].Count++
	}

	total := float64(len(percents))
	for i := range buckets {
		buckets[i].Percentage = Percent(float64(buckets[i].Count), total)
	}
	return buckets
}

// GradeLevelSummary aggregates the students of one grade level.
type GradeLevelSummary struct {
	GradeLevel     string  `json:"gradeLevel"`
	Students       int     `json:"students"`
	GradedStudents int     `json:"gradedStudents"`
	AverageGrade   float64 `json:"averageGrade"`
	ActiveStudents int     `json:"activeStudents"`
	AtRiskStudents int     `json:"atRiskStudents"`
}

// GroupByGradeLevel buckets students by grade level. A student is active when their
// last access is at or after activeSince and at risk when graded below passingGrade.
// Levels are ordered naturally ("Grade 2" before "Grade 10") with Unassigned last.
func GroupByGradeLevel(students []StudentRecord, passingGrade float64, activeSince int64) []GradeLevelSummary {
	type acc struct {
		summary GradeLevelSummary
		grades  []float64
	}
	groups := make(map[string]*acc)

	for _, s := range students {
		level := strings.TrimSpace(s.GradeLevel)
		if level == "" {
			level = UnassignedLevel
		}
		g, ok := groups[level]
		if !ok {
			g = &acc{summary: GradeLevelSummary{GradeLevel: level}}
			groups[level] = g
		}

		g.summary.Students++
		if s.LastAccess > 0 && s.LastAccess >= activeSince {
			g.summary.ActiveStudents++
		}
		if s.AverageGrade != nil {
			g.grades = append(g.grades, *s.AverageGrade)
			if *s.AverageGrade < passingGrade {
				g.summary.AtRiskStudents++
			}
		}
	}

	out := make([]GradeLevelSummary, 0, len(groups))
	for _, g := range groups {
		g.summary.GradedStudents = len(g.grades)
		g.summary.AverageGrade = Round(mean(g.grades), 1)
		out = append(out, g.summary)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].GradeLevel, out[j].GradeLevel
		if a == UnassignedLevel || b == UnassignedLevel {
			return b == UnassignedLevel && a != UnassignedLevel
		}
		return naturalLess(a, b)
	})
	return out
}

// naturalLess compares strings treating digit runs as numbers, case-insensitively.
func naturalLess(a, b string) bool {
	ar, br := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		if unicode.IsDigit(ar[i]) && unicode.IsDigit(br[j]) {
			si := i
			for i < len(ar) && unicode.IsDigit(ar[i]) {
				i++
			}
			sj := j
			for j < len(br) && unicode.IsDigit(br[j]) {
				j++
			}
			na := strings.TrimLeft(string(ar[si:i]), "0")
			nb := strings.TrimLeft(string(br[sj:j]), "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ar[i] != br[j] {
			return ar[i] < br[j]
		}
		i++
		j++
	}
	return len(ar)-i < len(br)-j
}
