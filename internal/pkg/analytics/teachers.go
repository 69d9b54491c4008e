package analytics

import "sort"

// TeacherMetrics are the raw per-teacher aggregates for the reporting window.
type TeacherMetrics struct {
	UserID         int64   `json:"userId"`
	Name           string  `json:"name"`
	Courses        int     `json:"courses"`
	Students       int     `json:"students"`
	AverageGrade   float64 `json:"averageGrade"`
	GradingActions int64   `json:"gradingActions"`
	Activity       int64   `json:"activity"`
	CompletionRate float64 `json:"completionRate"`
}

// Radar holds metrics normalised to 0..100 against the best teacher in the school.
type Radar struct {
	Grades     float64 `json:"grades"`
	Completion float64 `json:"completion"`
	Grading    float64 `json:"grading"`
	Activity   float64 `json:"activity"`
	Students   float64 `json:"students"`
}

// Weights sets how much each radar axis contributes to the overall score.
type Weights struct {
	Grades     float64
	Completion float64
	Grading    float64
	Activity   float64
	Students   float64
}

// DefaultWeights favour learning outcomes over raw activity.
var DefaultWeights = Weights{Grades: 0.30, Completion: 0.25, Grading: 0.20, Activity: 0.15, Students: 0.10}

func (w Weights) total() float64 {
	return w.Grades + w.Completion + w.Grading + w.Activity + w.Students
}

// TeacherScore is a teacher's metrics with radar values and overall score.
type TeacherScore struct {
	TeacherMetrics
	Radar Radar   `json:"radar"`
	Score float64 `json:"score"`
}

// ScoreTeachers normalises each metric against the maximum across teachers and
// computes the weighted score. A metric whose maximum is zero normalises to 0.
// Results are ordered by score descending, then by name.
func ScoreTeachers(metrics []TeacherMetrics, w Weights) []TeacherScore {
	var maxGrade, maxCompletion, maxGrading, maxActivity, maxStudents float64
	for _, m := range metrics {
		maxGrade = max(maxGrade, m.AverageGrade)
		maxCompletion = max(maxCompletion, m.CompletionRate)
		maxGrading = max(maxGrading, float64(m.GradingActions))
		maxActivity = max(maxActivity, float64(m.Activity))
		maxStudents = max(maxStudents, float64(m.Students))
	}

	out := make([]TeacherScore, 0, len(metrics))
	for _, m := range metrics {
		r := Radar{
			Grades:     normalise(m.AverageGrade, maxGrade),
			Completion: normalise(m.CompletionRate, maxCompletion),
			Grading:    normalise(float64(m.GradingActions), maxGrading),
			Activity:   normalise(float64(m.Activity), maxActivity),
			Students:   normalise(float64(m.Students), maxStudents),
		}
		weighted := r.Grades*w.Grades + r.Completion*w.Completion + r.Grading*w.Grading +
			r.Activity*w.Activity + r.Students*w.Students
		out = append(out, TeacherScore{
			TeacherMetrics: m,
			Radar:          r,
			Score:          Round(SafeDiv(weighted, w.total()), 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func normalise(v, maxV float64) float64 {
	if v < 0 {
		v = 0
	}
	return Round(SafeDiv(v, maxV)*100, 1)
}
