package analytics

import "time"

// MonthLayout is the key format of monthly buckets.
const MonthLayout = "2006-01"

// MonthlyPoint is one aggregated SQL row keyed by month. For grades Value holds the
// average percentage and Count the number of graded items; for counters only Count
// is used.
type MonthlyPoint struct {
	Month string
	Value float64
	Count int64
}

// TrendBucket is one month of the academic trend chart.
type TrendBucket struct {
	Month        string  `json:"month"`
	Label        string  `json:"label"`
	AverageGrade float64 `json:"averageGrade"`
	GradedItems  int64   `json:"gradedItems"`
	Completions  int64   `json:"completions"`
	Logins       int64   `json:"logins"`
}

// TrendStart returns the first instant of the oldest month in a window of
// months calendar months ending with now's month.
func TrendStart(now time.Time, months int) time.Time {
	if months < 1 {
		months = 1
	}
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, now.Location())
}

// MonthKeys lists the months of the window, oldest first.
func MonthKeys(now time.Time, months int) []time.Time {
	start := TrendStart(now, months)
	n := months
	if n < 1 {
		n = 1
	}
	keys := make([]time.Time, n)
	for i := range keys {
		keys[i] = start.AddDate(0, i, 0)
	}
	return keys
}

// BuildTrend lays the SQL points onto a contiguous month axis. Months without data
// are kept with zero values and points outside the window are dropped.
func BuildTrend(now time.Time, months int, grades, completions, logins []MonthlyPoint) []TrendBucket {
	keys := MonthKeys(now, months)
	buckets := make([]TrendBucket, len(keys))
	index := make(map[string]int, len(keys))
	gradeSums := make([]float64, len(keys))

	for i, k := range keys {
		key := k.Format(MonthLayout)
		buckets[i] = TrendBucket{Month: key, Label: k.Format("Jan 2006")}
		index[key] = i
	}

	for _, p := range grades {
		if i, ok := index[p.Month]; ok && p.Count > 0 {
			gradeSums[i] += p.Value * float64(p.Count)
			buckets[i].GradedItems += p.Count
		}
	}
	for _, p := range completions {
		if i, ok := index[p.Month]; ok {
			buckets[i].Completions += p.Count
		}
	}
	for _, p := range logins {
		if i, ok := index[p.Month]; ok {
			buckets[i].Logins += p.Count
		}
	}

	for i := range buckets {
		buckets[i].AverageGrade = Round(SafeDiv(gradeSums[i], float64(buckets[i].GradedItems)), 1)
	}
	return buckets
}
