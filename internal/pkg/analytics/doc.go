// Package analytics turns per-student and per-teacher aggregates pulled from the
// Moodle database into the shapes the school dashboards chart: letter-grade
// distributions, grade-level summaries, monthly academic trends, teacher radar
// scores and early-warning flags.
//
// Everything here is pure; callers fetch rows and pass them in.
package analytics
