package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/analytics"
)

// IAnalyticsRepository runs the aggregation queries behind the school dashboards.
// companyID 0 aggregates over every school.
type IAnalyticsRepository interface {
	CountStudents(ctx context.Context, companyID int64) (int64, error)
	CountTeachers(ctx context.Context, companyID int64) (int64, error)
	CountCourses(ctx context.Context, companyID int64) (int64, error)
	CountActiveUsers(ctx context.Context, companyID, since int64) (int64, error)
	AverageGrade(ctx context.Context, companyID int64) (float64, error)
	CompletionTotals(ctx context.Context, companyID int64) (models.CompletionTotals, error)
	StudentRecords(ctx context.Context, companyID int64, gradeLevelField string) ([]analytics.StudentRecord, error)
	MonthlyGrades(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error)
	MonthlyCompletions(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error)
	MonthlyLogins(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error)
	TeacherMetrics(ctx context.Context, companyID, since int64) ([]analytics.TeacherMetrics, error)
	CourseEngagement(ctx context.Context, companyID, since int64) ([]models.CourseEngagement, error)
	RecentActivity(ctx context.Context, companyID int64, limit int) ([]models.ActivityEntry, error)
}

// AnalyticsRepository aggregates Moodle and IOMAD tables
type AnalyticsRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(pool *pgxpool.Pool, schema db.Schema) *AnalyticsRepository {
	return &AnalyticsRepository{db: pool, sb: statementBuilder(), schema: schema}
}

// $1 is always the company id; 0 disables the company filter.
const (
	companyCoursesSQL = `SELECT courseid FROM {{prefix}}company_course WHERE ($1::bigint = 0 OR companyid = $1::bigint)`

	companyStudentsSQL = `SELECT cu.userid FROM {{prefix}}company_users cu
		JOIN {{prefix}}user u ON u.id = cu.userid AND u.deleted = 0
		WHERE cu.managertype = 0 AND cu.educator = 0 AND ($1::bigint = 0 OR cu.companyid = $1::bigint)`

	courseTotalPctSQL = `gg.finalgrade::float8 / gi.grademax::float8 * 100`
)

const countStudentsSQL = `SELECT COUNT(DISTINCT s.userid) FROM (` + companyStudentsSQL + `) s`

const countTeachersSQL = `
	SELECT COUNT(DISTINCT ra.userid)
	FROM {{prefix}}role_assignments ra
	JOIN {{prefix}}role r ON r.id = ra.roleid AND r.shortname IN ('editingteacher', 'teacher')
	JOIN {{prefix}}context ctx ON ctx.id = ra.contextid AND ctx.contextlevel = 50
	JOIN {{prefix}}user u ON u.id = ra.userid AND u.deleted = 0
	WHERE ctx.instanceid IN (` + companyCoursesSQL + `)`

const countCoursesSQL = `SELECT COUNT(DISTINCT c.courseid) FROM (` + companyCoursesSQL + `) c`

const countActiveUsersSQL = `
	SELECT COUNT(DISTINCT u.id)
	FROM {{prefix}}company_users cu
	JOIN {{prefix}}user u ON u.id = cu.userid AND u.deleted = 0 AND u.suspended = 0
	WHERE ($1::bigint = 0 OR cu.companyid = $1::bigint) AND u.lastaccess >= $2`

const averageGradeSQL = `
	SELECT COALESCE(AVG(` + courseTotalPctSQL + `), 0)
	FROM {{prefix}}grade_grades gg
	JOIN {{prefix}}grade_items gi ON gi.id = gg.itemid AND gi.itemtype = 'course' AND gi.grademax > 0
	WHERE gg.finalgrade IS NOT NULL
	  AND gi.courseid IN (` + companyCoursesSQL + `)
	  AND gg.userid IN (` + companyStudentsSQL + `)`

const completionTotalsSQL = `
	SELECT COUNT(*), COUNT(cc.id) FILTER (WHERE cc.timecompleted > 0)
	FROM (
		SELECT DISTINCT ue.userid, e.courseid
		FROM {{prefix}}user_enrolments ue
		JOIN {{prefix}}enrol e ON e.id = ue.enrolid AND e.status = 0
		WHERE ue.status = 0
		  AND e.courseid IN (` + companyCoursesSQL + `)
		  AND ue.userid IN (` + companyStudentsSQL + `)
	) en
	LEFT JOIN {{prefix}}course_completions cc ON cc.userid = en.userid AND cc.course = en.courseid`

// $2 is the shortname of the grade level profile field
const studentRecordsSQL = `
	SELECT DISTINCT ON (u.id)
		u.id, u.firstname, u.lastname, u.email,
		COALESCE(gl.data, ''),
		g.avg_pct,
		u.lastaccess,
		COALESCE(en.enrolled, 0),
		COALESCE(en.completed, 0)
	FROM {{prefix}}company_users cu
	JOIN {{prefix}}user u ON u.id = cu.userid AND u.deleted = 0
	LEFT JOIN (
		SELECT d.userid, d.data
		FROM {{prefix}}user_info_data d
		JOIN {{prefix}}user_info_field f ON f.id = d.fieldid
		WHERE f.shortname = $2
	) gl ON gl.userid = u.id
	LEFT JOIN (
		SELECT gg.userid, AVG(` + courseTotalPctSQL + `) AS avg_pct
		FROM {{prefix}}grade_grades gg
		JOIN {{prefix}}grade_items gi ON gi.id = gg.itemid AND gi.itemtype = 'course' AND gi.grademax > 0
		WHERE gg.finalgrade IS NOT NULL AND gi.courseid IN (` + companyCoursesSQL + `)
		GROUP BY gg.userid
	) g ON g.userid = u.id
	LEFT JOIN (
		SELECT ue.userid,
			COUNT(DISTINCT e.courseid) AS enrolled,
			COUNT(DISTINCT cc.course) FILTER (WHERE cc.timecompleted > 0) AS completed
		FROM {{prefix}}user_enrolments ue
		JOIN {{prefix}}enrol e ON e.id = ue.enrolid AND e.status = 0
		LEFT JOIN {{prefix}}course_completions cc ON cc.userid = ue.userid AND cc.course = e.courseid
		WHERE ue.status = 0 AND e.courseid IN (` + companyCoursesSQL + `)
		GROUP BY ue.userid
	) en ON en.userid = u.id
	WHERE cu.managertype = 0 AND cu.educator = 0 AND ($1::bigint = 0 OR cu.companyid = $1::bigint)
	ORDER BY u.id`

// $2 is the window start, $3 the IANA timezone the months are cut in
const monthlyGradesSQL = `
	SELECT to_char(to_timestamp(gg.timemodified) AT TIME ZONE $3, 'YYYY-MM') AS month,
		AVG(` + courseTotalPctSQL + `), COUNT(*)
	FROM {{prefix}}grade_grades gg
	JOIN {{prefix}}grade_items gi ON gi.id = gg.itemid AND gi.itemtype = 'course' AND gi.grademax > 0
	WHERE gg.finalgrade IS NOT NULL AND gg.timemodified >= $2
	  AND gi.courseid IN (` + companyCoursesSQL + `)
	  AND gg.userid IN (` + companyStudentsSQL + `)
	GROUP BY month
	ORDER BY month`

const monthlyCompletionsSQL = `
	SELECT to_char(to_timestamp(cc.timecompleted) AT TIME ZONE $3, 'YYYY-MM') AS month, 0::float8, COUNT(*)
	FROM {{prefix}}course_completions cc
	WHERE cc.timecompleted >= $2
	  AND cc.course IN (` + companyCoursesSQL + `)
	  AND cc.userid IN (` + companyStudentsSQL + `)
	GROUP BY month
	ORDER BY month`

const monthlyLoginsSQL = `
	SELECT to_char(to_timestamp(l.timecreated) AT TIME ZONE $3, 'YYYY-MM') AS month, 0::float8, COUNT(*)
	FROM {{prefix}}logstore_standard_log l
	WHERE l.eventname = '\core\event\user_loggedin' AND l.timecreated >= $2
	  AND l.userid IN (SELECT cu.userid FROM {{prefix}}company_users cu WHERE ($1::bigint = 0 OR cu.companyid = $1::bigint))
	GROUP BY month
	ORDER BY month`

// $2 is the start of the activity window
const teacherMetricsSQL = `
	WITH company_courses AS (` + companyCoursesSQL + `),
	teacher_courses AS (
		SELECT DISTINCT ra.userid, ctx.instanceid AS courseid
		FROM {{prefix}}role_assignments ra
		JOIN {{prefix}}role r ON r.id = ra.roleid AND r.shortname IN ('editingteacher', 'teacher')
		JOIN {{prefix}}context ctx ON ctx.id = ra.contextid AND ctx.contextlevel = 50
		WHERE ctx.instanceid IN (SELECT courseid FROM company_courses)
	),
	student_courses AS (
		SELECT DISTINCT ra.userid, ctx.instanceid AS courseid
		FROM {{prefix}}role_assignments ra
		JOIN {{prefix}}role r ON r.id = ra.roleid AND r.shortname = 'student'
		JOIN {{prefix}}context ctx ON ctx.id = ra.contextid AND ctx.contextlevel = 50
		WHERE ctx.instanceid IN (SELECT courseid FROM company_courses)
	),
	teacher_students AS (
		SELECT DISTINCT tc.userid AS teacherid, sc.userid AS studentid, sc.courseid
		FROM teacher_courses tc
		JOIN student_courses sc ON sc.courseid = tc.courseid
	)
	SELECT u.id,
		TRIM(u.firstname || ' ' || u.lastname),
		(SELECT COUNT(*) FROM teacher_courses t WHERE t.userid = u.id),
		(SELECT COUNT(DISTINCT ts.studentid) FROM teacher_students ts WHERE ts.teacherid = u.id),
		COALESCE((
			SELECT AVG(` + courseTotalPctSQL + `)
			FROM teacher_students ts
			JOIN {{prefix}}grade_items gi ON gi.courseid = ts.courseid AND gi.itemtype = 'course' AND gi.grademax > 0
			JOIN {{prefix}}grade_grades gg ON gg.itemid = gi.id AND gg.userid = ts.studentid
			WHERE ts.teacherid = u.id AND gg.finalgrade IS NOT NULL
		), 0),
		(
			SELECT COUNT(*)
			FROM {{prefix}}grade_grades gg
			JOIN {{prefix}}grade_items gi ON gi.id = gg.itemid AND gi.courseid IN (SELECT courseid FROM company_courses)
			WHERE gg.usermodified = u.id AND gg.timemodified >= $2
		),
		(
			SELECT COUNT(*)
			FROM {{prefix}}logstore_standard_log l
			WHERE l.userid = u.id AND l.timecreated >= $2
				AND l.courseid IN (SELECT courseid FROM company_courses)
		),
		(SELECT COUNT(*) FROM teacher_students ts WHERE ts.teacherid = u.id),
		(
			SELECT COUNT(*)
			FROM teacher_students ts
			JOIN {{prefix}}course_completions cc ON cc.userid = ts.studentid AND cc.course = ts.courseid
			WHERE ts.teacherid = u.id AND cc.timecompleted > 0
		)
	FROM {{prefix}}user u
	WHERE u.deleted = 0 AND u.id IN (SELECT userid FROM teacher_courses)
	ORDER BY u.id`

func (r *AnalyticsRepository) count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, r.schema.Expand(sql), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountStudents counts the school's student members
func (r *AnalyticsRepository) CountStudents(ctx context.Context, companyID int64) (int64, error) {
	n, err := r.count(ctx, countStudentsSQL, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

// CountTeachers counts users holding a teacher role in the school's courses
func (r *AnalyticsRepository) CountTeachers(ctx context.Context, companyID int64) (int64, error) {
	n, err := r.count(ctx, countTeachersSQL, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count teachers: %w", err)
	}
	return n, nil
}

// CountCourses counts the school's courses
func (r *AnalyticsRepository) CountCourses(ctx context.Context, companyID int64) (int64, error) {
	n, err := r.count(ctx, countCoursesSQL, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

// CountActiveUsers counts members who accessed the site since the given time
func (r *AnalyticsRepository) CountActiveUsers(ctx context.Context, companyID, since int64) (int64, error) {
	n, err := r.count(ctx, countActiveUsersSQL, companyID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}

// AverageGrade averages the students' course total percentages
func (r *AnalyticsRepository) AverageGrade(ctx context.Context, companyID int64) (float64, error) {
	var avg float64
	if err := r.db.QueryRow(ctx, r.schema.Expand(averageGradeSQL), companyID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average grades: %w", err)
	}
	return avg, nil
}

// CompletionTotals counts active student enrolments and how many are completed
func (r *AnalyticsRepository) CompletionTotals(ctx context.Context, companyID int64) (models.CompletionTotals, error) {
	var t models.CompletionTotals
	if err := r.db.QueryRow(ctx, r.schema.Expand(completionTotalsSQL), companyID).Scan(&t.Enrolled, &t.Completed); err != nil {
		return t, fmt.Errorf("failed to count completions: %w", err)
	}
	return t, nil
}

// StudentRecords loads one aggregated row per student of the school
func (r *AnalyticsRepository) StudentRecords(ctx context.Context, companyID int64, gradeLevelField string) ([]analytics.StudentRecord, error) {
	rows, err := r.db.Query(ctx, r.schema.Expand(studentRecordsSQL), companyID, gradeLevelField)
	if err != nil {
		return nil, fmt.Errorf("failed to query student records: %w", err)
	}
	defer rows.Close()

	out := []analytics.StudentRecord{}
	for rows.Next() {
		var s analytics.StudentRecord
		if err := rows.Scan(
			&s.UserID, &s.FirstName, &s.LastName, &s.Email, &s.GradeLevel,
			&s.AverageGrade, &s.LastAccess, &s.EnrolledCourses, &s.CompletedCourses,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student record: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) monthly(ctx context.Context, sql string, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error) {
	rows, err := r.db.Query(ctx, r.schema.Expand(sql), companyID, since, timezone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []analytics.MonthlyPoint{}
	for rows.Next() {
		var p analytics.MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Value, &p.Count); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MonthlyGrades averages course totals graded per month
func (r *AnalyticsRepository) MonthlyGrades(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error) {
	points, err := r.monthly(ctx, monthlyGradesSQL, companyID, since, timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly grades: %w", err)
	}
	return points, nil
}

// MonthlyCompletions counts course completions per month
func (r *AnalyticsRepository) MonthlyCompletions(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error) {
	points, err := r.monthly(ctx, monthlyCompletionsSQL, companyID, since, timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly completions: %w", err)
	}
	return points, nil
}

// MonthlyLogins counts member logins per month
func (r *AnalyticsRepository) MonthlyLogins(ctx context.Context, companyID, since int64, timezone string) ([]analytics.MonthlyPoint, error) {
	points, err := r.monthly(ctx, monthlyLoginsSQL, companyID, since, timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly logins: %w", err)
	}
	return points, nil
}

// TeacherMetrics loads the raw effectiveness metrics of every teacher in the school
func (r *AnalyticsRepository) TeacherMetrics(ctx context.Context, companyID, since int64) ([]analytics.TeacherMetrics, error) {
	rows, err := r.db.Query(ctx, r.schema.Expand(teacherMetricsSQL), companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher metrics: %w", err)
	}
	defer rows.Close()

	out := []analytics.TeacherMetrics{}
	for rows.Next() {
		var m analytics.TeacherMetrics
		var pairs, completed int64
		if err := rows.Scan(
			&m.UserID, &m.Name, &m.Courses, &m.Students, &m.AverageGrade,
			&m.GradingActions, &m.Activity, &pairs, &completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan teacher metrics: %w", err)
		}
		m.AverageGrade = analytics.Round(m.AverageGrade, 1)
		m.CompletionRate = analytics.Percent(float64(completed), float64(pairs))
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) courseEngagementQuery(companyID, since int64) (string, []any, error) {
	s := r.schema
	enrolled := fmt.Sprintf(`(SELECT COUNT(DISTINCT ue.userid) FROM %s ue JOIN %s e ON e.id = ue.enrolid
		WHERE e.courseid = c.id AND e.status = 0 AND ue.status = 0)`, s.T("user_enrolments"), s.T("enrol"))
	active := fmt.Sprintf(`(SELECT COUNT(DISTINCT ue.userid) FROM %s ue JOIN %s e ON e.id = ue.enrolid
		JOIN %s la ON la.userid = ue.userid AND la.courseid = e.courseid
		WHERE e.courseid = c.id AND e.status = 0 AND ue.status = 0 AND la.timeaccess >= ?)`,
		s.T("user_enrolments"), s.T("enrol"), s.T("user_lastaccess"))
	completed := fmt.Sprintf(`(SELECT COUNT(*) FROM %s cc WHERE cc.course = c.id AND cc.timecompleted > 0)`,
		s.T("course_completions"))
	avgGrade := fmt.Sprintf(`COALESCE((SELECT AVG(%s) FROM %s gi JOIN %s gg ON gg.itemid = gi.id
		WHERE gi.courseid = c.id AND gi.itemtype = 'course' AND gi.grademax > 0 AND gg.finalgrade IS NOT NULL), 0)`,
		courseTotalPctSQL, s.T("grade_items"), s.T("grade_grades"))

	return r.sb.Select("c.id", "c.fullname", "c.shortname").
		Distinct().
		Column(enrolled).
		Column(active, since).
		Column(completed).
		Column(avgGrade).
		From(s.As("course", "c")).
		Join(s.As("company_course", "comc") + " ON comc.courseid = c.id").
		Where(companyScope("comc.companyid", companyID)).
		Where(squirrel.Gt{"c.id": 1}).
		OrderBy("c.fullname", "c.id").
		ToSql()
}

// CourseEngagement loads one engagement row per school course
func (r *AnalyticsRepository) CourseEngagement(ctx context.Context, companyID, since int64) ([]models.CourseEngagement, error) {
	query, args, err := r.courseEngagementQuery(companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to build course engagement query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course engagement: %w", err)
	}
	defer rows.Close()

	out := []models.CourseEngagement{}
	for rows.Next() {
		var c models.CourseEngagement
		if err := rows.Scan(&c.CourseID, &c.FullName, &c.ShortName, &c.Enrolled, &c.Active, &c.Completed, &c.AverageGrade); err != nil {
			return nil, fmt.Errorf("failed to scan course engagement: %w", err)
		}
		c.AverageGrade = analytics.Round(c.AverageGrade, 1)
		c.EngagementRate = analytics.Percent(float64(c.Active), float64(c.Enrolled))
		c.CompletionRate = analytics.Percent(float64(c.Completed), float64(c.Enrolled))
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) recentActivityQuery(companyID int64, limit int) (string, []any, error) {
	members := squirrel.Select("cu.userid").
		From(r.schema.As("company_users", "cu")).
		Where(companyScope("cu.companyid", companyID))

	return r.sb.Select(
		"l.id", "l.userid", "TRIM(COALESCE(u.firstname, '') || ' ' || COALESCE(u.lastname, ''))",
		"COALESCE(l.courseid, 0)", "COALESCE(c.fullname, '')",
		"l.eventname", "l.component", "l.action", "l.target", "l.timecreated",
	).
		From(r.schema.As("logstore_standard_log", "l")).
		LeftJoin(r.schema.As("user", "u") + " ON u.id = l.userid").
		LeftJoin(r.schema.As("course", "c") + " ON c.id = l.courseid").
		Where(squirrel.Expr("l.userid IN (?)", members)).
		OrderBy("l.timecreated DESC", "l.id DESC").
		Limit(uint64(limit)).
		ToSql()
}

// RecentActivity loads the latest log entries of the school's members
func (r *AnalyticsRepository) RecentActivity(ctx context.Context, companyID int64, limit int) ([]models.ActivityEntry, error) {
	query, args, err := r.recentActivityQuery(companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build recent activity query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	out := []models.ActivityEntry{}
	for rows.Next() {
		var a models.ActivityEntry
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.UserName, &a.CourseID, &a.CourseName,
			&a.EventName, &a.Component, &a.Action, &a.Target, &a.TimeCreated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
