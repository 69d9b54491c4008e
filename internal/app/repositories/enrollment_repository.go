package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

// IEnrollmentRepository manages manual enrolments in Moodle courses
type IEnrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	RoleID(ctx context.Context, q Querier, shortname string) (int64, error)
	CourseContextID(ctx context.Context, q Querier, courseID int64) (int64, error)
	ManualInstance(ctx context.Context, q Querier, courseID int64) (int64, error)
	CreateManualInstance(ctx context.Context, q Querier, courseID, studentRoleID, now int64) (int64, error)
	InsertUserEnrolment(ctx context.Context, q Querier, enrolID int64, e models.NewEnrollment, now int64) (int64, error)
	AssignRole(ctx context.Context, q Querier, roleID, contextID, userID, modifierID, now int64) error
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, modifierID, now int64) error
	Delete(ctx context.Context, q Querier, e *models.Enrollment) error
}

// EnrollmentRepository handles user_enrolments and role_assignments
type EnrollmentRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(pool *pgxpool.Pool, schema db.Schema) *EnrollmentRepository {
	return &EnrollmentRepository{db: pool, sb: statementBuilder(), schema: schema}
}

func (r *EnrollmentRepository) baseQuery(columns ...string) squirrel.SelectBuilder {
	s := r.schema
	return r.sb.Select(columns...).
		From(s.As("user_enrolments", "ue")).
		Join(s.As("enrol", "e") + " ON e.id = ue.enrolid").
		Join(s.As("course", "c") + " ON c.id = e.courseid").
		Join(s.As("user", "u") + " ON u.id = ue.userid AND u.deleted = 0")
}

func (r *EnrollmentRepository) selectEnrollments() squirrel.SelectBuilder {
	s := r.schema
	role := fmt.Sprintf(`COALESCE((SELECT ro.shortname FROM %s ra
		JOIN %s ro ON ro.id = ra.roleid
		JOIN %s ctx ON ctx.id = ra.contextid AND ctx.contextlevel = %d AND ctx.instanceid = c.id
		WHERE ra.userid = ue.userid ORDER BY ro.sortorder LIMIT 1), '')`,
		s.T("role_assignments"), s.T("role"), s.T("context"), models.ContextLevelCourse)

	return r.baseQuery(
		"ue.id", "ue.enrolid", "ue.userid", "u.firstname", "u.lastname", "u.email",
		"c.id", "c.fullname", role, "ue.status", "ue.timestart", "ue.timeend", "ue.timecreated",
	)
}

func scanEnrollment(row interface{ Scan(...any) error }, e *models.Enrollment) error {
	var status int64
	if err := row.Scan(&e.ID, &e.EnrolID, &e.UserID, &e.FirstName, &e.LastName, &e.Email,
		&e.CourseID, &e.CourseName, &e.Role, &status, &e.TimeStart, &e.TimeEnd, &e.TimeCreated); err != nil {
		return err
	}
	e.Status = models.EnrollmentStatus(status)
	return nil
}

func (r *EnrollmentRepository) listWhere(filter models.EnrollmentFilter) squirrel.And {
	courses := squirrel.Select("courseid").
		From(r.schema.T("company_course")).
		Where(companyScope("companyid", filter.CompanyID))

	where := squirrel.And{squirrel.Expr("e.courseid IN (?)", courses)}
	if filter.CourseID > 0 {
		where = append(where, squirrel.Eq{"e.courseid": filter.CourseID})
	}
	if filter.UserID > 0 {
		where = append(where, squirrel.Eq{"ue.userid": filter.UserID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"ue.status": int(*filter.Status)})
	}
	return where
}

// List returns a page of enrolments in the school's courses
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int64, error) {
	where := r.listWhere(filter)

	countSQL, countArgs, err := r.baseQuery("COUNT(*)").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count enrolments query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count enrolments query")
		return nil, 0, fmt.Errorf("failed to count enrolments: %w", err)
	}
	if total == 0 {
		return []models.Enrollment{}, 0, nil
	}

	listSQL, listArgs, err := r.selectEnrollments().
		Where(where).
		OrderBy("c.fullname", "u.lastname", "u.firstname", "ue.id").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list enrolments query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list enrolments query")
		return nil, 0, fmt.Errorf("failed to list enrolments: %w", err)
	}
	defer rows.Close()

	out := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("failed to scan enrolment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID loads one enrolment
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query, args, err := r.selectEnrollments().Where(squirrel.Eq{"ue.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrolment query: %w", err)
	}

	var e models.Enrollment
	if err := scanEnrollment(r.db.QueryRow(ctx, query, args...), &e); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrolment: %w", err)
	}
	return &e, nil
}

// RoleID resolves a role shortname
func (r *EnrollmentRepository) RoleID(ctx context.Context, q Querier, shortname string) (int64, error) {
	query, args, err := r.sb.Select("id").From(r.schema.T("role")).Where(squirrel.Eq{"shortname": shortname}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build role query: %w", err)
	}
	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrRoleNotFound
		}
		return 0, fmt.Errorf("failed to load role: %w", err)
	}
	return id, nil
}

// CourseContextID resolves the course's context id
func (r *EnrollmentRepository) CourseContextID(ctx context.Context, q Querier, courseID int64) (int64, error) {
	query, args, err := r.sb.Select("id").From(r.schema.T("context")).
		Where(squirrel.Eq{"contextlevel": models.ContextLevelCourse, "instanceid": courseID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build context query: %w", err)
	}
	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.NewResourceNotFoundError("course context not found")
		}
		return 0, fmt.Errorf("failed to load course context: %w", err)
	}
	return id, nil
}

// ManualInstance returns the course's manual enrol instance id, or 0 when none exists
func (r *EnrollmentRepository) ManualInstance(ctx context.Context, q Querier, courseID int64) (int64, error) {
	query, args, err := r.sb.Select("id").From(r.schema.T("enrol")).
		Where(squirrel.Eq{"enrol": "manual", "courseid": courseID}).
		OrderBy("sortorder", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enrol instance query: %w", err)
	}
	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load enrol instance: %w", err)
	}
	return id, nil
}

// CreateManualInstance adds an enabled manual enrol instance to the course
func (r *EnrollmentRepository) CreateManualInstance(ctx context.Context, q Querier, courseID, studentRoleID, now int64) (int64, error) {
	sortorder := squirrel.Select("COALESCE(MAX(sortorder) + 1, 0)").
		From(r.schema.T("enrol")).
		Where(squirrel.Eq{"courseid": courseID})

	query, args, err := r.sb.Insert(r.schema.T("enrol")).
		Columns("enrol", "status", "courseid", "sortorder", "roleid", "expirythreshold", "timecreated", "timemodified").
		Values("manual", 0, courseID, squirrel.Expr("(?)", sortorder), studentRoleID, 86400, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enrol instance insert: %w", err)
	}
	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create enrol instance: %w", err)
	}
	return id, nil
}

// InsertUserEnrolment enrols the user through the given instance
func (r *EnrollmentRepository) InsertUserEnrolment(ctx context.Context, q Querier, enrolID int64, e models.NewEnrollment, now int64) (int64, error) {
	query, args, err := r.sb.Insert(r.schema.T("user_enrolments")).
		Columns("status", "enrolid", "userid", "timestart", "timeend", "modifierid", "timecreated", "timemodified").
		Values(int(models.EnrollmentActive), enrolID, e.UserID, e.TimeStart, e.TimeEnd, e.ActorID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enrolment insert: %w", err)
	}
	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return 0, apperrors.ErrAlreadyEnrolled
		}
		return 0, fmt.Errorf("failed to enrol user: %w", err)
	}
	return id, nil
}

// AssignRole gives the user a manual role in the context unless already assigned
func (r *EnrollmentRepository) AssignRole(ctx context.Context, q Querier, roleID, contextID, userID, modifierID, now int64) error {
	existing := squirrel.Select("1").From(r.schema.T("role_assignments")).
		Where(squirrel.Eq{"roleid": roleID, "contextid": contextID, "userid": userID, "component": "", "itemid": 0})

	query, args, err := r.sb.Insert(r.schema.T("role_assignments")).
		Columns("roleid", "contextid", "userid", "timemodified", "modifierid", "component", "itemid", "sortorder").
		Select(squirrel.Select().
			Column("?::bigint", roleID).
			Column("?::bigint", contextID).
			Column("?::bigint", userID).
			Column("?::bigint", now).
			Column("?::bigint", modifierID).
			Column("''").Column("0").Column("0").
			Where(squirrel.Expr("NOT EXISTS (?)", existing))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build role assignment: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// UpdateStatus suspends or reactivates an enrolment
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, modifierID, now int64) error {
	query, args, err := r.sb.Update(r.schema.T("user_enrolments")).
		Set("status", int(status)).
		Set("modifierid", modifierID).
		Set("timemodified", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrolment status update: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update enrolment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// Delete removes the enrolment and, when the user has no other enrolment in the
// course, their manual role assignments in the course context
func (r *EnrollmentRepository) Delete(ctx context.Context, q Querier, e *models.Enrollment) error {
	query, args, err := r.sb.Delete(r.schema.T("user_enrolments")).Where(squirrel.Eq{"id": e.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unenrol query: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to unenrol user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	query = r.schema.Expand(`
		DELETE FROM {{prefix}}role_assignments ra
		USING {{prefix}}context ctx
		WHERE ctx.id = ra.contextid AND ctx.contextlevel = $1 AND ctx.instanceid = $2
		  AND ra.userid = $3 AND ra.component = ''
		  AND NOT EXISTS (
			SELECT 1 FROM {{prefix}}user_enrolments ue
			JOIN {{prefix}}enrol en ON en.id = ue.enrolid
			WHERE ue.userid = $3 AND en.courseid = $2
		  )`)
	if _, err := q.Exec(ctx, query, models.ContextLevelCourse, e.CourseID, e.UserID); err != nil {
		return fmt.Errorf("failed to remove course roles: %w", err)
	}
	return nil
}
