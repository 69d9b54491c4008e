package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

// ILicenseRepository manages IOMAD companylicense rows. Methods taking a Querier
// run inside the caller's transaction.
type ILicenseRepository interface {
	List(ctx context.Context, filter models.LicenseFilter) ([]models.License, int64, error)
	GetByID(ctx context.Context, id int64) (*models.License, error)
	GetForUpdate(ctx context.Context, q Querier, id int64) (*models.License, error)
	NameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, q Querier, license *models.License) error
	Update(ctx context.Context, q Querier, license *models.License) error
	Delete(ctx context.Context, q Querier, id int64) error
	ListUsers(ctx context.Context, licenseID int64) ([]models.LicenseUser, error)
	GetUser(ctx context.Context, q Querier, licenseID, userID int64) (*models.LicenseUser, error)
	AddUser(ctx context.Context, q Querier, licenseID, userID, issueDate int64) (bool, error)
	RemoveUser(ctx context.Context, q Querier, licenseID, userID int64) error
	SyncUsed(ctx context.Context, q Querier, licenseID int64) (int, error)
}

// LicenseRepository handles license database operations
type LicenseRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewLicenseRepository creates a new LicenseRepository
func NewLicenseRepository(pool *pgxpool.Pool, schema db.Schema) *LicenseRepository {
	return &LicenseRepository{db: pool, sb: statementBuilder(), schema: schema}
}

var licenseColumns = []string{
	"l.id", "l.companyid", "l.name", "l.allocation", "l.used", "l.validlength",
	"l.startdate", "l.expirydate", "l.type",
}

func scanLicense(row interface{ Scan(...any) error }, l *models.License) error {
	return row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Allocation, &l.Used, &l.ValidLength,
		&l.StartDate, &l.ExpiryDate, &l.Type)
}

func (r *LicenseRepository) listQueries(filter models.LicenseFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	where := squirrel.And{companyScope("l.companyid", filter.CompanyID)}
	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, squirrel.ILike{"l.name": "%" + name + "%"})
	}

	count := r.sb.Select("COUNT(*)").From(r.schema.As("companylicense", "l")).Where(where)
	list := r.sb.Select(licenseColumns...).
		From(r.schema.As("companylicense", "l")).
		Where(where).
		OrderBy("l.expirydate DESC", "l.name", "l.id").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset())
	return count, list
}

// List returns a page of licenses and the total match count
func (r *LicenseRepository) List(ctx context.Context, filter models.LicenseFilter) ([]models.License, int64, error) {
	countQ, listQ := r.listQueries(filter)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count licenses query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count licenses query")
		return nil, 0, fmt.Errorf("failed to count licenses: %w", err)
	}
	if total == 0 {
		return []models.License{}, 0, nil
	}

	listSQL, listArgs, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list licenses query: %w", err)
	}
	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list licenses query")
		return nil, 0, fmt.Errorf("failed to list licenses: %w", err)
	}
	defer rows.Close()

	licenses := []models.License{}
	for rows.Next() {
		var l models.License
		if err := scanLicense(rows, &l); err != nil {
			return nil, 0, fmt.Errorf("failed to scan license: %w", err)
		}
		licenses = append(licenses, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return licenses, total, nil
}

func (r *LicenseRepository) getOne(ctx context.Context, q Querier, id int64, forUpdate bool) (*models.License, error) {
	b := r.sb.Select(licenseColumns...).From(r.schema.As("companylicense", "l")).Where(squirrel.Eq{"l.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build license query: %w", err)
	}

	var l models.License
	if err := scanLicense(q.QueryRow(ctx, query, args...), &l); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("failed to load license: %w", err)
	}

	courseIDs, err := r.courseIDs(ctx, q, id)
	if err != nil {
		return nil, err
	}
	l.CourseIDs = courseIDs
	return &l, nil
}

func (r *LicenseRepository) courseIDs(ctx context.Context, q Querier, licenseID int64) ([]int64, error) {
	query, args, err := r.sb.Select("courseid").
		From(r.schema.T("companylicense_courses")).
		Where(squirrel.Eq{"licenseid": licenseID}).
		OrderBy("courseid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build license courses query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load license courses: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByID loads a license with its course ids
func (r *LicenseRepository) GetByID(ctx context.Context, id int64) (*models.License, error) {
	return r.getOne(ctx, r.db, id, false)
}

// GetForUpdate loads and row-locks a license inside a transaction
func (r *LicenseRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*models.License, error) {
	return r.getOne(ctx, q, id, true)
}

// NameExists checks for another license with the same name in the school
func (r *LicenseRepository) NameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	inner := squirrel.Select("1").
		From(r.schema.T("companylicense")).
		Where(squirrel.Eq{"companyid": companyID}).
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(name))).
		Where(squirrel.NotEq{"id": excludeID})
	query, args, err := r.sb.Select().Column(squirrel.Expr("EXISTS (?)", inner)).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build license name query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check license name: %w", err)
	}
	return exists, nil
}

// Create inserts a license and its course links
func (r *LicenseRepository) Create(ctx context.Context, q Querier, l *models.License) error {
	query, args, err := r.sb.Insert(r.schema.T("companylicense")).
		Columns("companyid", "name", "allocation", "used", "validlength", "startdate", "expirydate", "type",
			"parentid", "program", "reference", "instant", "cutoffdate", "clearonexpire").
		Values(l.CompanyID, strings.TrimSpace(l.Name), l.Allocation, 0, l.ValidLength, l.StartDate, l.ExpiryDate, l.Type,
			0, 0, "", 0, 0, 0).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create license query: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&l.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrLicenseNameTaken
		}
		return fmt.Errorf("failed to create license: %w", err)
	}
	l.Used = 0
	return r.replaceCourses(ctx, q, l.ID, l.CourseIDs)
}

// Update writes the editable license fields and replaces its course links
func (r *LicenseRepository) Update(ctx context.Context, q Querier, l *models.License) error {
	query, args, err := r.sb.Update(r.schema.T("companylicense")).
		Set("name", strings.TrimSpace(l.Name)).
		Set("allocation", l.Allocation).
		Set("validlength", l.ValidLength).
		Set("startdate", l.StartDate).
		Set("expirydate", l.ExpiryDate).
		Set("type", l.Type).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update license query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrLicenseNameTaken
		}
		return fmt.Errorf("failed to update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLicenseNotFound
	}
	return r.replaceCourses(ctx, q, l.ID, l.CourseIDs)
}

func (r *LicenseRepository) replaceCourses(ctx context.Context, q Querier, licenseID int64, courseIDs []int64) error {
	del, args, err := r.sb.Delete(r.schema.T("companylicense_courses")).Where(squirrel.Eq{"licenseid": licenseID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build license courses delete: %w", err)
	}
	if _, err := q.Exec(ctx, del, args...); err != nil {
		return fmt.Errorf("failed to clear license courses: %w", err)
	}

	if len(courseIDs) == 0 {
		return nil
	}

	ins := r.sb.Insert(r.schema.T("companylicense_courses")).Columns("licenseid", "courseid")
	seen := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ins = ins.Values(licenseID, id)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build license courses insert: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link license courses: %w", err)
	}
	return nil
}

// Delete removes a license and its course links
func (r *LicenseRepository) Delete(ctx context.Context, q Querier, id int64) error {
	if err := r.replaceCourses(ctx, q, id, nil); err != nil {
		return err
	}

	query, args, err := r.sb.Delete(r.schema.T("companylicense")).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete license query: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLicenseNotFound
	}
	return nil
}

func (r *LicenseRepository) selectUsers() squirrel.SelectBuilder {
	return r.sb.Select("lu.id", "lu.licenseid", "lu.userid", "u.firstname", "u.lastname", "u.email", "lu.isusing", "lu.issuedate").
		From(r.schema.As("companylicense_users", "lu")).
		Join(r.schema.As("user", "u") + " ON u.id = lu.userid")
}

func scanLicenseUser(row interface{ Scan(...any) error }, u *models.LicenseUser) error {
	var isUsing int16
	if err := row.Scan(&u.ID, &u.LicenseID, &u.UserID, &u.FirstName, &u.LastName, &u.Email, &isUsing, &u.IssueDate); err != nil {
		return err
	}
	u.IsUsing = isUsing != 0
	return nil
}

// ListUsers returns the holders of a license
func (r *LicenseRepository) ListUsers(ctx context.Context, licenseID int64) ([]models.LicenseUser, error) {
	query, args, err := r.selectUsers().
		Where(squirrel.Eq{"lu.licenseid": licenseID}).
		OrderBy("u.lastname", "u.firstname", "lu.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build license users query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list license users: %w", err)
	}
	defer rows.Close()

	users := []models.LicenseUser{}
	for rows.Next() {
		var u models.LicenseUser
		if err := scanLicenseUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan license user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser loads one holder of a license
func (r *LicenseRepository) GetUser(ctx context.Context, q Querier, licenseID, userID int64) (*models.LicenseUser, error) {
	query, args, err := r.selectUsers().
		Where(squirrel.Eq{"lu.licenseid": licenseID, "lu.userid": userID}).
		OrderBy("lu.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build license user query: %w", err)
	}

	var u models.LicenseUser
	if err := scanLicenseUser(q.QueryRow(ctx, query, args...), &u); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLicenseUserNotFound
		}
		return nil, fmt.Errorf("failed to load license user: %w", err)
	}
	return &u, nil
}

// AddUser allocates a seat to the user. It reports false when the user already
// holds the license.
func (r *LicenseRepository) AddUser(ctx context.Context, q Querier, licenseID, userID, issueDate int64) (bool, error) {
	existing := squirrel.Select("1").
		From(r.schema.T("companylicense_users")).
		Where(squirrel.Eq{"licenseid": licenseID, "userid": userID})

	query, args, err := r.sb.Insert(r.schema.T("companylicense_users")).
		Columns("licenseid", "userid", "isusing", "timecompleted", "licensecourseid", "issuedate", "groupid").
		Select(squirrel.Select().
			Column("?::bigint", licenseID).
			Column("?::bigint", userID).
			Column("0").Column("0").Column("0").
			Column("?::bigint", issueDate).
			Column("0").
			Where(squirrel.Expr("NOT EXISTS (?)", existing))).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build license allocation: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to allocate license: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveUser revokes every seat the user holds on the license
func (r *LicenseRepository) RemoveUser(ctx context.Context, q Querier, licenseID, userID int64) error {
	query, args, err := r.sb.Delete(r.schema.T("companylicense_users")).
		Where(squirrel.Eq{"licenseid": licenseID, "userid": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build license revoke: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to revoke license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLicenseUserNotFound
	}
	return nil
}

// SyncUsed sets used to the number of distinct holders and returns it
func (r *LicenseRepository) SyncUsed(ctx context.Context, q Querier, licenseID int64) (int, error) {
	query := r.schema.Expand(`
		UPDATE {{prefix}}companylicense
		SET used = (SELECT COUNT(DISTINCT userid) FROM {{prefix}}companylicense_users WHERE licenseid = $1)
		WHERE id = $1
		RETURNING used`)

	var used int
	if err := q.QueryRow(ctx, query, licenseID).Scan(&used); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrLicenseNotFound
		}
		return 0, fmt.Errorf("failed to sync license usage: %w", err)
	}
	return used, nil
}
