package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

// IUserRepository reads Moodle accounts and the roles that grant dashboard access
type IUserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.MoodleUser, error)
	GetByID(ctx context.Context, id int64) (*models.MoodleUser, error)
	IsSiteAdmin(ctx context.Context, userID int64) (bool, error)
	GetManagerMembership(ctx context.Context, userID int64) (*models.CompanyMembership, error)
}

// UserRepository handles mdl_user lookups
type UserRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool, schema db.Schema) *UserRepository {
	return &UserRepository{
		db:     pool,
		sb:     statementBuilder(),
		schema: schema,
	}
}

func (r *UserRepository) selectUser() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "username", "password", "auth", "firstname", "lastname", "email",
		"suspended", "deleted", "lastaccess",
	).From(r.schema.T("user"))
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.MoodleUser, error) {
	query, args, err := r.selectUser().Where(where).Where(squirrel.Eq{"deleted": 0}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var u models.MoodleUser
	var suspended, deleted int16
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Password, &u.Auth, &u.FirstName, &u.LastName, &u.Email,
		&suspended, &deleted, &u.LastAccess,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error loading Moodle user")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	u.Suspended = suspended != 0
	u.Deleted = deleted != 0
	return &u, nil
}

// GetByUsername loads a non-deleted account. Moodle stores usernames lowercased.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.MoodleUser, error) {
	return r.getOne(ctx, squirrel.Eq{"username": strings.ToLower(strings.TrimSpace(username))})
}

// GetByID loads a non-deleted account by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.MoodleUser, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// IsSiteAdmin checks the comma separated siteadmins config value
func (r *UserRepository) IsSiteAdmin(ctx context.Context, userID int64) (bool, error) {
	query, args, err := r.sb.Select("value").
		From(r.schema.T("config")).
		Where(squirrel.Eq{"name": "siteadmins"}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build siteadmins query: %w", err)
	}

	var value string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if dberrors.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read siteadmins: %w", err)
	}
	return containsID(value, userID), nil
}

// GetManagerMembership returns the first school the user manages
func (r *UserRepository) GetManagerMembership(ctx context.Context, userID int64) (*models.CompanyMembership, error) {
	query, args, err := r.sb.Select("cu.companyid", "c.name", "cu.managertype").
		From(r.schema.As("company_users", "cu")).
		Join(r.schema.As("company", "c") + " ON c.id = cu.companyid").
		Where(squirrel.Eq{"cu.userid": userID}).
		Where(squirrel.Gt{"cu.managertype": 0}).
		Where(squirrel.Eq{"cu.suspended": 0}).
		OrderBy("cu.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build membership query: %w", err)
	}

	var m models.CompanyMembership
	if err := r.db.QueryRow(ctx, query, args...).Scan(&m.CompanyID, &m.CompanyName, &m.ManagerType); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotInCompany
		}
		return nil, fmt.Errorf("failed to load company membership: %w", err)
	}
	return &m, nil
}

func containsID(list string, id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == want {
			return true
		}
	}
	return false
}
