package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx so mutations can run inside
// a caller-owned transaction
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	CompanyRepository       *CompanyRepository
	AnalyticsRepository     *AnalyticsRepository
	LicenseRepository       *LicenseRepository
	EnrollmentRepository    *EnrollmentRepository
	SchoolSettingRepository *SchoolSettingRepository
	TrainingRuleRepository  *TrainingRuleRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool, schema db.Schema) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(pool, schema),
		CompanyRepository:       NewCompanyRepository(pool, schema),
		AnalyticsRepository:     NewAnalyticsRepository(pool, schema),
		LicenseRepository:       NewLicenseRepository(pool, schema),
		EnrollmentRepository:    NewEnrollmentRepository(pool, schema),
		SchoolSettingRepository: NewSchoolSettingRepository(pool, schema),
		TrainingRuleRepository:  NewTrainingRuleRepository(pool, schema),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// companyScope limits a column to one company; companyID 0 leaves it unfiltered
func companyScope(column string, companyID int64) squirrel.Sqlizer {
	if companyID <= 0 {
		return squirrel.Expr("1 = 1")
	}
	return squirrel.Eq{column: companyID}
}
