package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_school_setting"}

	assert.True(t, IsDuplicateConstraintError(dup, "uq_school_setting"))
	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("insert: %w", dup), ""))
	assert.False(t, IsDuplicateConstraintError(dup, "other"))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ""))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("timeout")))
}
