package db

import (
	"regexp"
	"strings"
)

// DefaultPrefix is Moodle's stock table prefix
const DefaultPrefix = "mdl_"

var validPrefix = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Schema resolves logical Moodle table names to the site's prefixed names
type Schema struct {
	prefix string
}

// NewSchema returns a Schema for prefix, falling back to DefaultPrefix when the
// prefix is empty or not a safe identifier
func NewSchema(prefix string) Schema {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if !validPrefix.MatchString(prefix) {
		prefix = DefaultPrefix
	}
	return Schema{prefix: prefix}
}

// Prefix returns the table prefix
func (s Schema) Prefix() string {
	if s.prefix == "" {
		return DefaultPrefix
	}
	return s.prefix
}

// T returns the prefixed table name
func (s Schema) T(name string) string {
	return s.Prefix() + name
}

// As returns the prefixed table name with an alias, for FROM and JOIN clauses
func (s Schema) As(name, alias string) string {
	return s.T(name) + " " + alias
}

// Expand replaces every {{prefix}} placeholder in a SQL script
func (s Schema) Expand(sql string) string {
	return strings.ReplaceAll(sql, "{{prefix}}", s.Prefix())
}
