// Package seedkiterr defines the error types surfaced across the
// generation pipeline, each carrying enough context (table, column, row
// index) to debug a failure without re-running with extra logging.
package seedkiterr

import "fmt"

// ErrNoDatabaseURL is returned when neither the --db flag nor the
// DATABASE_URL environment variable supplies a connection string.
var ErrNoDatabaseURL = fmt.Errorf("no database URL provided; checked --db flag and DATABASE_URL")

// UnsupportedDatabaseError reports a connection string with a scheme this
// module doesn't generate for.
type UnsupportedDatabaseError struct {
	Scheme string
}

func (e *UnsupportedDatabaseError) Error() string {
	return fmt.Sprintf("unsupported database scheme %q; supported: postgres://, mysql://, sqlite://", e.Scheme)
}

// CircularDependencyError reports a cycle the graph builder could not
// resolve automatically, with a suggestion for a seedkit.toml override.
type CircularDependencyError struct {
	Tables         []string
	SuggestedBreak string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected involving tables %v; override with break_at = [%q] in seedkit.toml", e.Tables, e.SuggestedBreak)
}

// UnbreakableCycleError reports a cycle where every FK in the loop is
// NOT NULL and no break_at override applies.
type UnbreakableCycleError struct {
	Tables []string
}

func (e *UnbreakableCycleError) Error() string {
	return fmt.Sprintf("no breakable edge found for circular dependency involving %v; make one FK column nullable or add a break_at override", e.Tables)
}

// UniqueExhaustedError reports a single-column unique constraint that could
// not be satisfied within the retry budget.
type UniqueExhaustedError struct {
	Table      string
	Column     string
	RowIndex   int
	MaxRetries int
}

func (e *UniqueExhaustedError) Error() string {
	return fmt.Sprintf("failed to generate unique value for %s.%s at row %d: %d retries exhausted", e.Table, e.Column, e.RowIndex, e.MaxRetries)
}

// CompositeUniqueExhaustedError reports a multi-column unique constraint
// that could not be satisfied within the row retry budget.
type CompositeUniqueExhaustedError struct {
	Table      string
	Columns    []string
	RowIndex   int
	MaxRetries int
}

func (e *CompositeUniqueExhaustedError) Error() string {
	return fmt.Sprintf("composite unique constraint exhausted on %s.(%v) at row %d: %d retries exhausted", e.Table, e.Columns, e.RowIndex, e.MaxRetries)
}

// ForeignKeyResolutionError reports an FK column whose referenced table has
// no generated rows to pick from.
type ForeignKeyResolutionError struct {
	SourceTable    string
	SourceColumn   string
	TargetTable    string
	TargetColumn   string
}

func (e *ForeignKeyResolutionError) Error() string {
	return fmt.Sprintf("foreign key resolution failed: %s.%s references %s.%s, but target table has no generated rows",
		e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn)
}

// ConnectionError wraps a driver error encountered opening or pinging a
// database connection. ConnectionHint is a password-redacted form of the
// connection string, safe to print.
type ConnectionError struct {
	ConnectionHint string
	Err            error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.ConnectionHint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// InsertFailedError wraps a driver error encountered inserting a specific row.
type InsertFailedError struct {
	Table      string
	RowIndex   int
	SQLPreview string
	Err        error
}

func (e *InsertFailedError) Error() string {
	return fmt.Sprintf("insert failed on %s row %d\n  SQL: %s\n  cause: %v", e.Table, e.RowIndex, e.SQLPreview, e.Err)
}

func (e *InsertFailedError) Unwrap() error { return e.Err }

// CheckConstraintViolationError reports a generated value that violates a
// recognized CHECK constraint — indicates a bug in a semantic provider's
// bounds narrowing rather than a retry-able collision.
type CheckConstraintViolationError struct {
	Table      string
	Column     string
	Constraint string
	Value      string
}

func (e *CheckConstraintViolationError) Error() string {
	return fmt.Sprintf("check constraint cannot be satisfied for %s.%s: %s (generated value %s violates it)",
		e.Table, e.Column, e.Constraint, e.Value)
}

// CustomProviderUnsupportedError reports a column configured with a
// [columns."table.col"] custom provider path, which this module does not
// execute (no embedded JS/WASM runtime).
type CustomProviderUnsupportedError struct {
	ProviderPath string
	Table        string
	Column       string
}

func (e *CustomProviderUnsupportedError) Error() string {
	return fmt.Sprintf(
		"custom provider %q for %s.%s is not supported; use [columns.%q] values = [...] in seedkit.toml instead",
		e.ProviderPath, e.Table, e.Column, e.Table+"."+e.Column,
	)
}

// IntrospectionError wraps a metadata query failure encountered while
// reading a live database's structure.
type IntrospectionError struct {
	Query string
	Err   error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspection query failed: %s: %v", e.Query, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

// LockFileError reports a failure reading, writing, or validating
// seedkit.lock.
type LockFileError struct {
	Message string
}

func (e *LockFileError) Error() string {
	return fmt.Sprintf("lock file error: %s", e.Message)
}

// SchemaDriftError reports a fatal failure during a drift check, as
// distinct from drift itself being detected (which is reported, not
// thrown; see drift.Report).
type SchemaDriftError struct {
	Message string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("drift check error: %s", e.Message)
}

// ConfigError reports a malformed seedkit.toml.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

// LLMError reports a failure calling or parsing the response of an AI
// classification provider. Per-row parse failures are logged and
// dropped rather than surfaced here; this error is for a wholly failed
// call (network error, non-2xx response, empty body).
type LLMError struct {
	Message string
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("LLM classification error: %s", e.Message)
}

// OutputError wraps a failure writing generated data to its destination
// format (SQL/CSV/JSON).
type OutputError struct {
	Message string
	Err     error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output error: %s: %v", e.Message, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
