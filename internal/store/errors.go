package store

import "errors"

// Sentinel errors returned by preference stores. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrWrongMasterKey is returned when the encrypted store was created with
	// a different master key than the one supplied now.
	ErrWrongMasterKey = errors.New("master key does not match the store")

	// ErrCorruptedValue is returned when a stored value fails authentication.
	ErrCorruptedValue = errors.New("stored value is corrupted")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("preference store is closed")
)

// Low-level database operation errors. These are returned (or wrapped) when a
// SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a preference row fails.
	ErrScanningRow = errors.New("failed to scan preference row")
)
