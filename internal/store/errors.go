package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a query or versioned mutation targets
	// a record (identified by collection and id) that does not exist in the
	// database. For collections with a physical delete policy this is also
	// what a fully deleted record looks like.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the expected version supplied by the caller does not match the current
	// version stored in the database, meaning another device has modified the
	// record since the caller last observed it.
	ErrVersionConflict = errors.New("record version conflict occurred")

	// ErrRecordNotSaved is returned when an INSERT completes without error but
	// the number of affected rows is zero, indicating that no data was
	// actually persisted.
	ErrRecordNotSaved = errors.New("record was not saved")

	// ErrPendingChangeNotFound is returned when a queue operation targets a
	// pending change entry that does not exist (or was already garbage
	// collected).
	ErrPendingChangeNotFound = errors.New("pending change was not found")

	// ErrChangeNotInConflict is returned by conflict resolution when the
	// targeted queue entry carries no conflict marker, i.e. there is nothing
	// to resolve.
	ErrChangeNotInConflict = errors.New("pending change is not in conflict")

	// ErrUnknownCollection is returned when an operation names a collection
	// the storage layer does not know about.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan record row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan record rows")

	// ErrEncodingPayload is returned when a record payload cannot be encoded
	// to its JSON column representation before a write.
	ErrEncodingPayload = errors.New("failed to encode record payload")

	// ErrDecodingPayload is returned when a JSON payload column cannot be
	// decoded back into a payload document after a read.
	ErrDecodingPayload = errors.New("failed to decode record payload")
)
