package errors

const (
	CodeMalformedInput  = "MALFORMED_INPUT"
	CodeInvalidGeometry = "INVALID_GEOMETRY"
	CodeStoreFailure    = "STORE_FAILURE"
	CodeSnapshotInvalid = "SNAPSHOT_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeCacheError      = "CACHE_ERROR"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeSourceError     = "SOURCE_ERROR"
)

var (
	ErrMalformedInput = New(
		CodeMalformedInput,
		"Malformed listing input",
	)

	ErrInvalidGeometry = New(
		CodeInvalidGeometry,
		"Geometry could not be decoded",
	)

	ErrStoreFailure = New(
		CodeStoreFailure,
		"Failed to persist resolution batch",
	)

	ErrSnapshotInvalid = New(
		CodeSnapshotInvalid,
		"Reference snapshot is incomplete",
	)

	ErrDatabaseError = New(
		CodeDatabaseError,
		"Database operation failed",
	)

	ErrCacheError = New(
		CodeCacheError,
		"Cache operation failed",
	)

	ErrInvalidConfig = New(
		CodeInvalidConfig,
		"Invalid configuration",
	)

	ErrSourceError = New(
		CodeSourceError,
		"Failed to read source records",
	)
)
