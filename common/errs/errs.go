package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// SomethingWentWrong is returned when an unexpected error occurred.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	// InternalError is returned when an invariant of the indexer is broken.
	InternalError = ErrorKind("Internal Error")

	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument or configuration is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a requested feature, network or driver is not supported.
	Unsupported = ErrorKind("Unsupported")

	// ConflictSetting is returned when persisted settings conflict with the running configuration.
	ConflictSetting = ErrorKind("Conflict Setting")

	// Timeout is returned when an operation exceeded its deadline.
	Timeout = ErrorKind("Timeout")

	// PrerequisiteMissing is returned when upstream data required to start indexing is absent.
	PrerequisiteMissing = ErrorKind("Prerequisite Missing")

	// ReorgTooDeep is returned when no common ancestor is found within the reorg look-back window.
	ReorgTooDeep = ErrorKind("Reorg Too Deep")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
