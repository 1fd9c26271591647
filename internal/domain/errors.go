package domain

import "errors"

var (
	// ErrQuestionNotFound is returned when an answer references an unknown question ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionOutOfRange indicates a selected option index outside the question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrInvalidQuestion wraps validation failures for question records.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrStoreUnavailable is returned when the question store cannot be read.
	ErrStoreUnavailable = errors.New("question store unavailable")
	// ErrMissingStoreURI is returned when no store connection string is configured.
	ErrMissingStoreURI = errors.New("missing MONGODB_URI")
	// ErrUnsupportedStore indicates a connection string with an unknown scheme.
	ErrUnsupportedStore = errors.New("unsupported store scheme")
	// ErrSessionNotReady is returned when a quiz session receives answers before questions are loaded.
	ErrSessionNotReady = errors.New("quiz session not ready")
	// ErrSessionReviewed is returned when a quiz session is mutated after its result exists.
	ErrSessionReviewed = errors.New("quiz session already submitted")
)
