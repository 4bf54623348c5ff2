package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors
var (
	// ErrRecognitionFailed is returned when the recognition engine fails to
	// process a region.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrUnknownEngine is returned when OCR_ENGINE names an engine this
	// build does not provide.
	ErrUnknownEngine = errors.New("unknown OCR engine")

	// ErrMissingCredentials is returned when the Vision engine is selected
	// but neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is
	// configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")
)

// EngineError wraps errors with additional context about the recognition failure.
type EngineError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewVisionEngine").
	Op string

	// Engine is the engine that reported the failure.
	Engine string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s %s failed: %s: %v", e.Engine, e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s %s failed: %v", e.Engine, e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapEngineError wraps an error as an EngineError unless it already is one.
func wrapEngineError(op, engine string, err error, details string) error {
	if err == nil {
		return nil
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return err
	}
	return &EngineError{Op: op, Engine: engine, Err: err, Details: details}
}
