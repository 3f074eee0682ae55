package errors

import (
	"fmt"
	"time"
)

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Transient detection errors: absorbed at the async boundary, never
	// surfaced to the user.
	ErrorImageConversion ErrorCode = "IMAGE_CONVERSION_FAILED"
	ErrorRecognition     ErrorCode = "RECOGNITION_FAILED"
	ErrorNoSurfaceFound  ErrorCode = "NO_SURFACE_FOUND"

	// User-actionable errors: presented with a message and, where it makes
	// sense, a retry action.
	ErrorPlacementFailed   ErrorCode = "PLACEMENT_FAILED"
	ErrorLanguagePack      ErrorCode = "LANGUAGE_PACK_UNAVAILABLE"
	ErrorTranslationFailed ErrorCode = "TRANSLATION_FAILED"
	ErrorSessionRestart    ErrorCode = "SESSION_RESTART_FAILED"

	// Fatal-to-feature errors: surfaced once, the feature degrades.
	ErrorModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	ErrorStorageFailed    ErrorCode = "STORAGE_FAILED"
)

// PipelineError represents a structured pipeline error
type PipelineError struct {
	Code      ErrorCode
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Factory functions for common errors

func NewPlacementError(cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorPlacementFailed,
		Message:   "Could not anchor the label to a surface. Try moving the camera slowly over a flat area.",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewLanguagePackError(source, target string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorLanguagePack,
		Message:   fmt.Sprintf("Translation for %s → %s is not ready yet. Check your connection and retry.", source, target),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"source_language": source,
			"target_language": target,
		},
		Cause: cause,
	}
}

func NewTranslationError(text string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorTranslationFailed,
		Message:   "Translation failed. Check your connection and retry.",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"text_length": len(text),
		},
		Cause: cause,
	}
}

func NewModelUnavailableError(capability string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorModelUnavailable,
		Message:   fmt.Sprintf("The %s capability is unavailable. Continuing without it.", capability),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"capability": capability,
		},
		Cause: cause,
	}
}

// Presenter is the single surface through which the pipeline requests
// user-visible error presentation. The pipeline never renders UI itself.
// retry may be nil when the failure has no meaningful retry action.
type Presenter interface {
	ShowError(message string, retry func())
	Dismiss()
}
