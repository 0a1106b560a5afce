package generation

import "errors"

// Common errors returned by generation implementations
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the model response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrImageUnavailable is returned when an image cannot be fetched for text extraction
	ErrImageUnavailable = errors.New("image could not be fetched")

	// ErrDisabled is returned by the no-op generator used when no API key is configured
	ErrDisabled = errors.New("text generation is not configured")
)
