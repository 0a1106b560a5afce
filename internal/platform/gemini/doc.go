// Package gemini implements generation.Generator and generation.TextExtractor
// on top of Google's Gemini API.
//
// This package is an infrastructure adapter: services only see the
// generation interfaces and the sentinel errors of the generation package,
// never genai types.
//
// Error handling:
//   - Network failures, HTTP 429 and 5xx responses are retried with
//     exponential backoff and jitter, up to LLMConfig.MaxRetries times.
//   - Other API errors, empty responses and safety blocks fail immediately.
//   - Exhausted retries surface as generation.ErrTransientFailure.
package gemini
