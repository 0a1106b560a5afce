// Package generation defines the ports used to reach an external language
// model: free-form text generation and image text extraction. The Gemini
// implementation lives in internal/platform/gemini.
package generation
