// Package mocks holds function-field fakes shared by handler and service
// tests. Service fakes return zero values and DefaultError when a method's
// function field is nil; MockGenerator falls back to Reply and Err.
//
//	gen := &mocks.MockGenerator{
//	    GenerateFn: func(ctx context.Context, prompt string) (string, error) {
//	        return `{"topic": "Optics", "flashcards": []}`, nil
//	    },
//	}
package mocks
