package services

import "fmt"

// ExtractionError means the uploaded document could not be read as a PDF or
// held no readable text. Handlers map it to 400.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Error reading PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps any failure of the remote LLM call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
