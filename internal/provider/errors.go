package provider

import "fmt"

// TranslateError indicates the translation endpoint could not be
// reached or answered with a non-2xx status.
type TranslateError struct {
	Message    string
	StatusCode int // 0 on transport errors
	Cause      error
}

func (e *TranslateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translate: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("translate: %s", e.Message)
}

func (e *TranslateError) Unwrap() error {
	return e.Cause
}

// SubmissionError carries the provider's own HTTP status and raw body
// from a rejected TTS job submission, so the handler can relay both.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("tts submission failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// StatusError indicates a status poll failed at the transport level or
// with a non-2xx response.
type StatusError struct {
	Message    string
	StatusCode int // 0 on transport errors
	Cause      error
}

func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("status check: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("status check: %s", e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// ShapeError indicates a 2xx response that is missing the fields the
// contract promises (translation segments, job id, job status).
type ShapeError struct {
	Op      string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected response shape: %s", e.Op, e.Message)
}
