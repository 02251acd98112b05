package model

import (
	"errors"
	"fmt"
)

// UpstreamError marks a transient failure against an upstream dependency
// (network error, timeout, 5xx). Retried where a retry policy applies;
// otherwise the single item or page is skipped.
type UpstreamError struct {
	Op  string // e.g. "fetch listing", "gemini call"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ContentError marks content that cannot be used: unparseable JSON, a
// missing required field, an empty extracted body. Never retried —
// always a per-item skip.
type ContentError struct {
	Op     string
	Detail string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// IsTransient reports whether err is (or wraps) an UpstreamError.
func IsTransient(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsMalformed reports whether err is (or wraps) a ContentError.
func IsMalformed(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce)
}
