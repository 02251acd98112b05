// Package model defines shared data structures for the ingestion service.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NotSpecified is the sentinel the extraction service must emit for any
// value it cannot determine. Downstream consumers rely on key presence,
// so absent data is represented, never omitted.
const NotSpecified = "Not Specified"

// Category identifies one of the tracked posting kinds.
type Category string

const (
	CategoryJob       Category = "job"
	CategoryResult    Category = "result"
	CategoryAdmitCard Category = "admitCard"
)

// AllCategories returns the tracked categories in processing order.
func AllCategories() []Category {
	return []Category{CategoryJob, CategoryResult, CategoryAdmitCard}
}

// ParseCategory converts a raw string to a Category, returning an error
// for unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	switch c {
	case CategoryJob, CategoryResult, CategoryAdmitCard:
		return c, nil
	}
	return "", fmt.Errorf("unknown posting category %q", s)
}

// ListingItem is a single anchor discovered on a listing page.
// Lifetime: one scrape pass.
type ListingItem struct {
	DisplayText string
	SourceURL   string
}

// CandidateRecord is a ListingItem that survived duplicate filtering and
// detail-page fetch. NormalizedKey is derived deterministically from
// DisplayText; candidates with an empty key are discarded before
// persistence.
type CandidateRecord struct {
	DisplayText   string
	SourceURL     string
	NormalizedKey string
	RawBody       string
}

// PostingRecord is the persisted entity, one per (category, distinct
// posting). Immutable once written — duplicates are prevented pre-insert,
// never corrected post-insert. The (SourceURL, NormalizedKey) pair is the
// durable identity consulted by future runs' duplicate filter.
type PostingRecord struct {
	Category      Category
	Title         string
	Organization  string
	PostedDate    string // YYYY-MM-DD, always a real date
	LastDate      string // YYYY-MM-DD or NotSpecified
	SourceURL     string
	NormalizedKey string

	// Job-only fields; NotSpecified elsewhere.
	Vacancies          string
	Education          string
	Description        string
	NotificationText   string
	ApplicationURL     string
	NotificationPDFURL string

	// RawResponse is the service payload as parsed, kept for audit.
	RawResponse json.RawMessage
}

// RawExtraction is the parsed-but-untrusted payload returned by the
// text-understanding service. Values are advisory until the orchestrator
// promotes them into a PostingRecord, overwriting authoritative fields.
type RawExtraction struct {
	fields map[string]any
	raw    json.RawMessage
}

// NewRawExtraction wraps a decoded JSON object and its source bytes.
func NewRawExtraction(fields map[string]any, raw json.RawMessage) *RawExtraction {
	return &RawExtraction{fields: fields, raw: raw}
}

// Raw returns the original JSON bytes of the payload.
func (e *RawExtraction) Raw() json.RawMessage { return e.raw }

// Get returns the string form of a field and whether the key is present
// with a usable value. Numeric values are stringified (the service
// sometimes returns vacancy counts as numbers despite the prompt).
func (e *RawExtraction) Get(key string) (string, bool) {
	v, ok := e.fields[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// GetOr returns the field's string form, or NotSpecified when absent.
func (e *RawExtraction) GetOr(key string) string {
	if s, ok := e.Get(key); ok {
		return s
	}
	return NotSpecified
}

// ISODate is the wire format for postedDate / lastDate.
const ISODate = "2006-01-02"

// ValidISODate reports whether s parses as a YYYY-MM-DD date.
func ValidISODate(s string) bool {
	_, err := time.Parse(ISODate, s)
	return err == nil
}
