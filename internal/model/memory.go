// Package model defines the core memory data types.
package model

import (
	"encoding/json"
	"time"
)

// UnknownLocation is the sentinel the backend uses for records whose
// location has not been identified yet.
const UnknownLocation = "Unknown Location"

// DefaultWeight is assumed for records the backend returned without a weight.
const DefaultWeight = 1.0

// Memory represents one searchable item (photo plus metadata) returned by
// the backend. IDs are unique within a session; a duplicate ID makes
// weight and location updates apply to every match silently.
type Memory struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Keywords    []string `json:"keywords,omitempty"`
	Type        string   `json:"memory_type"`
	Description string   `json:"description,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Filename    string   `json:"filename,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`

	// Authoritative names used by newer backend revisions. Normalize
	// mirrors them onto Weight and Keywords once, at the response
	// boundary, so the rest of the code reads one name only.
	CurrentWeight     *float64 `json:"current_weight,omitempty"`
	ExtractedKeywords []string `json:"extracted_keywords,omitempty"`

	// Provenance, carried through unchanged when present.
	Source     string `json:"source,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// Valid memory types.
const (
	TypeUser   = "user"
	TypePublic = "public"
)

// EffectiveWeight returns the record's weight, defaulting to 1.0 when the
// backend omitted it.
func (m *Memory) EffectiveWeight() float64 {
	if m.Weight != nil {
		return *m.Weight
	}
	return DefaultWeight
}

// SetWeight overwrites the weight with a server-returned authoritative
// value, keeping both field names in step.
func (m *Memory) SetWeight(w float64) {
	m.Weight = &w
	m.CurrentWeight = &w
}

// Normalize mirrors the authoritative field names onto the generic ones.
// Called exactly once per record, when a response is decoded.
func (m *Memory) Normalize() {
	if m.CurrentWeight != nil {
		m.Weight = m.CurrentWeight
	}
	if len(m.ExtractedKeywords) > 0 && len(m.Keywords) == 0 {
		m.Keywords = m.ExtractedKeywords
	}
}

// dateLayouts are tried in order when parsing a record date for sorting.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006",
}

// ParsedDate parses the record's date string. Unparseable dates return the
// zero time and false; callers degrade gracefully rather than fail.
func (m *Memory) ParsedDate() (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortBy selects the ordering applied to the memory store.
type SortBy string

const (
	SortByWeight    SortBy = "weight"
	SortByDate      SortBy = "date"
	SortByRelevance SortBy = "relevance"
)

// ValidSorts are the accepted sort criteria.
var ValidSorts = map[SortBy]bool{
	SortByWeight:    true,
	SortByDate:      true,
	SortByRelevance: true,
}

// Narrative is a generated free-text summary over a result set plus the
// keywords to highlight in it. Replaced wholesale on every successful
// narrative request; independent from the memory store.
type Narrative struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// KeywordList decodes the two keyword shapes the narrative endpoint emits:
// a list of plain strings, or a list of tagged objects where only entries
// tagged "primary" contribute their text. Non-conforming entries are
// dropped silently.
type KeywordList []string

func (k *KeywordList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an array at all; treat as empty rather than fail.
		*k = nil
		return nil
	}

	var out []string
	for _, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, s)
			continue
		}
		var tagged struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(entry, &tagged); err == nil && tagged.Type == "primary" && tagged.Text != "" {
			out = append(out, tagged.Text)
		}
	}
	*k = out
	return nil
}
