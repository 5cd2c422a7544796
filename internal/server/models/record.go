// Package models holds the backend representation of ledger records.
//
// The backend does not interpret entity fields. A record body is kept as a
// JSON object; the server only owns the envelope: id, owner and timestamps.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

const KindSettings = "settings"

// Kinds lists the entity kinds the backend accepts.
var Kinds = []string{
	"accounts",
	"incomeSources",
	"categories",
	"loans",
	"transactions",
	"customCurrencies",
	KindSettings,
}

// ValidKind reports whether kind is one of Kinds.
func ValidKind(kind string) bool {
	return slices.Contains(Kinds, kind)
}

// envelope keys are owned by the server and never stored in a body
var envelopeKeys = []string{"id", "userId", "createdAt", "updatedAt"}

type Record struct {
	ID        int64
	UserID    string
	Kind      string
	Body      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecodeBody parses a client payload into a body map, dropping envelope
// keys. Anything but a JSON object yields common.ErrInvalidPayload.
func DecodeBody(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", common.ErrInvalidPayload)
	}
	for _, k := range envelopeKeys {
		delete(body, k)
	}
	return body, nil
}

// Merge applies the keys of patch on top of the body.
func (r *Record) Merge(patch map[string]any) {
	if r.Body == nil {
		r.Body = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		r.Body[k] = v
	}
}

// MarshalJSON renders the record the way clients decode it: the body fields
// plus the envelope, with the id as a decimal string.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Body)+len(envelopeKeys))
	for k, v := range r.Body {
		out[k] = v
	}
	out["id"] = strconv.FormatInt(r.ID, 10)
	out["userId"] = r.UserID
	out["createdAt"] = r.CreatedAt.UTC()
	out["updatedAt"] = r.UpdatedAt.UTC()
	return json.Marshal(out)
}

// Clone returns a copy whose body can be changed independently.
func (r *Record) Clone() *Record {
	c := *r
	if r.Body != nil {
		c.Body = make(map[string]any, len(r.Body))
		for k, v := range r.Body {
			c.Body[k] = v
		}
	}
	return &c
}

// ParseID converts a wire id into the numeric key. Provisional or malformed
// ids yield common.ErrNotFound since no such record can exist.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("record %q: %w", s, common.ErrNotFound)
	}
	return id, nil
}
