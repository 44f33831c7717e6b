// ABOUTME: Document type and field-level operations for the remote document store
// ABOUTME: Provides the Absent sentinel, recursive sanitization, and merge semantics

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Document is the wire representation of an entity: a flat-to-nested
// JSON-compatible map keyed by field name.
type Document map[string]any

// Well-known field names maintained by the store layer, never by callers.
const (
	FieldID             = "id"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldIsFavorite     = "isFavorite"
	FieldLastAccessedAt = "lastAccessedAt"
)

// ErrAbsentValue is returned when a document containing the Absent sentinel
// reaches the serialization layer. The remote store rejects such values, so
// documents must be passed through Sanitize before transmission.
var ErrAbsentValue = errors.New("document contains an absent value; sanitize before encoding")

// absentValue is the type of the Absent sentinel. It refuses JSON
// serialization so that an unsanitized document fails loudly instead of
// writing garbage to the remote store.
type absentValue struct{}

func (absentValue) MarshalJSON() ([]byte, error) {
	return nil, ErrAbsentValue
}

// Absent marks a field with no value. It is distinct from nil: JSON null is a
// legal document value and passes through untouched, while Absent must be
// stripped before a document goes over the wire. In a merge patch, Absent
// removes the field from the merged document.
var Absent any = absentValue{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absentValue)
	return ok
}

// AbsentWireMarker is the reserved string a broken encoder would emit in
// place of Absent. Absent itself has no JSON form (MarshalJSON fails), so a
// sanitized document never carries this value; the server rejects any
// document that does.
const AbsentWireMarker = "__absent__"

// HasAbsentMarker reports whether any value in doc equals AbsentWireMarker,
// walking nested maps and slices.
func HasAbsentMarker(doc Document) bool {
	for _, v := range doc {
		if hasMarkerValue(v) {
			return true
		}
	}
	return false
}

func hasMarkerValue(v any) bool {
	switch val := v.(type) {
	case string:
		return val == AbsentWireMarker
	case Document:
		return HasAbsentMarker(val)
	case map[string]any:
		return HasAbsentMarker(Document(val))
	case []any:
		for _, item := range val {
			if hasMarkerValue(item) {
				return true
			}
		}
	}
	return false
}

// Sanitize returns a copy of doc with every Absent value removed. Nested maps
// and slices are walked recursively; all other values pass through unchanged.
// The input is never mutated.
func Sanitize(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		clean, keep := sanitizeValue(v)
		if keep {
			out[k] = clean
		}
	}
	return out
}

// sanitizeValue strips Absent from a single value. The second return is false
// when the value itself is Absent and should be dropped by the caller.
func sanitizeValue(v any) (any, bool) {
	switch val := v.(type) {
	case absentValue:
		return nil, false
	case Document:
		return Sanitize(val), true
	case map[string]any:
		return Sanitize(Document(val)), true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			clean, keep := sanitizeValue(item)
			if keep {
				out = append(out, clean)
			}
		}
		return out, true
	default:
		return v, true
	}
}

// Merge applies patch on top of base and returns the result, leaving both
// inputs untouched. Fields present in patch overwrite fields in base; nested
// maps are merged recursively rather than replaced wholesale, matching the
// remote store's merge-upsert semantics. A patch field holding Absent removes
// the field from the result.
func Merge(base, patch Document) Document {
	out := Clone(base)
	for k, v := range patch {
		if IsAbsent(v) {
			delete(out, k)
			continue
		}
		pm, pok := asMap(v)
		bm, bok := asMap(out[k])
		if pok && bok {
			out[k] = Merge(bm, pm)
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of doc. Absent sentinels are preserved.
func Clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return Clone(val)
	case map[string]any:
		return map[string]any(Clone(Document(val)))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (Document, bool) {
	switch val := v.(type) {
	case Document:
		return val, true
	case map[string]any:
		return Document(val), true
	default:
		return nil, false
	}
}

// Encode converts a typed entity into its Document form via JSON field tags.
func Encode[T any](v T) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding entity: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding entity fields: %w", err)
	}
	return doc, nil
}

// Decode converts a Document back into a typed entity. Unknown fields are
// dropped; missing fields take their zero values.
func Decode[T any](doc Document) (T, error) {
	var v T
	data, err := json.Marshal(doc)
	if err != nil {
		return v, fmt.Errorf("encoding document: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding document: %w", err)
	}
	return v, nil
}

// NowMillis returns the current time as integer epoch milliseconds, the
// timestamp representation used throughout the document model.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
