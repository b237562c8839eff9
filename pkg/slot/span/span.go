// Package span normalizes the column-span value of a slot across its
// historical storage encodings.
//
// A slot's width is expressed in grid units out of a 12-unit row, but four
// encodings of that value exist in persisted documents:
//
//  1. A bare number: 6
//  2. An object keyed by viewport name with a number: {"desktop": 6}
//  3. An object keyed by viewport name with a responsive class-like
//     string: {"desktop": "col-span-6"}
//  4. A legacy nested breakpoint object: {"desktop": {"mobile": 4, "desktop": 6}}
//
// All four must resolve to the same integer for a given viewport, and
// malformed values must never fail: [Span.Resolve] falls back to full width
// (12) whenever no usable integer can be recovered.
//
// # Resolution order
//
// For the active viewport the priority is:
//
//	bare number → viewport-keyed number → viewport-keyed class string →
//	nested breakpoint object (desktop → tablet → mobile) → 12
//
// The priority order lives here and only here; callers never special-case
// encodings themselves.
package span

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Viewport identifies one of the responsive layout modes.
type Viewport string

// Recognized viewports.
const (
	ViewportMobile  Viewport = "mobile"
	ViewportTablet  Viewport = "tablet"
	ViewportDesktop Viewport = "desktop"
)

// Viewports lists all recognized viewports.
var Viewports = []Viewport{ViewportMobile, ViewportTablet, ViewportDesktop}

// Valid reports whether v is a recognized viewport.
func (v Viewport) Valid() bool {
	switch v {
	case ViewportMobile, ViewportTablet, ViewportDesktop:
		return true
	}
	return false
}

// Grid constants.
const (
	// Columns is the number of grid units per row.
	Columns = 12

	// Full is the span of a full-width slot, and the fallback for values
	// that cannot be normalized.
	Full = Columns
)

// fallbackOrder is the viewport preference used when the active viewport's
// value is itself a nested breakpoint object (or absent from a map).
var fallbackOrder = []Viewport{ViewportDesktop, ViewportTablet, ViewportMobile}

// Span holds a column-span value in any of its historical encodings.
// The zero value resolves to full width for every viewport.
//
// Span round-trips through JSON and BSON without loss: the raw encoded form
// is preserved, not the normalized integer.
type Span struct {
	raw any
}

// Of returns a Span storing a bare number.
func Of(n int) Span {
	return Span{raw: float64(n)}
}

// PerViewport returns a Span storing an explicit per-viewport mapping.
func PerViewport(values map[Viewport]int) Span {
	m := make(map[string]any, len(values))
	for v, n := range values {
		m[string(v)] = float64(n)
	}
	return Span{raw: m}
}

// FromRaw returns a Span wrapping an already-decoded value of any encoding.
func FromRaw(raw any) Span {
	return Span{raw: raw}
}

// Raw returns the stored encoded value. Callers must not mutate it.
func (s Span) Raw() any {
	return s.raw
}

// IsZero reports whether the span has no stored value.
func (s Span) IsZero() bool {
	return s.raw == nil
}

// Resolve returns the effective integer span (1–12) for the given viewport.
// It never fails; unusable values resolve to [Full].
func (s Span) Resolve(v Viewport) int {
	return normalize(s.raw, v)
}

// With returns a copy of s with the given viewport's value set to n,
// preserving every other viewport's effective value. The result is always
// stored as an explicit per-viewport mapping so later writes stay cheap.
func (s Span) With(v Viewport, n int) Span {
	m := make(map[string]any, len(Viewports))
	for _, each := range Viewports {
		m[string(each)] = float64(s.Resolve(each))
	}
	m[string(v)] = float64(bound(n))
	return Span{raw: m}
}

// MarshalJSON writes the raw encoded value unchanged.
func (s Span) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.raw)
}

// UnmarshalJSON accepts any of the four encodings without validation.
// Malformed values are kept verbatim and handled at resolution time.
func (s *Span) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// MarshalBSONValue writes the raw encoded value unchanged.
func (s Span) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s.raw == nil {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(s.raw)
}

// UnmarshalBSONValue accepts any of the four encodings without validation.
func (s *Span) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var raw any
	if err := bson.UnmarshalValue(t, data, &raw); err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// =============================================================================
// Normalization
// =============================================================================

// classDigits extracts the trailing integer of a responsive class-like
// string, e.g. "col-span-6" or "w-6".
var classDigits = regexp.MustCompile(`(\d+)\s*$`)

// normalize resolves a raw encoded value to an integer span for viewport v.
func normalize(raw any, v Viewport) int {
	switch val := raw.(type) {
	case nil:
		return Full
	case int:
		return clamp(val)
	case int32:
		return clamp(int(val))
	case int64:
		return clamp(int(val))
	case float64:
		return clampFloat(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Full
		}
		return clampFloat(f)
	case string:
		return fromClass(val)
	case map[string]any:
		return fromViewportMap(val, v)
	case bson.M:
		return fromViewportMap(map[string]any(val), v)
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = e.Value
		}
		return fromViewportMap(m, v)
	}
	return Full
}

// fromViewportMap resolves a viewport-keyed object. The active viewport's
// entry wins; a missing or nested entry falls back desktop → tablet → mobile.
func fromViewportMap(m map[string]any, v Viewport) int {
	entry, ok := m[string(v)]
	if ok {
		if n, usable := scalar(entry, v); usable {
			return n
		}
		// The active viewport's value is itself a nested breakpoint
		// object: resolve inside it with the fixed preference order.
		if nested, isMap := asMap(entry); isMap {
			return fromNested(nested)
		}
	}
	// Active viewport absent or unusable: try the other viewports.
	for _, fb := range fallbackOrder {
		if fb == v {
			continue
		}
		if entry, ok := m[string(fb)]; ok {
			if n, usable := scalar(entry, fb); usable {
				return n
			}
			if nested, isMap := asMap(entry); isMap {
				return fromNested(nested)
			}
		}
	}
	return Full
}

// fromNested resolves a legacy {mobile, tablet, desktop} object using the
// desktop → tablet → mobile preference order.
func fromNested(m map[string]any) int {
	for _, fb := range fallbackOrder {
		if entry, ok := m[string(fb)]; ok {
			if n, usable := scalar(entry, fb); usable {
				return n
			}
		}
	}
	return Full
}

// scalar resolves a number or class string. The second return reports
// whether a usable integer was recovered.
func scalar(entry any, v Viewport) (int, bool) {
	switch val := entry.(type) {
	case int:
		return clamp(val), true
	case int32:
		return clamp(int(val)), true
	case int64:
		return clamp(int(val)), true
	case float64:
		return clampFloat(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return clampFloat(f), true
	case string:
		return fromClass(val), true
	}
	return 0, false
}

// fromClass parses the trailing integer of a responsive class string.
// Strings without a usable integer resolve to full width.
func fromClass(s string) int {
	match := classDigits.FindStringSubmatch(s)
	if match == nil {
		return Full
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return Full
	}
	return clamp(n)
}

func clampFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Full
	}
	return clamp(int(math.Round(f)))
}

// clamp bounds a span to [1, Columns]. Non-positive values are treated as
// unusable and resolve to full width.
func clamp(n int) int {
	if n < 1 {
		return Full
	}
	if n > Columns {
		return Columns
	}
	return n
}

// bound clamps an explicitly-set span to [1, Columns]. Unlike clamp it
// treats non-positive input as 1: a caller writing a value always means a
// width, never a missing value.
func bound(n int) int {
	if n < 1 {
		return 1
	}
	if n > Columns {
		return Columns
	}
	return n
}

func asMap(entry any) (map[string]any, bool) {
	switch val := entry.(type) {
	case map[string]any:
		return val, true
	case bson.M:
		return map[string]any(val), true
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}
