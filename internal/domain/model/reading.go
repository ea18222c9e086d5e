// Package model contains the raw input records consumed by the scoring engine.
//
// Records are plain values supplied by the data-acquisition layer. The engine
// never mutates them and keeps no reference after a computation returns.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source tags where a metric reading came from.
type Source int

// Known reading sources. The zero value means no reading exists.
const (
	SourceUnavailable Source = iota
	SourceRing
	SourceManual
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceRing:
		return "ring"
	case SourceManual:
		return "manual"
	default:
		return "unavailable"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(b []byte) error {
	src, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = src
	return nil
}

// ParseSource converts a wire name into a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ring":
		return SourceRing, nil
	case "manual":
		return SourceManual, nil
	case "", "unavailable":
		return SourceUnavailable, nil
	default:
		return SourceUnavailable, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// Reading is a single metric value together with its provenance. A reading
// whose Source is SourceUnavailable carries no value.
type Reading struct {
	Value  float64
	Source Source
}

// Ring returns a ring-derived reading.
func Ring(v float64) Reading { return Reading{Value: v, Source: SourceRing} }

// Manual returns a manually logged reading.
func Manual(v float64) Reading { return Reading{Value: v, Source: SourceManual} }

// Unavailable returns an empty reading.
func Unavailable() Reading { return Reading{} }

// FromPtr builds a reading from an optional value. A nil pointer yields an
// unavailable reading.
func FromPtr(src Source, v *float64) Reading {
	if v == nil || src == SourceUnavailable {
		return Reading{}
	}
	return Reading{Value: *v, Source: src}
}

// Available reports whether the reading carries a value.
func (r Reading) Available() bool {
	return r.Source != SourceUnavailable
}

// Prefer returns the first available reading in precedence order. Callers
// list ring-derived readings before manual ones.
func Prefer(readings ...Reading) Reading {
	for _, r := range readings {
		if r.Available() {
			return r
		}
	}
	return Reading{}
}

type readingJSON struct {
	Value  *float64 `json:"value"`
	Source Source   `json:"source"`
}

// readingInput tells an omitted source apart from an explicit one.
type readingInput struct {
	Value  *float64 `json:"value"`
	Source *Source  `json:"source"`
}

// MarshalJSON encodes an unavailable reading with a null value.
func (r Reading) MarshalJSON() ([]byte, error) {
	out := readingJSON{Source: r.Source}
	if r.Available() {
		v := r.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either {"value":..,"source":..} or a bare number,
// which is treated as a ring reading. An object without a source is a ring
// reading; an explicit "unavailable" source discards the value.
func (r *Reading) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*r = Reading{}
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("decode reading: %w", err)
		}
		*r = Ring(v)
		return nil
	}
	var in readingInput
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("decode reading: %w", err)
	}
	src := SourceRing
	if in.Source != nil {
		src = *in.Source
	}
	if in.Value == nil || src == SourceUnavailable {
		*r = Reading{}
		return nil
	}
	*r = Reading{Value: *in.Value, Source: src}
	return nil
}
