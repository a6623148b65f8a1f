// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"math"
	"sort"
	"strings"

	"github.com/emer/leabrasim/errs"
	"github.com/goki/ki/kit"
)

// Kinds are the scalar kinds a parameter value can take.
type Kinds int32

//go:generate stringer -type=Kinds

var KiT_Kinds = kit.Enums.AddEnum(KindsN, kit.NotBitFlag, nil)

func (ev Kinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Kinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	Bool Kinds = iota
	Int
	Float

	KindsN
)

// Field binds a parameter path (without the type prefix) to the
// storage that receives its value. Exactly one pointer is non-nil,
// matching Kind.
type Field struct {
	Kind  Kinds
	Bool  *bool
	Int   *int
	Float *float32
}

// BoolField returns a Field bound to a bool.
func BoolField(p *bool) Field { return Field{Kind: Bool, Bool: p} }

// IntField returns a Field bound to an int.
func IntField(p *int) Field { return Field{Kind: Int, Int: p} }

// FloatField returns a Field bound to a float32.
func FloatField(p *float32) Field { return Field{Kind: Float, Float: p} }

// Set writes the value into the bound storage.
func (fd Field) Set(v Value) {
	switch fd.Kind {
	case Bool:
		*fd.Bool = v.Bool
	case Int:
		*fd.Int = v.Int
	case Float:
		*fd.Float = v.Float
	}
}

// Fields is the table of settable parameters of one object, keyed by
// the path below the type prefix, e.g., Inhib.Layer.Gi.
type Fields map[string]Field

// Schema is the whitelist of recognized parameter paths per style type.
// It is normally built from the Fields tables of the objects themselves
// so that it always matches what can actually be set.
type Schema struct {
	types map[string]map[string]Kinds
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{types: make(map[string]map[string]Kinds)}
}

// AddType records the paths and kinds of the given fields under the style type.
// Calling it again for the same type merges the fields.
func (sc *Schema) AddType(typ string, flds Fields) {
	tm, ok := sc.types[typ]
	if !ok {
		tm = make(map[string]Kinds, len(flds))
		sc.types[typ] = tm
	}
	for p, fd := range flds {
		tm[p] = fd.Kind
	}
}

// HasType returns true if the style type is known.
func (sc *Schema) HasType(typ string) bool {
	_, ok := sc.types[typ]
	return ok
}

// Types returns the known style types in sorted order.
func (sc *Schema) Types() []string {
	ts := make([]string, 0, len(sc.types))
	for t := range sc.types {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}

// Paths returns the full parameter paths known for the type, sorted.
func (sc *Schema) Paths(typ string) []string {
	tm := sc.types[typ]
	ps := make([]string, 0, len(tm))
	for p := range tm {
		ps = append(ps, typ+"."+p)
	}
	sort.Strings(ps)
	return ps
}

// SplitPath splits a full parameter path into its type prefix and the rest.
func SplitPath(path string) (typ, rest string) {
	i := strings.IndexByte(path, '.')
	if i < 0 {
		return path, ""
	}
	return path[:i], path[i+1:]
}

// Lookup checks that path is recognized, returning its type prefix and kind.
// An unknown type or path is a Config error.
func (sc *Schema) Lookup(path string) (string, Kinds, error) {
	typ, rest := SplitPath(path)
	tm, ok := sc.types[typ]
	if !ok {
		return typ, 0, errs.Configf("params: path %q has unknown type %q (known: %v)", path, typ, sc.Types())
	}
	if rest == "" {
		return typ, 0, errs.Configf("params: path %q has no field", path)
	}
	k, ok := tm[rest]
	if !ok {
		return typ, 0, errs.Configf("params: unknown parameter path %q", path)
	}
	return typ, k, nil
}

// Parse looks up path and parses str according to its kind.
func (sc *Schema) Parse(path, str string) (Value, error) {
	_, k, err := sc.Lookup(path)
	if err != nil {
		return Value{}, err
	}
	return ParseValue(k, path, str)
}

// ParseValue parses str as a value of the given kind.
func ParseValue(k Kinds, path, str string) (Value, error) {
	v := Value{Kind: k, Str: strings.TrimSpace(str)}
	switch k {
	case Bool:
		b, ok := kit.ToBool(v.Str)
		if !ok || v.Str == "" {
			return v, errs.Configf("params: %s: %q is not a bool", path, str)
		}
		v.Bool = b
	case Int:
		i, ok := kit.ToInt(v.Str)
		if !ok || v.Str == "" {
			return v, errs.Configf("params: %s: %q is not an int", path, str)
		}
		v.Int = int(i)
	case Float:
		f, ok := kit.ToFloat(v.Str)
		if !ok || v.Str == "" || math.IsNaN(f) || math.IsInf(f, 0) {
			return v, errs.Configf("params: %s: %q is not a finite number", path, str)
		}
		v.Float = float32(f)
	}
	return v, nil
}
