// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emer/leabrasim/errs"
	"github.com/pkg/errors"
)

// Value is a parsed parameter value, along with the selector that set it.
type Value struct {
	Kind  Kinds
	Str   string
	Bool  bool
	Int   int
	Float float32

	// Rank is the specificity of the selector that set this value.
	Rank SelKinds

	// Sel is the selector string that set this value.
	Sel string
}

// Values is the resolved set of parameter values for one object,
// keyed by full parameter path.
type Values map[string]Value

// Resolve returns the final parameter values that the given sheets assign
// to obj. Sheets are considered in order, and within each sheet the
// selectors in order. A matching selector's value for a path replaces
// an earlier one only if its specificity rank is at least as high,
// so that #Name beats .Class beats Type regardless of ordering.
//
// Every path of every selector is checked against the schema first,
// whether or not the selector matches obj, so a misspelled path is never
// silently skipped. Params whose type prefix differs from obj.StyleType()
// are then skipped, as with a .Back class selector carrying Path params
// that also matches a layer tagged Back. Unknown types, unknown paths and
// unparseable values are Config errors. Neither the sheets nor obj are modified.
func Resolve(sheets []*Sheet, obj Styler, sch *Schema) (Values, error) {
	vals := make(Values)
	otyp := obj.StyleType()
	for _, sh := range sheets {
		if sh == nil {
			continue
		}
		for _, sl := range *sh {
			sel, err := ParseSel(sl.Sel)
			if err != nil {
				return nil, err
			}
			if sel.Kind == TypeSel && !sch.HasType(sel.Operand) {
				return nil, errs.Configf("params: selector %q names unknown type %q (known: %v)", sl.Sel, sel.Operand, sch.Types())
			}
			pvals := make(map[string]Value, len(sl.Params))
			for _, path := range sl.Paths() {
				v, err := sch.Parse(path, sl.Params[path])
				if err != nil {
					return nil, errors.Wrapf(err, "params: selector %q", sl.Sel)
				}
				pvals[path] = v
			}
			if !sel.Matches(obj) {
				continue
			}
			for _, path := range sl.Paths() {
				typ, _ := SplitPath(path)
				if typ != otyp {
					continue
				}
				v := pvals[path]
				if cur, has := vals[path]; has && sel.Kind < cur.Rank {
					continue
				}
				v.Rank = sel.Kind
				v.Sel = sl.Sel
				vals[path] = v
			}
		}
	}
	return vals, nil
}

// Apply writes the values into the matching fields of an object whose
// style type is typ. All paths are checked before anything is written.
func (vs Values) Apply(typ string, flds Fields) error {
	for _, path := range vs.Paths() {
		pt, rest := SplitPath(path)
		if pt != typ {
			return errs.Configf("params: value %q does not apply to type %q", path, typ)
		}
		if _, ok := flds[rest]; !ok {
			return errs.Configf("params: no field for parameter path %q", path)
		}
	}
	for path, v := range vs {
		_, rest := SplitPath(path)
		flds[rest].Set(v)
	}
	return nil
}

// Paths returns the resolved paths in sorted order.
func (vs Values) Paths() []string {
	ps := make([]string, 0, len(vs))
	for p := range vs {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}

// Equal returns true if both value sets assign the same values to the same paths.
func (vs Values) Equal(os Values) bool {
	if len(vs) != len(os) {
		return false
	}
	for p, v := range vs {
		ov, ok := os[p]
		if !ok || ov.Str != v.Str || ov.Rank != v.Rank || ov.Sel != v.Sel {
			return false
		}
	}
	return true
}

// String returns one line per path, sorted: path = value (selector).
func (vs Values) String() string {
	var b strings.Builder
	for _, p := range vs.Paths() {
		v := vs[p]
		fmt.Fprintf(&b, "%s = %s\t(%s)\n", p, v.Str, v.Sel)
	}
	return b.String()
}
