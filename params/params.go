// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"sort"
	"strings"

	"github.com/emer/leabrasim/errs"
	"github.com/pkg/errors"
)

// Params is a name-value map for parameter values.
// The name is a dot-separated path whose first element is the target
// style type, e.g., Path.Learn.Lrate or Layer.Inhib.Layer.Gi.
// Values are strings, parsed according to the Schema kind of the path.
type Params map[string]string

// Sel specifies a selector for the scope of application of a set of
// parameters, using standard css selector syntax (. prefix = class,
// # prefix = name, and no prefix = type)
type Sel struct {
	Sel    string `yaml:"sel" desc:"selector for what to apply the parameters to, using standard css selector syntax: .Example applies to anything with a Class tag of 'Example', #Example applies to anything with a Name of 'Example', and Example with no prefix applies to anything of type 'Example'"`
	Desc   string `yaml:"desc,omitempty" desc:"description of these parameter values -- what effect do they have?  what range was explored?"`
	Params Params `yaml:"params" desc:"parameter values to apply to whatever matches the selector"`
}

// Sheet is a CSS-like style-sheet of params.Sel values, each of which represents
// a different set of specific parameter values applied according to the Sel selector:
// .Class #Name or Type.
//
// Sels are considered in list order, and a later Sel can override an earlier one
// for the same path only if its selector is at least as specific
// (Name > Class > Type), so Name selectors always win over Class selectors,
// which always win over Type selectors.
type Sheet []*Sel

// Validate checks every selector and parameter path in the sheet against
// the schema, returning a Config error for the first problem found.
func (sh *Sheet) Validate(sch *Schema) error {
	for _, sl := range *sh {
		sel, err := ParseSel(sl.Sel)
		if err != nil {
			return err
		}
		if sel.Kind == TypeSel && !sch.HasType(sel.Operand) {
			return errs.Configf("params: selector %q names unknown type %q (known: %v)", sl.Sel, sel.Operand, sch.Types())
		}
		for _, path := range sl.Paths() {
			if _, _, err := sch.Lookup(path); err != nil {
				return err
			}
			if _, err := sch.Parse(path, sl.Params[path]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Paths returns the parameter paths of this selector in sorted order,
// so that parsing errors are reported deterministically.
func (sl *Sel) Paths() []string {
	ps := make([]string, 0, len(sl.Params))
	for p := range sl.Params {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}

// SelByName returns given selector within the Sheet, by Sel string.
// Returns nil if not found.
func (sh *Sheet) SelByName(sel string) *Sel {
	for _, sl := range *sh {
		if sl.Sel == sel {
			return sl
		}
	}
	return nil
}

// Sets is a collection of named Sheets, e.g., "Base" and any number of
// optional overlays ("NoMomentum", "DefaultInhib").
// A run selects an ordered list of names, applied in that order.
type Sets map[string]*Sheet

// Sheets returns the sheets for the given ordered selection of names.
// Returns a Config error if the selection is empty or any name is unknown.
func (ps Sets) Sheets(names ...string) ([]*Sheet, error) {
	if len(names) == 0 {
		return nil, errs.Configf("params: empty param set selection")
	}
	shs := make([]*Sheet, len(names))
	for i, nm := range names {
		sh, ok := ps[nm]
		if !ok {
			return nil, errs.Configf("params: param set %q not found (have: %s)", nm, strings.Join(ps.Names(), ", "))
		}
		shs[i] = sh
	}
	return shs, nil
}

// Names returns the sorted names of the sets.
func (ps Sets) Names() []string {
	nms := make([]string, 0, len(ps))
	for nm := range ps {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	return nms
}

// Validate validates every sheet against the schema.
func (ps Sets) Validate(sch *Schema) error {
	for _, nm := range ps.Names() {
		if err := ps[nm].Validate(sch); err != nil {
			return errors.Wrapf(err, "params: set %q", nm)
		}
	}
	return nil
}
