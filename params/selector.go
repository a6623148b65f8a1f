// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"strings"

	"github.com/emer/leabrasim/errs"
	"github.com/goki/ki/kit"
)

// Styler is implemented by objects that can be targeted by a Sel.
type Styler interface {
	// StyleType returns the type-category name used for bare selectors
	// and as the first element of parameter paths (e.g., Layer or Path).
	StyleType() string

	// StyleClass returns the space-separated list of class tags,
	// without the . prefix.
	StyleClass() string

	// StyleName returns the unique name of this object, without the # prefix.
	StyleName() string
}

// SelKinds are the kinds of selector, in increasing order of specificity.
// The integer value is the specificity rank used in resolution.
type SelKinds int32

//go:generate stringer -type=SelKinds

var KiT_SelKinds = kit.Enums.AddEnum(SelKindsN, kit.NotBitFlag, nil)

func (ev SelKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SelKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The selector kinds
const (
	// TypeSel matches the StyleType of the object (no prefix)
	TypeSel SelKinds = iota

	// ClassSel matches any of the StyleClass tags (. prefix)
	ClassSel

	// NameSel matches the StyleName exactly (# prefix)
	NameSel

	SelKindsN
)

// Selector is a parsed Sel string.
type Selector struct {
	Kind    SelKinds
	Operand string
}

// ParseSel parses a selector string: bare identifier = type,
// leading . = class, leading # = exact name.
func ParseSel(sel string) (Selector, error) {
	var sl Selector
	op := sel
	switch {
	case strings.HasPrefix(sel, "."):
		sl.Kind = ClassSel
		op = sel[1:]
	case strings.HasPrefix(sel, "#"):
		sl.Kind = NameSel
		op = sel[1:]
	default:
		sl.Kind = TypeSel
	}
	if op == "" {
		return sl, errs.Configf("params: empty selector %q", sel)
	}
	for _, r := range op {
		if !validSelRune(r) {
			return sl, errs.Configf("params: invalid character %q in selector %q", r, sel)
		}
	}
	sl.Operand = op
	return sl, nil
}

func validSelRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// Matches returns true if the selector applies to the given object.
func (sl Selector) Matches(obj Styler) bool {
	switch sl.Kind {
	case TypeSel:
		return obj.StyleType() == sl.Operand
	case ClassSel:
		return ClassMatch(sl.Operand, obj.StyleClass())
	case NameSel:
		return obj.StyleName() == sl.Operand
	}
	return false
}

// ClassMatch returns true if cls is one of the space-separated tags in classes.
func ClassMatch(cls, classes string) bool {
	for _, c := range strings.Fields(classes) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass adds a class tag to a space-separated list, if not already present.
func AddClass(classes, cls string) string {
	if ClassMatch(cls, classes) {
		return classes
	}
	if classes == "" {
		return cls
	}
	return classes + " " + cls
}
