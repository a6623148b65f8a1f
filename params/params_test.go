// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"errors"
	"strings"
	"testing"

	"github.com/emer/leabrasim/errs"
)

type testObj struct {
	typ, class, name string
	gi               float32
	on               bool
	n                int
}

func (to *testObj) StyleType() string  { return to.typ }
func (to *testObj) StyleClass() string { return to.class }
func (to *testObj) StyleName() string  { return to.name }

func (to *testObj) fields() Fields {
	return Fields{
		"Inhib.Layer.Gi": FloatField(&to.gi),
		"Learn.On":       BoolField(&to.on),
		"Learn.N":        IntField(&to.n),
	}
}

func testSchema() *Schema {
	sch := NewSchema()
	lo := &testObj{}
	sch.AddType("Layer", lo.fields())
	po := &testObj{}
	sch.AddType("Path", Fields{"WtScale.Rel": FloatField(&po.gi)})
	return sch
}

var testSets = Sets{
	"Base": {
		{Sel: "Layer", Desc: "layer defaults",
			Params: Params{
				"Layer.Inhib.Layer.Gi": "2.0",
				"Layer.Learn.N":        "3",
			}},
		{Sel: "#Output", Desc: "output inhib",
			Params: Params{
				"Layer.Inhib.Layer.Gi": "1.4",
			}},
		{Sel: ".Back", Desc: "applies to paths only",
			Params: Params{
				"Path.WtScale.Rel": "0.2",
			}},
	},
	"DefaultInhib": {
		{Sel: "#Output", Desc: "back to default",
			Params: Params{
				"Layer.Inhib.Layer.Gi": "1.8",
			}},
	},
	"ClassLate": {
		{Sel: ".Out", Desc: "class after name",
			Params: Params{
				"Layer.Inhib.Layer.Gi": "3.3",
				"Layer.Learn.On":       "true",
			}},
	},
}

func TestParseSel(t *testing.T) {
	sl, err := ParseSel("#Output")
	if err != nil || sl.Kind != NameSel || sl.Operand != "Output" {
		t.Errorf("name sel: %v %v", sl, err)
	}
	sl, err = ParseSel(".Back")
	if err != nil || sl.Kind != ClassSel || sl.Operand != "Back" {
		t.Errorf("class sel: %v %v", sl, err)
	}
	sl, err = ParseSel("Layer")
	if err != nil || sl.Kind != TypeSel || sl.Operand != "Layer" {
		t.Errorf("type sel: %v %v", sl, err)
	}
	for _, bad := range []string{"", ".", "#", "Lay er", "#a.b", ".x!"} {
		if _, err := ParseSel(bad); !errors.Is(err, errs.Config) {
			t.Errorf("ParseSel(%q) should be config error, got %v", bad, err)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	sch := testSchema()
	shs, err := testSets.Sheets("Base", "DefaultInhib")
	if err != nil {
		t.Fatal(err)
	}
	obj := &testObj{typ: "Layer", class: "Out", name: "Output"}
	v1, err := Resolve(shs, obj, sch)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := Resolve(shs, obj, sch)
	if err != nil {
		t.Fatal(err)
	}
	if !v1.Equal(v2) {
		t.Errorf("resolve not idempotent:\n%v\nvs\n%v", v1, v2)
	}
	if obj.gi != 0 {
		t.Errorf("resolve must not modify target")
	}
}

func TestResolveLaterSetWins(t *testing.T) {
	sch := testSchema()
	shs, _ := testSets.Sheets("Base", "DefaultInhib")
	obj := &testObj{typ: "Layer", name: "Output"}
	vals, err := Resolve(shs, obj, sch)
	if err != nil {
		t.Fatal(err)
	}
	if err := vals.Apply("Layer", obj.fields()); err != nil {
		t.Fatal(err)
	}
	if obj.gi != 1.8 {
		t.Errorf("Output Gi: got %v, want 1.8", obj.gi)
	}
	if obj.n != 3 {
		t.Errorf("Learn.N: got %v, want 3", obj.n)
	}

	hid := &testObj{typ: "Layer", name: "Hidden"}
	vals, _ = Resolve(shs, hid, sch)
	vals.Apply("Layer", hid.fields())
	if hid.gi != 2.0 {
		t.Errorf("Hidden Gi: got %v, want 2.0", hid.gi)
	}
}

func TestSpecificityLaw(t *testing.T) {
	sch := testSchema()
	obj := &testObj{typ: "Layer", class: "Out", name: "Output"}
	for _, order := range [][]string{{"Base", "ClassLate"}, {"ClassLate", "Base"}, {"ClassLate", "DefaultInhib"}} {
		shs, err := testSets.Sheets(order...)
		if err != nil {
			t.Fatal(err)
		}
		vals, err := Resolve(shs, obj, sch)
		if err != nil {
			t.Fatal(err)
		}
		v := vals["Layer.Inhib.Layer.Gi"]
		if v.Rank != NameSel {
			t.Errorf("%v: Gi set by %q, want name selector", order, v.Sel)
		}
		if !vals["Layer.Learn.On"].Bool {
			t.Errorf("%v: class value should apply where no name selector competes", order)
		}
	}
}

func TestResolveSkipsOtherType(t *testing.T) {
	sch := testSchema()
	shs, _ := testSets.Sheets("Base")
	obj := &testObj{typ: "Layer", class: "Back", name: "Hidden"}
	vals, err := Resolve(shs, obj, sch)
	if err != nil {
		t.Fatal(err)
	}
	if _, has := vals["Path.WtScale.Rel"]; has {
		t.Errorf("path param applied to layer")
	}
	pth := &testObj{typ: "Path", class: "Back", name: "OutputToHidden"}
	vals, err = Resolve(shs, pth, sch)
	if err != nil {
		t.Fatal(err)
	}
	if vals["Path.WtScale.Rel"].Float != 0.2 {
		t.Errorf("back path WtScale.Rel: got %v", vals["Path.WtScale.Rel"].Float)
	}
}

func TestResolveErrors(t *testing.T) {
	sch := testSchema()
	obj := &testObj{typ: "Layer", name: "Output"}
	bad := []*Sheet{
		{{Sel: "Layer", Params: Params{"Layer.Inhib.Layer.Gee": "1"}}},
		{{Sel: "Layer", Params: Params{"Neuron.Act": "1"}}},
		{{Sel: "Layer", Params: Params{"Layer.Inhib.Layer.Gi": "lots"}}},
		{{Sel: "Layer", Params: Params{"Layer.Learn.On": "maybe"}}},
		{{Sel: "Layer", Params: Params{"Layer.Learn.N": "1.5"}}},
		{{Sel: "", Params: Params{"Layer.Learn.N": "1"}}},
	}
	for i, sh := range bad {
		if _, err := Resolve([]*Sheet{sh}, obj, sch); !errors.Is(err, errs.Config) {
			t.Errorf("sheet %d: expected config error, got: %v", i, err)
		}
	}
	// misspelled paths in selectors that do not match obj
	unmatched := []*Sheet{
		{{Sel: "#Nope", Params: Params{"Layer.Inhib.Layer.Gee": "1"}}},
		{{Sel: "#Outputt", Params: Params{"Layer.Inhib.Layer.Gii": "1"}}},
		{{Sel: "Layer", Params: Params{"Path.WtScale.Rell": "1"}}},
		{{Sel: ".Back", Params: Params{"Path.WtScale.Rel": "x"}}},
		{{Sel: "Prjn", Params: Params{"Path.WtScale.Rel": "1"}}},
	}
	for i, sh := range unmatched {
		_, err := Resolve([]*Sheet{sh}, obj, sch)
		if !errors.Is(err, errs.Config) {
			t.Errorf("unmatched sheet %d: expected config error, got: %v", i, err)
			continue
		}
		if !strings.Contains(err.Error(), (*sh)[0].Sel) {
			t.Errorf("unmatched sheet %d: error should name the selector: %v", i, err)
		}
		if err := sh.Validate(sch); !errors.Is(err, errs.Config) {
			t.Errorf("unmatched sheet %d: Validate should flag it, got: %v", i, err)
		}
	}
}

func TestSetsSheets(t *testing.T) {
	if _, err := testSets.Sheets(); !errors.Is(err, errs.Config) {
		t.Errorf("empty selection: %v", err)
	}
	_, err := testSets.Sheets("Base", "Missing")
	if !errors.Is(err, errs.Config) {
		t.Errorf("unknown set: %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "Missing") {
		t.Errorf("error should name the set: %v", err)
	}
	if err := testSets.Validate(testSchema()); err != nil {
		t.Errorf("valid sets failed: %v", err)
	}
}

func TestValuesString(t *testing.T) {
	sch := testSchema()
	shs, _ := testSets.Sheets("Base")
	vals, _ := Resolve(shs, &testObj{typ: "Layer", name: "Output"}, sch)
	s := vals.String()
	if !strings.HasPrefix(s, "Layer.Inhib.Layer.Gi = 1.4") {
		t.Errorf("unexpected string:\n%s", s)
	}
}
