// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/emer/etable/etable"
	"github.com/emer/leabrasim/errs"
)

var ra25Shapes = map[string][]int{"Input": {5, 5}, "Output": {5, 5}}

// table builds a tab-separated table for one layer of the given declared
// shape, with the given rows of values.
func table(layer string, rows, cols int, data ...[]string) string {
	var b strings.Builder
	b.WriteString("_H:\t$Name")
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fmt.Fprintf(&b, "\t%%%s[2:%d,%d]", layer, r, c)
			if r == 0 && c == 0 {
				fmt.Fprintf(&b, "<2:%d,%d>", rows, cols)
			}
		}
	}
	b.WriteString("\n")
	for i, d := range data {
		fmt.Fprintf(&b, "_D:\ttrl%d\t%s\n", i, strings.Join(d, "\t"))
	}
	return b.String()
}

func vals(n int, v string) []string {
	s := make([]string, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestOpenTableEnv(t *testing.T) {
	ev, err := OpenTableEnv("testdata/random_5x5_25.tsv", ra25Shapes)
	if err != nil {
		t.Fatal(err)
	}
	if ev.NTrials() != 25 {
		t.Fatalf("NTrials: got %d want 25", ev.NTrials())
	}
	if ev.Name() != "random_5x5_25" {
		t.Errorf("Name: %s", ev.Name())
	}
	if len(ev.LayerNames) != 2 || ev.LayerNames[0] != "Input" || ev.LayerNames[1] != "Output" {
		t.Errorf("LayerNames: %v", ev.LayerNames)
	}
	for ti := range ev.Trials {
		trl := &ev.Trials[ti]
		for _, lnm := range ev.LayerNames {
			pat := trl.Patterns[lnm]
			if pat.Dim(0) != 5 || pat.Dim(1) != 5 {
				t.Fatalf("%s %s shape: %v", trl.Name, lnm, pat.Shp)
			}
			var sum float32
			for _, v := range pat.Values {
				sum += v
			}
			if sum != 6 {
				t.Errorf("%s %s: want 6 active, got %v", trl.Name, lnm, sum)
			}
		}
	}
	if err := ev.Validate(); err != nil {
		t.Error(err)
	}
}

func TestNextTrialReset(t *testing.T) {
	src := table("Input", 1, 2, []string{"1", "0"}, []string{"0", "1"}, []string{"1", "1"})
	ev, err := NewTableEnv("small", strings.NewReader(src), etable.Tab, map[string][]int{"Input": {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	for epc := 0; epc < 2; epc++ {
		ev.Reset()
		n := 0
		for {
			trl, ok := ev.NextTrial()
			if !ok {
				break
			}
			if want := fmt.Sprintf("trl%d", n); trl.Name != want {
				t.Errorf("epoch %d trial %d: got %s want %s", epc, n, trl.Name, want)
			}
			n++
		}
		if n != 3 {
			t.Errorf("epoch %d: got %d trials want 3", epc, n)
		}
		if _, ok := ev.NextTrial(); ok {
			t.Errorf("NextTrial past end must stay exhausted")
		}
	}
	ev.Reset()
	ev.NextTrial()
	trl, _ := ev.NextTrial()
	if trl.Patterns["Input"].Values[1] != 1 || ev.State("Input") != trl.Patterns["Input"] {
		t.Errorf("second trial pattern wrong: %v", trl.Patterns["Input"].Values)
	}
}

func TestShuffle(t *testing.T) {
	ev, err := OpenTableEnv("testdata/random_5x5_25.tsv", ra25Shapes)
	if err != nil {
		t.Fatal(err)
	}
	ev.Shuffle = true
	ev.Reset()
	seen := map[string]bool{}
	for {
		trl, ok := ev.NextTrial()
		if !ok {
			break
		}
		seen[trl.Name] = true
	}
	if len(seen) != 25 {
		t.Errorf("shuffled epoch must present each trial once, got %d distinct", len(seen))
	}
}

func TestCSV(t *testing.T) {
	src := strings.ReplaceAll(table("Input", 1, 2, []string{"0.5", "0.25"}), "\t", ",")
	ev, err := NewTableEnv("csv", strings.NewReader(src), etable.Comma, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ev.NTrials() != 1 || ev.Trials[0].Patterns["Input"].Values[1] != 0.25 {
		t.Errorf("csv parse wrong: %+v", ev.Trials)
	}
}

func TestWidthMismatch(t *testing.T) {
	// pattern declared 5x4 for a 5x5 layer
	src := table("Input", 5, 4, vals(20, "0"))
	_, err := NewTableEnv("narrow", strings.NewReader(src), etable.Tab, ra25Shapes)
	if !errors.Is(err, errs.Data) {
		t.Fatalf("want Data error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Input") || !strings.Contains(err.Error(), "[5 4]") {
		t.Errorf("error should name the layer and shape: %v", err)
	}
}

func TestDataErrors(t *testing.T) {
	shp := map[string][]int{"Input": {2, 2}}
	good := table("Input", 2, 2)
	cases := map[string]string{
		"short row":   table("Input", 2, 2, vals(3, "0")),
		"long row":    table("Input", 2, 2, vals(5, "0")),
		"nan":         table("Input", 2, 2, []string{"0", "NaN", "0", "1"}),
		"inf":         table("Input", 2, 2, []string{"0", "1", "+Inf", "1"}),
		"empty cell":  table("Input", 2, 2, []string{"0", "1", "", "1"}),
		"unknown":     table("Hidden", 2, 2, vals(4, "0")),
		"no name":     strings.Replace(good, "$Name", "$Label", 1),
		"int pattern": strings.ReplaceAll(good, "%Input", "|Input"),
		"empty":       "",
	}
	for nm, src := range cases {
		ev, err := NewTableEnv(nm, strings.NewReader(src), etable.Tab, shp)
		if !errors.Is(err, errs.Data) {
			t.Errorf("%s: want Data error, got %v", nm, err)
		}
		if ev != nil {
			t.Errorf("%s: nothing may be returned on failure", nm)
		}
	}
	// the bad row is on line 3
	src := table("Input", 2, 2, vals(4, "0"), vals(3, "0"))
	_, err := NewTableEnv("line", strings.NewReader(src), etable.Tab, shp)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("want line 3 in error, got %v", err)
	}
}

func TestFromTable(t *testing.T) {
	ev, err := OpenTableEnv("testdata/random_5x5_25.tsv", ra25Shapes)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Table.Rows != 25 || ev.Table.ColIdx("Input") < 0 {
		t.Fatalf("table not kept: %d rows", ev.Table.Rows)
	}
	// patterns are copies: the trial owns its values
	ev.Table.Cols[ev.Table.ColIdx("Input")].SetFloat1D(0, 7)
	if ev.Trials[0].Patterns["Input"].Values[0] == 7 {
		t.Errorf("trial pattern must not alias the table column")
	}
	if _, err := OpenTableEnv("testdata/missing.tsv", ra25Shapes); err == nil || errors.Is(err, errs.Data) {
		t.Errorf("missing file: want a plain open error, got %v", err)
	}
}
