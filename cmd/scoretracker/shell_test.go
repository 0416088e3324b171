package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"score-tracker/internal/app"
	"score-tracker/internal/persistence"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"  add 1   2 ", []string{"add", "1", "2"}, false},
		{`select "Road Run" 5k`, []string{"select", "Road Run", "5k"}, false},
		{`cat add 'it''s'`, []string{"cat", "add", "its"}, false},
		{`cat add ""`, []string{"cat", "add", ""}, false},
		{`cat add "open`, nil, true},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitArgs(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	if i, err := parsePosition("#3"); err != nil || i != 2 {
		t.Errorf("parsePosition(#3) = %d, %v", i, err)
	}
	if i, err := parsePosition(" 1 "); err != nil || i != 0 {
		t.Errorf("parsePosition(1) = %d, %v", i, err)
	}
	if _, err := parsePosition("#x"); err == nil {
		t.Error("parsePosition(#x) succeeded")
	}
}

func TestShellSession(t *testing.T) {
	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	files := persistence.NewFileStore(filepath.Join(t.TempDir(), "scores.json"), quiet)
	a := app.New(ctx, files, app.WithLogger(quiet))

	script := strings.Join([]string{
		`cat add "Road Run"`,
		`item add "Road Run" 5k 1`,
		`select "Road Run" 5k`,
		`add 10 20 30`,
		`add -5`,
		`add 40 x`,
		`click 1.5`,
		`rm #2`,
		`y`,
		`view`,
		`cat rm "Road Run"`,
		`n`,
		`bogus`,
		`quit`,
	}, "\n")

	var out bytes.Buffer
	if err := newShell(a, strings.NewReader(script), &out).run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	transcript := out.String()

	for _, want := range []string{
		"selected #2: 20",
		"score must not be negative",
		"score must be an integer",
		"delete #2: 20? [y/N]",
		"cancelled",
		`unknown command "bogus"`,
		"[Road Run/5k]> ",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}

	reloaded, _ := files.Load(ctx)
	it, err := reloaded.Item("Road Run", "5k")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(it.Values(), []int64{10, 30}) {
		t.Errorf("persisted scores = %v, want [10 30]", it.Values())
	}
	if it.DecayRate != 1 {
		t.Errorf("decay = %v", it.DecayRate)
	}
}

func TestShellEditItem(t *testing.T) {
	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	files := persistence.NewFileStore(filepath.Join(t.TempDir(), "scores.json"), quiet)
	a := app.New(ctx, files, app.WithLogger(quiet))

	script := strings.Join([]string{
		"cat add A",
		"cat add B",
		"item add A X",
		"item add B X",
		"cat add C",
		"select A X",
		// B already has an X, so this move is rejected
		"item edit A X",
		"B",
		"Y",
		"0.5",
		"item edit A X",
		"C",
		"Y",
		"",
	}, "\n")

	var out bytes.Buffer
	if err := newShell(a, strings.NewReader(script), &out).run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "name already in use") {
		t.Errorf("collision not reported:\n%s", out.String())
	}
	if a.Selection.Category != "C" || a.Selection.Item != "Y" {
		t.Errorf("selection = %+v", a.Selection)
	}
	if r, _ := a.Store().ItemDecay("C", "Y"); r != 0.9 {
		t.Errorf("decay = %v, want unchanged 0.9", r)
	}
	if a.Store().HasItem("A", "X") {
		t.Error("A/X still present")
	}
	if a.Store().HasItem("B", "Y") {
		t.Error("failed edit left B/Y behind")
	}
	if r, _ := a.Store().ItemDecay("B", "X"); r != 0.9 {
		t.Errorf("B/X decay = %v, want untouched 0.9", r)
	}
}
