package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "reimport.dev/pkg/reimport/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return NewSimpleUI(cmd), &out, &errOut
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	tests := []struct {
		name         string
		result       m.RunResult
		limit        int
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "nothing changed",
			result:       m.RunResult{Outcomes: []m.FileOutcome{{Path: "src/a.tsx"}}},
			wantContains: []string{"Files changed: 0", "Scanned 1 file(s): 0 changed, 1 unchanged, 0 failed"},
			wantMissing:  []string{"Files with errors"},
		},
		{
			name: "changed and failed",
			result: m.RunResult{Outcomes: []m.FileOutcome{
				{Path: "src/a.tsx", Status: m.StatusChanged},
				{Path: "src/b.tsx", Status: m.StatusFailed, Err: errors.New("backup already exists")},
				{Path: "src/c.tsx", Status: m.StatusIncomplete, Backup: "src/c.tsx.bak", Err: errors.New("disk full")},
			}},
			wantContains: []string{
				"Files changed: 1\n- src/a.tsx\n",
				"Files with errors: 2 (1 backed up but not rewritten)",
				"! src/b.tsx: backup already exists",
				"!! src/c.tsx: backed up to src/c.tsx.bak but not rewritten: disk full",
			},
		},
		{
			name:         "truncated list",
			result:       m.RunResult{Outcomes: changedOutcomes(4)},
			limit:        2,
			wantContains: []string{"Files changed: 4", "- src/f01.tsx", "... and 2 more"},
			wantMissing:  []string{"- src/f02.tsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, out, _ := newTestSimpleUI()

			if err := ui.DisplaySummary(context.Background(), tt.result, tt.limit); err != nil {
				t.Fatalf("DisplaySummary() error = %v", err)
			}

			output := out.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}

			for _, unwanted := range tt.wantMissing {
				if strings.Contains(output, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestSimpleUI_DisplayFileOutcome_OnlyErrors(t *testing.T) {
	ui, out, errOut := newTestSimpleUI()
	ctx := context.Background()

	ui.DisplayFileOutcome(ctx, m.FileOutcome{Path: "src/a.tsx", Status: m.StatusChanged})
	ui.DisplayFileOutcome(ctx, m.FileOutcome{Path: "src/b.tsx", Status: m.StatusUnchanged})
	ui.DisplayFileOutcome(ctx, m.FileOutcome{Path: "src/c.tsx", Status: m.StatusFailed, Err: errors.New("boom")})

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}

	if got, want := errOut.String(), "error: src/c.tsx: boom\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestSimpleUI_DisplayScan(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	ui.DisplayScan(context.Background(), "src", 3)

	if got, want := out.String(), "Scanning 3 file(s) under src\n"; got != want {
		t.Errorf("DisplayScan() = %q, want %q", got, want)
	}
}

func TestSimpleUI_DisplayPlan(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	previews := []m.Preview{{
		Path:  "src/App.tsx",
		Rules: []string{"ChatBot", "ChatInput"},
		Diff:  "--- a/App.tsx\n+++ b/App.tsx\n@@ -1 +1 @@\n-old\n+new\n",
	}}

	if err := ui.DisplayPlan(context.Background(), previews); err != nil {
		t.Fatalf("DisplayPlan() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"# src/App.tsx (rules: ChatBot, ChatInput)\n", "-old\n+new\n", "1 file(s) would change\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayRules(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	rules := []m.Rule{
		{Identifier: "ChatBot", Target: "components/chat/ChatBot"},
		{Identifier: "LoginForm", Target: "components/auth/LoginForm"},
	}

	if err := ui.DisplayRules(context.Background(), rules); err != nil {
		t.Fatalf("DisplayRules() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"Identifier", "Import Path", "ChatBot", "components/auth/LoginForm", "Total Rules 2"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if strings.Index(output, "ChatBot") > strings.Index(output, "LoginForm") {
		t.Errorf("rules should keep table order:\n%s", output)
	}
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, out, _ := newTestSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ui.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	if err := ui.DisplaySummary(ctx, m.RunResult{}, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("DisplaySummary() error = %v, want context.Canceled", err)
	}

	if out.Len() != 0 {
		t.Errorf("nothing should be written, got %q", out.String())
	}
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}

	if _, ok := NewUI(cmd, false).(*SimpleUI); !ok {
		t.Error("NewUI(false) should return a SimpleUI")
	}

	if _, ok := NewUI(cmd, true).(*TUI); !ok {
		t.Error("NewUI(true) should return a TUI")
	}

	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
