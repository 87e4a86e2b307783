package command

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigguard/internal/sighandler"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"sigguard"}, args...))
	return out.String(), err
}

func TestApp_Commands(t *testing.T) {
	app := App()
	want := map[string]bool{"run": false, "signals": false, "options": false, "version": false}
	for _, c := range app.Commands {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSignalsCommand_JSON(t *testing.T) {
	out, err := runApp(t, "signals", "-o", "json")
	if err != nil {
		t.Fatalf("signals error = %v", err)
	}

	var rows []sighandler.Row
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(rows) != len(sighandler.TrackedSignals()) {
		t.Errorf("got %d rows, want %d", len(rows), len(sighandler.TrackedSignals()))
	}
}

func TestSignalsCommand_Table(t *testing.T) {
	out, err := runApp(t, "signals")
	if err != nil {
		t.Fatalf("signals error = %v", err)
	}
	if !strings.HasPrefix(out, "SIGNAL") || !strings.Contains(out, "STRATEGY") {
		t.Errorf("unexpected table:\n%s", out)
	}

	out, err = runApp(t, "signals", "--no-headers")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "STRATEGY") {
		t.Errorf("headers not suppressed:\n%s", out)
	}
}

func TestSignalsCommand_BadFormat(t *testing.T) {
	if _, err := runApp(t, "signals", "-o", "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestVersionCommand_YAML(t *testing.T) {
	out, err := runApp(t, "version", "-o", "yaml")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	for _, key := range []string{"version:", "commit:", "go_version:"} {
		if !strings.Contains(out, key) {
			t.Errorf("output missing %q:\n%s", key, out)
		}
	}
}

func TestRunOptions(t *testing.T) {
	r := RunOptions()
	if len(r.Options()) != len(runOptions) {
		t.Fatalf("registry has %d options, want %d", len(r.Options()), len(runOptions))
	}
	o, ok := r.Lookup("fault-after")
	if !ok || o.Visible {
		t.Errorf("fault-after should be registered hidden, got %+v", o)
	}
	o, ok = r.Lookup("program")
	if !ok || !o.Visible {
		t.Errorf("program should be visible, got %+v", o)
	}
}

func TestOptionsCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantHidden bool
	}{
		{"visible only", []string{"options", "-o", "json"}, false},
		{"all", []string{"options", "--all", "-o", "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			if err != nil {
				t.Fatalf("options error = %v", err)
			}
			var opts []struct {
				Ident   string `json:"ident"`
				Kind    string `json:"kind"`
				Visible bool   `json:"visible"`
			}
			if err := json.Unmarshal([]byte(out), &opts); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}

			hidden := false
			for _, o := range opts {
				if o.Ident == "fault-after" {
					hidden = true
					if o.Kind != "int" {
						t.Errorf("fault-after kind = %q, want int", o.Kind)
					}
				}
			}
			if hidden != tt.wantHidden {
				t.Errorf("fault-after listed = %v, want %v", hidden, tt.wantHidden)
			}
		})
	}
}

func TestOptionsCommand_Lookup(t *testing.T) {
	out, err := runApp(t, "options", "program")
	if err != nil {
		t.Fatalf("options program error = %v", err)
	}
	if !strings.Contains(out, "Program name used in diagnostics") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runApp(t, "options", "nope"); err == nil {
		t.Error("expected an error for an unknown option")
	}
}

func TestOverridesFrom(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "nothing set",
			args: nil,
			want: map[string]any{},
		},
		{
			name: "program and tick",
			args: []string{"--program", "solver", "--tick", "2s"},
			want: map[string]any{"program.name": "solver", "workload.tick": "2s"},
		},
		{
			name: "metrics address enables metrics",
			args: []string{"--metrics-addr", "127.0.0.1:9000"},
			want: map[string]any{"metrics.addr": "127.0.0.1:9000", "metrics.enabled": true},
		},
		{
			name: "config path is not an override",
			args: []string{"--config", "/etc/sigguard.yaml"},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			app := &cli.App{
				Name:  "test",
				Flags: RunOptions().Flags(),
				Action: func(c *cli.Context) error {
					got = overridesFrom(c)
					return nil
				},
			}
			if err := app.Run(append([]string{"test"}, tt.args...)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("overrides = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("overrides[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	_, err := runApp(t, "run", "--tick", "-1s")
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("expected a config error, got %v", err)
	}
}
