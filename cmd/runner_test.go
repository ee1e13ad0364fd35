package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/chatdj/internal/shared"
	tu "github.com/desertthunder/chatdj/internal/testing"
	"github.com/urfave/cli/v3"
)

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(&strings.Builder{}),
		Output: output,
	})
	return runner, output
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "chatdj",
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"chatdj"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.ledger == nil {
				t.Error("expected a ledger built from the default config")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		runner, output := testRunner(t)

		if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"key": "value"`) {
			t.Errorf("expected pretty JSON, got %q", output.String())
		}
	})

	t.Run("writeJSON to failing writer", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Logger: shared.NewLogger(&strings.Builder{}),
			Output: &tu.FWriter{},
		})

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
			t.Error("expected a write error")
		}
	})
}

func TestExtractCommand(t *testing.T) {
	t.Run("Lists Tracks In Order", func(t *testing.T) {
		runner, output := testRunner(t)
		path := tu.WriteTempChat(t, "a https://open.spotify.com/track/abc?si=1 b https://open.spotify.com/track/def")

		if err := runCommand(t, runner, "extract", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "abc\tsi=1") || !strings.Contains(got, "def") {
			t.Errorf("expected both tracks listed, got %q", got)
		}
		if !strings.Contains(got, "2 track(s) found") {
			t.Errorf("expected a count summary, got %q", got)
		}
		if strings.Index(got, "abc") > strings.Index(got, "def") {
			t.Error("expected source order to be preserved")
		}
	})

	t.Run("JSON Output", func(t *testing.T) {
		runner, output := testRunner(t)
		path := tu.WriteTempChat(t, "https://open.spotify.com/track/abc")

		if err := runCommand(t, runner, "extract", "--json", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"id": "abc"`) {
			t.Errorf("expected JSON refs, got %q", output.String())
		}
	})

	t.Run("Missing File Argument", func(t *testing.T) {
		runner, _ := testRunner(t)

		if err := runCommand(t, runner, "extract"); err == nil {
			t.Error("expected an error for a missing file argument")
		}
	})
}
