package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"

	"github.com/ByLCY/paraflow/config"
	"github.com/ByLCY/paraflow/state"
)

func TestUnusableLogDestinationReportsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := `version: 1
logging:
  console:
    level: none
  file:
    level: normal
    destination: ` + filepath.Join(dir, "missing", "paraflow.log") + `
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	errWasHandled = false
	t.Cleanup(func() { errWasHandled = false })

	ctx := state.ContextWithEnv(context.Background())
	app := &cli.Command{
		Name:           "paraflow",
		Before:         initializeAppContext,
		After:          destroyAppContext,
		ExitErrHandler: exitErrHandler,
		Flags:          globalFlags(),
		Action: func(context.Context, *cli.Command) error {
			t.Fatalf("action ran with a broken logging configuration")
			return nil
		},
	}

	err := app.Run(ctx, []string{"paraflow", "--config", cfgPath})
	if err == nil || !strings.Contains(err.Error(), "unable to prepare logs") {
		t.Fatalf("Run() error = %v", err)
	}
	if env := state.EnvFromContext(ctx); env.Log == nil {
		t.Fatalf("logger was replaced by nil")
	}
	if !errWasHandled {
		t.Fatalf("exit handler did not report the error")
	}
}

func TestDestroyWithoutLogger(t *testing.T) {
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg, env.Log = &config.Config{}, nil
	if err := destroyAppContext(ctx, &cli.Command{Name: "paraflow"}); err != nil {
		t.Fatalf("destroyAppContext() error = %v", err)
	}
	errWasHandled = false
	exitErrHandler(ctx, nil, os.ErrNotExist)
	if errWasHandled {
		t.Fatalf("error marked as handled without a logger")
	}
}

func TestDefaultDestination(t *testing.T) {
	cases := []struct {
		src, format, want string
	}{
		{"doc/letter.pf", "pdf", "doc/letter.pdf"},
		{"doc/letter.pf", "SVG", "doc/letter.svg"},
		{"letter", "svg", "letter.svg"},
	}
	for _, c := range cases {
		if got := defaultDestination(c.src, c.format); got != c.want {
			t.Fatalf("defaultDestination(%q, %q) = %q, want %q", c.src, c.format, got, c.want)
		}
	}
}
