package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/paraflow/config"
	"github.com/ByLCY/paraflow/dsl"
	"github.com/ByLCY/paraflow/layout"
	canvasrenderer "github.com/ByLCY/paraflow/renderer/canvas"
	"github.com/ByLCY/paraflow/state"
)

// initializeAppContext loads configuration and prepares logging after the
// command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	log, err := env.Cfg.Logging.Prepare(cmd.Bool("debug"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Log = log
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if env.Log == nil {
		return nil
	}
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	if er := env.Log.Sync(); er != nil && !errors.Is(er, syscall.EINVAL) && !errors.Is(er, syscall.ENOTTY) {
		err = multierr.Append(err, fmt.Errorf("unable to flush log: %w", er))
	}
	env.RestoreStdLog()
	return
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg != nil && env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log layout decisions at debug level"},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "paraflow",
		Usage:           "lays out paragraph markup and renders it to PDF or SVG",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags:           globalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Lays out SOURCE and writes the rendered document",
				ArgsUsage: "SOURCE [DESTINATION]",
				Action:    renderDocument,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output `TYPE` (pdf or svg), overrides configuration"},
					&cli.StringFlag{Name: "data", Usage: "JSON `DATA` bound to ${...} placeholders"},
					&cli.StringFlag{Name: "layout-json", Usage: "also write layout snapshot to `FILE`"},
				},
			},
			{
				Name:      "layout",
				Usage:     "Lays out SOURCE and writes the layout snapshot as JSON",
				ArgsUsage: "SOURCE [DESTINATION]",
				Action:    dumpLayout,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Usage: "JSON `DATA` bound to ${...} placeholders"},
				},
			},
			{
				Name:      "hit",
				Usage:     "Reports which item of SOURCE lies under a point (document millimetres)",
				ArgsUsage: "SOURCE",
				Action:    hitTest,
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "x", Usage: "horizontal position"},
					&cli.FloatFlag{Name: "y", Usage: "vertical position"},
					&cli.StringFlag{Name: "data", Usage: "JSON `DATA` bound to ${...} placeholders"},
				},
			},
			{
				Name:      "dumpconfig",
				Usage:     "Dumps either default or actual configuration (YAML)",
				ArgsUsage: "[DESTINATION]",
				Action:    outputConfiguration,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

// compose 串联解析与排版：读取标记文件、绑定数据、用渲染器的字体度量排版。
func compose(ctx context.Context, cmd *cli.Command, format string) (*layout.Document, *canvasrenderer.Renderer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, nil, errors.New("no input source has been specified")
	}

	var data any
	if raw := cmd.String("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开标记文件 %s: %w", src, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, nil, fmt.Errorf("解析标记失败: %w", err)
	}

	r := canvasrenderer.NewRendererWithOptions(env.Cfg.RenderOptions(filepath.Dir(src), format, env.Log.Named("render")))
	st, err := r.Measurer()
	if err != nil {
		return nil, nil, err
	}
	result, err := layout.Build(doc, data, st, env.Cfg.BuildOptions(env.Log.Named("layout")))
	if err != nil {
		return nil, nil, fmt.Errorf("排版失败: %w", err)
	}
	env.Log.Debug("Document laid out",
		zap.String("source", src),
		zap.Int("paragraphs", len(result.Paragraphs())),
		zap.Float64("width", result.Width),
		zap.Float64("height", result.Height))
	return result, r, nil
}

func renderDocument(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	format := strings.ToLower(cmd.String("format"))
	if format == "" {
		format = strings.ToLower(env.Cfg.Render.Format)
	}
	doc, r, err := compose(ctx, cmd, format)
	if err != nil {
		return err
	}

	if path := cmd.String("layout-json"); path != "" {
		if err := writeDebug(doc, env.Cfg.BuildOptions(nil).Debug, path); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = defaultDestination(cmd.Args().Get(0), format)
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	env.Log.Info("Document rendered", zap.String("file", dst), zap.String("format", format))
	return nil
}

// defaultDestination replaces the extension of src with the output format.
func defaultDestination(src, format string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + "." + strings.ToLower(format)
}

func dumpLayout(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	doc, _, err := compose(ctx, cmd, "")
	if err != nil {
		return err
	}
	opts := env.Cfg.BuildOptions(nil).Debug
	if dst := cmd.Args().Get(1); len(dst) > 0 {
		return writeDebug(doc, opts, dst)
	}
	return writeJSON(os.Stdout, doc.Snapshot(opts))
}

// hitResult 是 hit 命令输出的 JSON。
type hitResult struct {
	Block string        `json:"block"`
	Node  layout.NodeID `json:"node"`
	Kind  string        `json:"kind,omitempty"`
	Text  string        `json:"text,omitempty"`
	URL   string        `json:"url,omitempty"`
	Inner any           `json:"inner,omitempty"`
}

func hitTest(ctx context.Context, cmd *cli.Command) error {
	doc, _, err := compose(ctx, cmd, "")
	if err != nil {
		return err
	}
	h := doc.HitTest(cmd.Float("x"), cmd.Float("y"))
	res := hitResult{Block: h.Block.Kind.String(), Node: h.Hit.Node, Inner: h.Hit.Inner}
	if h.Hit.Node != layout.NoNode {
		n := h.Block.Para.Tree().Node(h.Hit.Node)
		res.Kind, res.Text, res.URL = n.Kind.String(), n.Text, n.URL
	}
	return writeJSON(os.Stdout, res)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDebug(doc *layout.Document, opts layout.DebugOptions, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(doc, opts, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		err  error
		data []byte
	)
	if cmd.Bool("default") {
		data = config.Prepare()
	} else if data, err = config.Dump(env.Cfg); err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	env.Log.Info("Configuration written", zap.String("file", fname))
	return nil
}
