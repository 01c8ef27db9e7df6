package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/ByLCY/paraflow/fonts"
	"github.com/ByLCY/paraflow/layout"
	canvasrenderer "github.com/ByLCY/paraflow/renderer/canvas"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	LayoutConfig struct {
		Width        string `yaml:"width"`
		LineGap      string `yaml:"line_gap"`
		ParagraphGap string `yaml:"paragraph_gap"`
		ListGap      string `yaml:"list_gap"`
		Indent       string `yaml:"indent"`
		Gutter       string `yaml:"gutter"`
		LinkColor    string `yaml:"link_color"`
	}

	RenderConfig struct {
		Format   string            `yaml:"format"`
		FontSize string            `yaml:"font_size"`
		Margin   string            `yaml:"margin"`
		Fonts    map[string]string `yaml:"fonts"`
		Title    string            `yaml:"title"`
		Subject  string            `yaml:"subject"`
		Author   string            `yaml:"author"`
		Keywords []string          `yaml:"keywords"`
	}

	DebugConfig struct {
		Tokens bool `yaml:"tokens"`
	}

	Config struct {
		Version int           `yaml:"version"`
		Layout  LayoutConfig  `yaml:"layout"`
		Render  RenderConfig  `yaml:"render"`
		Debug   DebugConfig   `yaml:"debug"`
		Logging LoggingConfig `yaml:"logging"`

		// directory of the file the configuration was read from
		dir string
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields we defined are accepted, so yaml.Unmarshal is not enough
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and validates the
// result.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
		if cfg.dir, err = filepath.Abs(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to locate configuration file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns the embedded default configuration.
func Prepare() []byte {
	return slices.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Validate 检查所有字段并一次性报告全部错误。
func (c *Config) Validate() (err error) {
	if c.Version != 1 {
		err = multierr.Append(err, fmt.Errorf("version: unsupported value %d", c.Version))
	}
	lengths := []struct{ name, value string }{
		{"layout.width", c.Layout.Width},
		{"layout.line_gap", c.Layout.LineGap},
		{"layout.paragraph_gap", c.Layout.ParagraphGap},
		{"layout.list_gap", c.Layout.ListGap},
		{"layout.indent", c.Layout.Indent},
		{"layout.gutter", c.Layout.Gutter},
		{"render.font_size", c.Render.FontSize},
		{"render.margin", c.Render.Margin},
	}
	for _, l := range lengths {
		v, er := layout.ParseLength(l.value)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", l.name, er))
			continue
		}
		if v.Value < 0 {
			err = multierr.Append(err, fmt.Errorf("%s: must not be negative", l.name))
		}
	}
	if _, er := layout.ParseColor(c.Layout.LinkColor); er != nil {
		err = multierr.Append(err, fmt.Errorf("layout.link_color: %w", er))
	}
	switch strings.ToLower(c.Render.Format) {
	case canvasrenderer.FormatPDF, canvasrenderer.FormatSVG:
	default:
		err = multierr.Append(err, fmt.Errorf("render.format: must be pdf or svg, got %q", c.Render.Format))
	}
	for name := range c.Render.Fonts {
		switch strings.ToLower(name) {
		case fonts.Regular, fonts.Bold, fonts.Italic, fonts.BoldItalic:
		default:
			err = multierr.Append(err, fmt.Errorf("render.fonts: unknown variant %q", name))
		}
	}
	return multierr.Append(err, c.Logging.validate())
}

func mm(value string) float64 {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0
	}
	return l.ToMM()
}

// BuildOptions converts layout settings into millimetre based options.
func (c *Config) BuildOptions(log *zap.Logger) layout.BuildOptions {
	opts := layout.BuildOptions{
		Width:        mm(c.Layout.Width),
		LineGap:      mm(c.Layout.LineGap),
		ParagraphGap: mm(c.Layout.ParagraphGap),
		ListGap:      mm(c.Layout.ListGap),
		Indent:       mm(c.Layout.Indent),
		Gutter:       mm(c.Layout.Gutter),
		Logger:       log,
		Debug:        layout.DebugOptions{Tokens: c.Debug.Tokens},
	}
	if col, err := layout.ParseColor(c.Layout.LinkColor); err == nil {
		opts.LinkColor = &col
	}
	return opts
}

// RenderOptions 生成渲染器配置；format 非空时覆盖配置文件中的格式。
// 配置文件里的相对字体路径按配置文件所在目录解析，其余情况交给渲染器按 baseDir 解析。
func (c *Config) RenderOptions(baseDir, format string, log *zap.Logger) canvasrenderer.Options {
	if format == "" {
		format = c.Render.Format
	}
	var size float64
	if l, err := layout.ParseLength(c.Render.FontSize); err == nil {
		size = l.ToPT()
	}
	opts := canvasrenderer.Options{
		BaseDir:  baseDir,
		FontSize: size,
		Margin:   mm(c.Render.Margin),
		Format:   format,
		Logger:   log,
		Meta: canvasrenderer.Meta{
			Title:    c.Render.Title,
			Subject:  c.Render.Subject,
			Author:   c.Render.Author,
			Keywords: c.Render.Keywords,
		},
	}
	if len(c.Render.Fonts) > 0 {
		opts.Fonts = make(map[string]canvasrenderer.Resource, len(c.Render.Fonts))
		for name, path := range c.Render.Fonts {
			if c.dir != "" && !strings.HasPrefix(path, "embed:") && !filepath.IsAbs(path) {
				path = filepath.Join(c.dir, path)
			}
			opts.Fonts[name] = canvasrenderer.Resource{Path: path}
		}
	}
	return opts
}
