// Package config loads labelgrid settings from defaults, an optional config
// file, LABELGRID_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ByLCY/labelgrid/layout"
	"github.com/ByLCY/labelgrid/logger"
)

// EnvPrefix is prepended to environment overrides, e.g. LABELGRID_PAGE_WIDTH.
const EnvPrefix = "LABELGRID"

// Config holds all settings for one labelgrid run.
type Config struct {
	// Input is the xlsx workbook and Output the PDF destination.
	Input  string `key:"input" validate:"required"`
	Output string `key:"output" validate:"required"`
	// Sheet names the worksheet; empty selects the first one.
	Sheet string `key:"sheet"`
	// Debug, when set, receives the layout as JSON.
	Debug string `key:"debug"`

	Page    PageConfig    `key:"page"`
	Font    FontConfig    `key:"font"`
	Barcode BarcodeConfig `key:"barcode"`
	Log     logger.Config `key:"log"`
	Meta    layout.DocumentMeta
}

// PageConfig describes the label strip.
type PageConfig struct {
	Width   layout.Length
	Height  layout.Length
	Columns int `key:"columns" validate:"gt=0"`
	Padding layout.Length
}

// FontConfig selects the label font.
type FontConfig struct {
	// Src is embed:<name> or a TTF/OTF path.
	Src  string `key:"src" validate:"required"`
	Size layout.Length
}

// BarcodeConfig holds the barcode raster size in pixels.
type BarcodeConfig struct {
	Width  int `key:"width" validate:"gt=0"`
	Height int `key:"height" validate:"gt=0"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"in":        "input",
	"out":       "output",
	"sheet":     "sheet",
	"debug":     "debug",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "planilha/file.xlsx")
	v.SetDefault("sheet", "")
	v.SetDefault("output", "etiqueta/output.pdf")
	v.SetDefault("debug", "")
	v.SetDefault("page.size", "")
	v.SetDefault("page.width", "10.6cm")
	v.SetDefault("page.height", "2.1cm")
	v.SetDefault("page.columns", layout.DefaultColumns)
	v.SetDefault("page.padding", "1pt")
	v.SetDefault("font.src", "embed:go-regular")
	v.SetDefault("font.size", "7pt")
	v.SetDefault("barcode.width", 100)
	v.SetDefault("barcode.height", 40)
	v.SetDefault("meta.title", "Etiquetas")
	v.SetDefault("meta.author", "")
	v.SetDefault("meta.creator", "labelgrid")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Load reads configuration. file may be empty, in which case a
// labelgrid.{yaml,toml,json} in the working directory is used when present.
// flags, when non-nil, override every other source for the flags that were set.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("labelgrid")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{
		Input:  v.GetString("input"),
		Sheet:  v.GetString("sheet"),
		Output: v.GetString("output"),
		Debug:  v.GetString("debug"),
		Page: PageConfig{
			Columns: v.GetInt("page.columns"),
		},
		Font: FontConfig{
			Src: v.GetString("font.src"),
		},
		Barcode: BarcodeConfig{
			Width:  v.GetInt("barcode.width"),
			Height: v.GetInt("barcode.height"),
		},
		Meta: layout.DocumentMeta{
			Title:   v.GetString("meta.title"),
			Author:  v.GetString("meta.author"),
			Creator: v.GetString("meta.creator"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	var err error
	if size := v.GetString("page.size"); size != "" {
		cfg.Page.Width, cfg.Page.Height, err = layout.ParseSize(size, layout.UnitMM)
		if err != nil {
			return nil, fmt.Errorf("page.size: %w", err)
		}
	} else {
		if cfg.Page.Width, err = layout.ParseLength(v.GetString("page.width"), layout.UnitMM); err != nil {
			return nil, fmt.Errorf("page.width: %w", err)
		}
		if cfg.Page.Height, err = layout.ParseLength(v.GetString("page.height"), layout.UnitMM); err != nil {
			return nil, fmt.Errorf("page.height: %w", err)
		}
	}
	if cfg.Page.Padding, err = layout.ParseLength(v.GetString("page.padding"), layout.UnitMM); err != nil {
		return nil, fmt.Errorf("page.padding: %w", err)
	}
	if cfg.Font.Size, err = layout.ParseLength(v.GetString("font.size"), layout.UnitPT); err != nil {
		return nil, fmt.Errorf("font.size: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their config key rather than the Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("key"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q check", configKey(fe.Namespace()), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if samePath(c.Input, c.Output) {
		return fmt.Errorf("output %q would overwrite input %q", c.Output, c.Input)
	}
	if c.Font.Size.ToMM() <= 0 {
		return fmt.Errorf("font size must be positive, got %s", c.Font.Size)
	}
	return c.Grid().Validate()
}

// samePath reports whether a and b name the same file once made absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// configKey turns a validator namespace such as "Config.barcode.width"
// into the config key "barcode.width".
func configKey(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Grid converts the page settings into the layout grid.
func (c *Config) Grid() layout.Grid {
	return layout.Grid{
		PageWidth:  c.Page.Width.ToMM(),
		PageHeight: c.Page.Height.ToMM(),
		Columns:    c.Page.Columns,
		Padding:    c.Page.Padding.ToMM(),
		FontSize:   c.Font.Size.ToMM(),
		Font:       "Body",
	}
}

// FontResource describes the configured label font.
func (c *Config) FontResource() layout.FontResource {
	return layout.FontResource{Name: "Body", Src: c.Font.Src, Style: "regular", Family: "Body"}
}
