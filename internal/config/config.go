package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lumipallolabs/foldergrid/internal/interaction"
	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/proxy"
)

// ErrInvalid is returned for out-of-range or unknown option values
var ErrInvalid = errors.New("invalid config")

const (
	MinIconSize     = 16
	MaxIconSize     = 128
	defaultIconSize = 48
)

// LayoutConfig holds every option that affects layout and interaction
type LayoutConfig struct {
	IconSize         int      `mapstructure:"icon_size"`
	Locked           bool     `mapstructure:"locked"`
	SortKey          string   `mapstructure:"sort_key"`
	SortDescending   bool     `mapstructure:"sort_descending"`
	DirectoriesFirst bool     `mapstructure:"directories_first"`
	ShowHidden       bool     `mapstructure:"show_hidden"`
	FilterMode       string   `mapstructure:"filter_mode"`
	FilterPattern    string   `mapstructure:"filter_pattern"`
	FilterMimes      []string `mapstructure:"filter_mimes"`
	FilterInvert     bool     `mapstructure:"filter_invert"`
	Flow             string   `mapstructure:"flow"`
	Spacing          int      `mapstructure:"spacing"`
	DetectMime       bool     `mapstructure:"detect_mime"`

	DoubleClickMs  int `mapstructure:"double_click_ms"`
	DragThreshold  int `mapstructure:"drag_threshold"`
	SaveDelayMs    int `mapstructure:"save_delay_ms"`
	LayoutDelayMs  int `mapstructure:"layout_delay_ms"`
	CacheClearMs   int `mapstructure:"cache_clear_ms"`
	RepaintDelayMs int `mapstructure:"repaint_delay_ms"`
	AnimationMs    int `mapstructure:"animation_ms"`

	PositionsDir string `mapstructure:"positions_dir"`
}

var defaults = map[string]any{
	"icon_size":         defaultIconSize,
	"locked":            false,
	"sort_key":          "name",
	"sort_descending":   false,
	"directories_first": true,
	"show_hidden":       false,
	"filter_mode":       "none",
	"filter_pattern":    "",
	"filter_mimes":      []string{},
	"filter_invert":     false,
	"flow":              "horizontal",
	"spacing":           1,
	"detect_mime":       false,
	"double_click_ms":   400,
	"drag_threshold":    2,
	"save_delay_ms":     1000,
	"layout_delay_ms":   100,
	"cache_clear_ms":    20000,
	"repaint_delay_ms":  16,
	"animation_ms":      120,
	"positions_dir":     "",
}

// Default returns the built-in configuration
func Default() LayoutConfig {
	v := viper.New()
	setDefaults(v)
	var cfg LayoutConfig
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Load reads the configuration. An explicit file must exist; otherwise
// config.yaml is looked up under XDG_CONFIG_HOME and ~/.config. Missing
// files fall back to defaults. FOLDERGRID_* environment variables override
// file values.
func Load(file string) (LayoutConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FOLDERGRID")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "foldergrid"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "foldergrid"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return LayoutConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg LayoutConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return LayoutConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return LayoutConfig{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enumerations and out-of-range values
func (c LayoutConfig) Validate() error {
	if c.IconSize < MinIconSize || c.IconSize > MaxIconSize {
		return fmt.Errorf("%w: icon_size %d outside %d..%d", ErrInvalid, c.IconSize, MinIconSize, MaxIconSize)
	}
	if _, ok := proxy.ParseSortKey(c.SortKey); !ok {
		return fmt.Errorf("%w: sort_key %q", ErrInvalid, c.SortKey)
	}
	if _, ok := proxy.ParseFilterMode(c.FilterMode); !ok {
		return fmt.Errorf("%w: filter_mode %q", ErrInvalid, c.FilterMode)
	}
	if _, ok := layout.ParseFlow(c.Flow); !ok {
		return fmt.Errorf("%w: flow %q", ErrInvalid, c.Flow)
	}
	if c.Spacing < 0 || c.DragThreshold < 0 {
		return fmt.Errorf("%w: negative spacing or drag threshold", ErrInvalid)
	}
	for name, ms := range map[string]int{
		"double_click_ms":  c.DoubleClickMs,
		"save_delay_ms":    c.SaveDelayMs,
		"layout_delay_ms":  c.LayoutDelayMs,
		"cache_clear_ms":   c.CacheClearMs,
		"repaint_delay_ms": c.RepaintDelayMs,
		"animation_ms":     c.AnimationMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalid, name)
		}
	}
	return nil
}

// ProxyOptions converts the sort and filter settings
func (c LayoutConfig) ProxyOptions() proxy.Options {
	key, _ := proxy.ParseSortKey(c.SortKey)
	mode, _ := proxy.ParseFilterMode(c.FilterMode)
	return proxy.Options{
		SortKey:    key,
		Descending: c.SortDescending,
		DirsFirst:  c.DirectoriesFirst,
		ShowHidden: c.ShowHidden,
		FilterMode: mode,
		Pattern:    c.FilterPattern,
		Mimes:      splitMimes(c.FilterMimes),
		Invert:     c.FilterInvert,
	}
}

// LayoutFlow returns the parsed flow direction
func (c LayoutConfig) LayoutFlow() layout.Flow {
	f, _ := layout.ParseFlow(c.Flow)
	return f
}

// Interaction returns the pointer thresholds
func (c LayoutConfig) Interaction() interaction.Config {
	ic := interaction.DefaultConfig()
	ic.DragThreshold = c.DragThreshold
	ic.DoubleClick = ms(c.DoubleClickMs)
	return ic
}

// Delays returns the coalescing delays of the deferred tasks
func (c LayoutConfig) Delays() Delays {
	return Delays{
		Save:       ms(c.SaveDelayMs),
		Layout:     ms(c.LayoutDelayMs),
		CacheClear: ms(c.CacheClearMs),
		Repaint:    ms(c.RepaintDelayMs),
		Animation:  ms(c.AnimationMs),
	}
}

// Delays groups the deferred task delays
type Delays struct {
	Save       time.Duration
	Layout     time.Duration
	CacheClear time.Duration
	Repaint    time.Duration
	Animation  time.Duration
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// splitMimes accepts both list values and a single comma or space separated
// string coming from the environment
func splitMimes(in []string) []string {
	var out []string
	for _, s := range in {
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, f)
		}
	}
	return out
}
