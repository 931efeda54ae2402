package main

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/foldergrid/internal/config"
	"github.com/lumipallolabs/foldergrid/internal/session"
	"github.com/lumipallolabs/foldergrid/internal/ui"
)

var version = "dev"

type options struct {
	configFile string
	iconSize   int
	flow       string
	sortKey    string
	filter     string
	locked     bool
	hidden     bool
	mime       bool
	noMouse    bool
}

func main() {
	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cpuProfile)
	}

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "foldergrid [directory]",
		Short:   "Browse a directory as an icon grid",
		Long:    `Foldergrid shows a directory as a grid of icons you can arrange freely. Positions are remembered per directory.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			start := ""
			if len(args) > 0 {
				start = args[0]
			}

			sess := session.NewManager("")
			if err := sess.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not read session: %v\n", err)
			}

			app, err := ui.NewApp(ui.Options{Config: cfg, Start: start, Session: sess})
			if err != nil {
				return err
			}

			progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
			if !opts.noMouse {
				progOpts = append(progOpts, tea.WithMouseAllMotion())
			}
			_, err = tea.NewProgram(app, progOpts...).Run()
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/foldergrid/config.yaml)")
	f.IntVar(&opts.iconSize, "icon-size", 0, "icon size, 16..128")
	f.StringVar(&opts.flow, "flow", "", "fill order: horizontal or vertical")
	f.StringVar(&opts.sortKey, "sort", "", "sort by name, size, type or modified")
	f.StringVar(&opts.filter, "filter", "", "show only names matching these space-separated globs")
	f.BoolVar(&opts.locked, "locked", false, "lock the layout against moves")
	f.BoolVar(&opts.hidden, "hidden", false, "show hidden entries")
	f.BoolVar(&opts.mime, "mime", false, "detect mime types for sorting by type")
	f.BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse input")

	return cmd
}

// loadConfig reads the configuration and applies the flags that were set
func loadConfig(cmd *cobra.Command, opts options) (config.LayoutConfig, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("icon-size") {
		cfg.IconSize = opts.iconSize
	}
	if flags.Changed("flow") {
		cfg.Flow = opts.flow
	}
	if flags.Changed("sort") {
		cfg.SortKey = opts.sortKey
	}
	if flags.Changed("filter") {
		cfg.FilterMode = "pattern"
		cfg.FilterPattern = opts.filter
	}
	if flags.Changed("locked") {
		cfg.Locked = opts.locked
	}
	if flags.Changed("hidden") {
		cfg.ShowHidden = opts.hidden
	}
	if flags.Changed("mime") {
		cfg.DetectMime = opts.mime
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
