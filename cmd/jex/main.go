// Command jex explores JSON documents in the terminal with jq queries.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/dshills/jex/internal/app"
	"github.com/dshills/jex/internal/config"
	"github.com/dshills/jex/internal/renderer/backend"
	"github.com/dshills/jex/internal/renderer/core"
	"github.com/dshills/jex/internal/source"
	"github.com/dshills/jex/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	logPath    string
	watch      bool
	tree       bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "jex [flags] <path|url|->",
		Short: "Explore JSON documents with jq queries",
		Long: `jex shows a JSON document in two foldable panes. Each pane views a frame:
the document itself or the result of a jq (or JSONPath) query applied to
another frame. Press h inside jex for the key bindings.

The document is read from a file, an http(s) URL, or standard input ("-").
gzip, zstd and lz4 input is decompressed automatically.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", os.Getenv("JEX_CONFIG"), "configuration file (TOML or YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	flags.StringVar(&opts.logPath, "log-path", "", "append logs to this file")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "reload the document when the file changes")
	flags.BoolVarP(&opts.tree, "tree", "t", false, "start with the frame tree shown")
	return cmd
}

// loadConfig reads the configuration sources and lays the flags on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, opts options) (*config.Config, error) {
	var cfgOpts []config.Option
	if opts.configPath != "" {
		cfgOpts = append(cfgOpts, config.WithFile(opts.configPath))
	}
	cfg := config.New(cfgOpts...)
	if err := cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	overrides := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		overrides["logging.level"] = opts.logLevel
	}
	if opts.logPath != "" {
		overrides["logging.path"] = opts.logPath
	}
	if cmd.Flags().Changed("watch") {
		overrides["watch.enabled"] = opts.watch
	}
	if cmd.Flags().Changed("tree") {
		overrides["ui.showTree"] = opts.tree
	}
	for path, v := range overrides {
		if err := cfg.Set(path, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logr.Logger, func(), error) {
	lc := cfg.Logging()
	if lc.Path == "" {
		return logr.Discard(), func() {}, nil
	}
	f, err := app.OpenLog(lc.Path)
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return app.NewLogger(app.ParseLogLevel(lc.Level), f), func() { _ = f.Close() }, nil
}

// reattachTerminal gives prompts a terminal to read once stdin held the document.
var reattachTerminal = source.ReattachStdin

func openDocument(ctx context.Context, arg string, opts source.Options) (*view.Frame, error) {
	rc, err := source.Open(ctx, arg, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	root, err := view.Open(rc, arg, core.ScreenRect{})
	if err != nil {
		return nil, err
	}
	if source.Classify(arg) == source.KindStdin {
		if err := reattachTerminal(); err != nil {
			return nil, fmt.Errorf("prompts need a terminal: %w", err)
		}
	}
	return root, nil
}

func run(ctx context.Context, cmd *cobra.Command, opts options, arg string) error {
	cfg, err := loadConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting", "version", version, "document", arg)

	srcOpts := source.Options{HTTPTimeout: cfg.Source().HTTPTimeout}
	root, err := openDocument(ctx, arg, srcOpts)
	if err != nil {
		return err
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	application, err := app.New(root, app.Options{
		Backend: backend.NewBufferedBackend(term),
		Config:  cfg,
		Logger:  log,
		Source:  srcOpts,
	})
	if err != nil {
		return err
	}

	err = application.Run(ctx)
	var perr *app.RecoveredPanicError
	if errors.As(err, &perr) {
		log.Error(err, "panic", "stack", perr.Stack)
	}
	return err
}
