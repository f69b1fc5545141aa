package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"course_find/internal/app"
	"course_find/internal/config"
	"course_find/internal/log"
)

// set by -ldflags at release time
var version = "dev"

var logger = log.ForService("")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:   "cfind",
		Usage:  "Search course slides and books, showing every hit with surrounding words",
		Flags:  globalFlags(),
		Before: setupLogging,
		Commands: []*cli.Command{
			searchCommand(),
			pagesCommand(),
			initCommand(),
			versionCommand(),
		},
	}

	err := cmd.Run(ctx, os.Args)
	closeLogFile()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.StringSliceFlag{
			Name:  "debug-service",
			Usage: "Enable debug logging for one service, e.g. search; repeatable",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Append log output to this file instead of stderr",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Configuration file path",
			Value: defaultConfigPath(),
		},
	}
}

var logFile *os.File

func setupLogging(ctx context.Context, c *cli.Command) (context.Context, error) {
	log.SetGlobalDebug(c.Bool("debug"))
	for _, name := range c.StringSlice("debug-service") {
		log.EnableDebugFor(strings.TrimSpace(name))
	}
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return ctx, fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		log.SetOutput(f)
	}
	return ctx, nil
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}

func defaultConfigPath() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Errorf("Failed to get default config path: %v", err)
		os.Exit(1)
	}
	return path
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the configured roots for a term",
		ArgsUsage: "[term]",
		Flags:     searchFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			opts.Query = c.String("query")
			if opts.Query == "" {
				opts.Query = c.Args().First()
			}
			if c.Bool("json") {
				return app.RunWorker(ctx, opts)
			}
			return app.RunCLI(ctx, opts)
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search term (case-insensitive substring)"},
		&cli.StringFlag{Name: "roots", Aliases: []string{"r"}, Usage: "Root directories, separated by ;"},
		&cli.IntFlag{Name: "context", Aliases: []string{"c"}, Usage: "Words of context on each side of a hit"},
		&cli.IntFlag{Name: "workers", Usage: "Extraction workers (0 = one per CPU)"},
		&cli.StringFlag{Name: "granularity", Usage: "page or line"},
		&cli.StringFlag{Name: "case-folding", Usage: "simple or unicode"},
		&cli.BoolFlag{Name: "highlight", Usage: "Wrap matches in 【】"},
		&cli.BoolFlag{Name: "no-cache", Usage: "Do not read or write the page text cache"},
		&cli.BoolFlag{Name: "json", Usage: "Print one JSON record per page"},
	}
}

func pagesCommand() *cli.Command {
	return &cli.Command{
		Name:      "pages",
		Usage:     "Print the extracted pages of a document as JSON Lines",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing file argument")
			}
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			return app.RunPages(ctx, path, opts)
		},
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a sample configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("config")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Default().SaveTemplateConfig(path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Printf("Configuration written to %s\n", path)
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println(version)
			return nil
		},
	}
}

// loadOptions reads the config file and applies any flags set on c.
func loadOptions(c *cli.Command) (app.CLIOptions, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return app.CLIOptions{}, fmt.Errorf("loading config: %w", err)
	}
	if c.IsSet("context") {
		cfg.ContextLength = c.Int("context")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("granularity") {
		cfg.Granularity = c.String("granularity")
	}
	if c.IsSet("case-folding") {
		cfg.CaseFolding = c.String("case-folding")
	}
	if c.IsSet("highlight") {
		cfg.Highlight = c.Bool("highlight")
	}
	if c.Bool("no-cache") {
		cfg.CacheDir = ""
	}
	if err := cfg.Validate(); err != nil {
		return app.CLIOptions{}, err
	}
	folding, err := cfg.Folding()
	if err != nil {
		return app.CLIOptions{}, err
	}

	roots := c.String("roots")
	if roots == "" {
		roots = strings.Join(cfg.Roots, ";")
	}
	return app.CLIOptions{
		Roots:        roots,
		Workers:      cfg.Workers,
		ContextLen:   cfg.ContextLength,
		Granularity:  cfg.Granularity,
		Folding:      folding,
		Highlight:    cfg.Highlight,
		CacheDir:     cfg.CacheDir,
		BookURL:      cfg.BookURL,
		MaxFileBytes: cfg.MaxFileBytes,
	}, nil
}

