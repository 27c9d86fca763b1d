package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/knowledge-engine/querylens/internal/api"
	"github.com/knowledge-engine/querylens/internal/config"
	"github.com/knowledge-engine/querylens/internal/engine"
	"github.com/knowledge-engine/querylens/internal/search"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "querylens",
		Usage: "Keyword search over a news article corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"QUERYLENS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the article dataset (overrides DATASET_PATH)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Build the index and serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides API_BIND_ADDR)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Print the articles ranked for a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"top-k"},
						Usage:   "Number of results (defaults to SEARCH_DEFAULT_TOP_K)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to one category",
						Value: search.AllCategories,
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "Print the categories of the corpus",
				Action: categoriesCommand,
			},
		},
	}
}

// setup resolves the configuration and logger shared by every command.
func setup(c *cli.Context) (*config.Config, *logrus.Entry, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if path := c.String("dataset"); path != "" {
		cfg.Dataset.Path = path
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(c.App.ErrWriter)
	return cfg, logger.WithField("service", "querylens"), nil
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

func loadEngine(c *cli.Context) (*config.Config, *engine.Engine, *logrus.Entry, error) {
	cfg, log, err := setup(c)
	if err != nil {
		return nil, nil, nil, err
	}
	eng, err := engine.NewEngine(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return cfg, eng, log, nil
}

func serveCommand(c *cli.Context) error {
	cfg, eng, log, err := loadEngine(c)
	if err != nil {
		return err
	}

	addr := cfg.API.BindAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	server := api.NewServer(eng, cfg, log)
	return server.Start(ctx, addr)
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	cfg, eng, _, err := loadEngine(c)
	if err != nil {
		return err
	}

	topK := cfg.Search.DefaultTopK
	if c.IsSet("k") {
		topK = c.Int("k")
	}

	results := eng.Search(query, topK, c.String("category"))
	printResults(c, results)
	return nil
}

func printResults(c *cli.Context, results []search.Result) {
	w := c.App.Writer
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching articles.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. [%.3f] %s (%s)\n", i+1, r.Score, r.Title, r.Category)
		if r.PublishedAt != "" {
			fmt.Fprintf(w, "   published: %s\n", r.PublishedAt)
		}
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.URL)
		}
	}
}

func categoriesCommand(c *cli.Context) error {
	_, eng, _, err := loadEngine(c)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, search.AllCategories)
	for _, category := range eng.Categories() {
		fmt.Fprintln(c.App.Writer, category)
	}
	return nil
}
