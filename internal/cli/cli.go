package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thehive/hive-events/internal/config"
	"github.com/thehive/hive-events/internal/dedup"
	"github.com/thehive/hive-events/internal/eventsync"
	"github.com/thehive/hive-events/internal/extract"
	"github.com/thehive/hive-events/internal/logger"
	"github.com/thehive/hive-events/internal/metrics"
	"github.com/thehive/hive-events/internal/pipeline"
	"github.com/thehive/hive-events/internal/source"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagConfig  string
	flagSource  string
	flagPath    string
	flagClub    string
	flagFormat  string
	flagDryRun  bool
	flagNoSeen  bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hive-scan",
		Short: "Scan captured posts for campus event candidates",
		Long: `Scans captured social posts for event announcements, extracts
structured candidates (AI tier with regex fallback), and publishes them
to the backend. Already-seen posts are skipped across runs.`,
		RunE: runScan,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "config.yaml", "Config file path")
	cmd.Flags().StringVar(&flagSource, "source", "", "Source type: file, html, or rss (overrides config)")
	cmd.Flags().StringVar(&flagPath, "path", "", "Posts file or HTML export path (overrides config)")
	cmd.Flags().StringVar(&flagClub, "club", "", "Club name attributed to loaded posts")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print candidates without publishing")
	cmd.Flags().BoolVar(&flagNoSeen, "no-seen", false, "Process posts even if seen before")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScan is the main command logic
func runScan(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagSource != "" {
		cfg.Source.Type = flagSource
	}
	if flagPath != "" {
		cfg.Source.Path = flagPath
	}
	if flagClub != "" {
		cfg.Source.Club = flagClub
	}

	// A bad config halts the run before any post is touched.
	if err := cfg.ValidateScan(flagDryRun); err != nil {
		return err
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, os.Stderr)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	var seen dedup.SeenStore
	if !flagNoSeen {
		seen, err = buildSeenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer seen.Close()
	}

	var publisher pipeline.Publisher
	if flagDryRun {
		publisher = eventsync.NewDryRunClient()
	} else {
		publisher = eventsync.NewClient(cfg.Sync.BackendURL, cfg.Sync.APIKey)
	}

	if cfg.Scan.MetricsAddr != "" {
		srv, errCh := metrics.Serve(cfg.Scan.MetricsAddr)
		defer srv.Close()
		go func() {
			if err := <-errCh; err != nil {
				log.Error("Metrics listener failed", logger.Fields{"addr": cfg.Scan.MetricsAddr}, err)
			}
		}()
	}

	posts, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}
	log.Info("Loaded posts", logger.Fields{"count": len(posts), "source": cfg.Source.Type})

	runner := &pipeline.Runner{
		Pipeline:  buildPipeline(cfg),
		Publisher: publisher,
		Seen:      seen,
		Delay:     time.Duration(cfg.Scan.DelaySecs) * time.Second,
		Log:       log,
	}

	summary := runner.Run(ctx, posts)

	if err := WriteOutput(os.Stdout, summary, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if summary.Created > 0 {
		os.Exit(ExitNewEvents)
	}
	os.Exit(ExitSuccess)
	return nil
}

func buildSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Type {
	case "file":
		return source.NewFileSource(cfg.Source.Path, cfg.Source.Club), nil
	case "html":
		return source.NewHTMLSource(cfg.Source.Path, cfg.Source.Club), nil
	case "rss":
		return source.NewRSSSource(cfg.Source.Feeds, cfg.Source.Club), nil
	default:
		return nil, fmt.Errorf("unknown source type: %q", cfg.Source.Type)
	}
}

func buildSeenStore(ctx context.Context, cfg *config.Config) (dedup.SeenStore, error) {
	switch cfg.Dedup.Store {
	case "redis":
		ttl := time.Duration(cfg.Dedup.TTLHours) * time.Hour
		store, err := dedup.NewRedisStore(ctx, cfg.Dedup.RedisAddr, cfg.Dedup.RedisPassword, cfg.Dedup.RedisDB, ttl)
		if err != nil {
			return nil, fmt.Errorf("initializing redis seen store: %w", err)
		}
		return store, nil
	default:
		store, err := dedup.NewFileStore(cfg.Dedup.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing seen store: %w", err)
		}
		return store, nil
	}
}

func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	ai := extract.NewLLM(extract.LLMConfig{
		Endpoint:    cfg.AI.Endpoint,
		Model:       cfg.AI.Model,
		APIKey:      cfg.AI.APIKey,
		TimeoutSecs: cfg.AI.TimeoutSecs,
		DefaultYear: cfg.AI.DefaultYear,
	})
	fallback := extract.NewRegex()
	fallback.AssumeFuture = cfg.AssumeFuture()
	return pipeline.New(ai, fallback)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
