package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"digest/internal/config"
	"digest/internal/logging"
	"digest/internal/summarizer"
	"digest/internal/tui"
)

type options struct {
	configPath   string
	maxSentences int
	plain        bool
	metricsAddr  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "digest [files...]",
		Short: "Extractive summaries of text documents",
		Long: `digest ranks the sentences of each document by lexical, frequency,
semantic, position and length signals and prints the best few as a short
summary. With no files, text is read from standard input.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// .env is optional.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (optional; uses ~/.config/digest/config.yaml if not provided)")
	cmd.Flags().IntVar(&opts.maxSentences, "max-sentences", 0, "Maximum sentences per summary (overrides config)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print summaries instead of opening the interactive view")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
	return cmd
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func run(ctx context.Context, opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.maxSentences > 0 {
		cfg.Summarizer.MaxSentences = opts.maxSentences
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	var metrics summarizer.MetricsRecorder = summarizer.NoopMetrics{}
	if cfg.Metrics.Addr != "" {
		metrics = summarizer.NewPrometheusMetrics()
		srv := serveMetrics(cfg.Metrics.Addr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	a, err := build(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to build pipeline", slog.String("error", err.Error()))
		return err
	}

	if len(args) == 0 {
		text, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		out, err := a.service.Summarize(ctx, string(text), cfg.Summarizer.MaxSentences)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, out)
		return err
	}

	docs, err := a.service.LoadDocuments(args)
	if err != nil {
		return err
	}
	results, err := a.service.SummarizeDocuments(ctx, docs)
	if err != nil {
		logger.Error("summarization failed", slog.String("error", err.Error()))
		return err
	}

	if opts.plain {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "== %s ==\n%s\n", filepath.Base(r.Document.Path), r.Summary.Text)
		}
		return nil
	}

	m := tui.New(ctx, a.service, results)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()
	return srv
}
