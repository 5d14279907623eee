package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tda234574534243/law-advisor/internal/conversation"
	"github.com/tda234574534243/law-advisor/internal/httpapi"
	"github.com/tda234574534243/law-advisor/internal/index"
	"github.com/tda234574534243/law-advisor/internal/learning"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve starts the JSON API: chat, raw search, feedback, session
management and on-demand index rebuilds.

Example:
  lawadvisor serve
  lawadvisor serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	passages := openStore(ctx, cfg, logger)
	engine := newEngine(cfg, passages, logger)
	learn := learning.NewEngine(newLearningStore(cfg, logger), cfg.Learning.MinRating)
	sessions := conversation.NewManager(cfg.Server.SessionTTL)
	b := buildBot(cfg, engine, learn, sessions, logger)

	builder := index.NewBuilder(passages, newEncoder(cfg, logger), cfg.Index, cfg.Embedding.Workers)
	rebuild := func(ctx context.Context) error {
		_, err := builder.BuildStatisticalIndex(ctx)
		return err
	}

	srv := httpapi.New(b, engine, rebuild, learn, sessions, cfg.Server, logger)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
