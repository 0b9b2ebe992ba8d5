package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Rendezvous/internal/adapters/bus"
	router "github.com/dkeye/Rendezvous/internal/adapters/http"
	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/app/orch"
	"github.com/dkeye/Rendezvous/internal/config"
	"github.com/dkeye/Rendezvous/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Logger first so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	policy, err := app.PolicyFor(cfg.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("backpressure policy")
	}
	o := orch.New(app.NewLifecycle(), core.NewRoomRegistry(), policy)

	r, err := router.SetupRouter(ctx, cfg, o)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup")
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("listen")
	}
	srv := &http.Server{Handler: r}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(ctx, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Fatal().Err(err).Str("redis", cfg.RedisAddr).Msg("bus connect")
		}
		defer b.Close()
		o.Bus = b
		g.Go(func() error { return b.Run(gctx, o.DeliverRemote) })
	}

	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("Rendezvous relay started")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		// Upgraded connections are hijacked, so Shutdown does not see them.
		n := o.CloseAll()
		log.Info().Int("connections", n).Msg("closed live connections")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		return
	}
	log.Info().Msg("Server exited gracefully")
}

func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
