package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/battle-quiz/internal/archive"
	"github.com/DoyleJ11/battle-quiz/internal/config"
	"github.com/DoyleJ11/battle-quiz/internal/httpapi"
	"github.com/DoyleJ11/battle-quiz/internal/logging"
	"github.com/DoyleJ11/battle-quiz/internal/match"
	"github.com/DoyleJ11/battle-quiz/internal/monitor"
	"github.com/DoyleJ11/battle-quiz/internal/quiz"
	"github.com/DoyleJ11/battle-quiz/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) (err error) {
	// The question bank must load before anything binds.
	questions, err := quiz.Load(cfg.QuestionsPath, log)
	if err != nil {
		return err
	}
	seed, err := quiz.NewSeed()
	if err != nil {
		return err
	}
	shuffler := quiz.NewShuffler(seed)
	questions = shuffler.Reshuffle(questions)

	opts := []match.Option{match.WithLogger(log)}

	if cfg.DatabaseDSN != "" {
		store, oerr := archive.Open(cfg.DatabaseDSN)
		if oerr != nil {
			return oerr
		}
		defer func() { err = multierr.Append(err, store.Close()) }()
		opts = append(opts, match.WithRecorder(store))
	}

	gw, err := transport.Listen(cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := gw.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}()
	log.Info("battle quiz server listening",
		zap.Stringer("addr", gw.LocalAddr()),
		zap.Int("questions", len(questions)))

	g, gctx := errgroup.WithContext(ctx)

	mon := monitor.New(gctx)
	opts = append(opts, match.WithObserver(mon))

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.SetupRoutes(mon, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("operator http listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("operator http: %w", err)
			}
			return nil
		})
	}

	session := match.NewSession(gw, questions, shuffler, cfg.Rules(), opts...)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return session.Run(gctx)
	})

	// Unblock a pending receive on shutdown; stop the HTTP side once the
	// session is over.
	g.Go(func() error {
		select {
		case <-gctx.Done():
			_ = gw.Close()
		case <-done:
		}
		if srv == nil {
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			log.Info("interrupted, shutting down")
			return nil
		}
		return err
	}
	return nil
}
