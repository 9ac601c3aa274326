package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/boighor/bookshop/internal/config"
	"github.com/boighor/bookshop/internal/logger"
	"github.com/boighor/bookshop/internal/server"
	"github.com/boighor/bookshop/internal/server/storage"
)

const maxAttempts = 3

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.Get(cfg.Debug)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		<-c

		zlog.Debug().Msg("ctx cancel; caught os signal")
		cancel()
	}()

	zlog.Debug().Any("cfg", cfg).Send()

	var opts []storage.Option
	if code := os.Getenv("OTP_FIXED_CODE"); code != "" {
		zlog.Warn().Msg("OTP_FIXED_CODE is set; every session uses the same code")
		opts = append(opts, storage.WithFixedCode(code))
	}
	stor := storage.New(cfg.SessionTTL, maxAttempts, opts...)
	serv := server.New(*cfg, stor)
	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return serv.Run(gCtx)
	})
	group.Go(func() error {
		<-gCtx.Done()
		return serv.ShutdownServer()
	})

	if err = group.Wait(); err != nil {
		zlog.Info().Str("stopping reason", err.Error()).Msg("server stopped")
		return
	}
	zlog.Info().Msg("server stopped")
}
