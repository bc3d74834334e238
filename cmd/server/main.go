package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jobmatch/go-jobmatch-server/internal/config"
	"github.com/jobmatch/go-jobmatch-server/internal/rate"
	"github.com/jobmatch/go-jobmatch-server/server"
	"github.com/jobmatch/go-jobmatch-server/storage/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	store, err := sqlite.Open(c.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	repos := server.Repos{
		Users:    sqlite.NewUserRepo(store),
		Profiles: sqlite.NewProfileRepo(store),
	}

	var options []server.ServerOption
	if c.GetEnableRateLimiting() {
		if c.GetRedisAddr() == "" {
			return errors.New("rate limiting enabled but REDIS_ADDR is not set")
		}
		client := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
		defer client.Close()
		options = append(options, server.WithLoginLimiter(rate.New(client, rate.Config{
			MaxLoginAttempts:      c.GetMaxLoginAttempts(),
			LoginCooldownDuration: c.GetLoginCooldown(),
		})))
	}

	// A missing session key fails here, before the listener ever opens.
	app, err := server.New(c, repos, options...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: app}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
