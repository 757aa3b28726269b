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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dailystore/storefront/cart"
	"github.com/dailystore/storefront/catalog"
	"github.com/dailystore/storefront/internal/config"
	"github.com/dailystore/storefront/kvstore"
	filestore "github.com/dailystore/storefront/kvstore/file"
	memorystore "github.com/dailystore/storefront/kvstore/memory"
	redisstore "github.com/dailystore/storefront/kvstore/redis"
	"github.com/dailystore/storefront/server"
	"github.com/dailystore/storefront/session"
	"github.com/dailystore/storefront/storefront"
)

func main() {
	_ = godotenv.Load()

	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	kv, err := openStore(c)
	if err != nil {
		return fmt.Errorf("open %s store: %w", c.GetStorageBackend(), err)
	}
	defer func() { _ = kv.Close() }()

	cat := catalog.Default()

	cartStore, err := cart.New(kv, cat.Lookup, logger)
	if err != nil {
		return err
	}
	sessionStore, err := session.New(kv, logger)
	if err != nil {
		return err
	}
	shop, err := storefront.New(storefront.Stores{
		Cart:     cartStore,
		Sessions: sessionStore,
		KV:       kv,
	}, cat, storefront.WithLogger(logger))
	if err != nil {
		return err
	}

	handler, err := server.New(c, shop, logger)
	if err != nil {
		return err
	}
	defer handler.Close()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func openStore(c config.Config) (kvstore.NotifyingStore, error) {
	switch c.GetStorageBackend() {
	case config.StorageMemory:
		return memorystore.New(), nil
	case config.StorageRedis:
		return redisstore.New(c.GetRedisAddr(), c.GetRedisDB()), nil
	case config.StorageFile:
		return filestore.New(c.GetDataFolder())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.GetStorageBackend())
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
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

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
