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
	"github.com/jrsteele09/referral-portal/auth"
	"github.com/jrsteele09/referral-portal/authapi"
	"github.com/jrsteele09/referral-portal/credentials"
	"github.com/jrsteele09/referral-portal/credentials/cookiestore"
	"github.com/jrsteele09/referral-portal/credentials/memstore"
	"github.com/jrsteele09/referral-portal/credentials/redisstore"
	"github.com/jrsteele09/referral-portal/internal/config"
	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
	"github.com/jrsteele09/referral-portal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const memstorePurgeInterval = 10 * time.Minute

func main() {
	for {
		if err := run(); err != nil {
			log.Err(err).Msg("Error running server")
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
			log.Error().Str("stack", string(debug.Stack())).Msgf("Recovered from panic: %v", r)
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, closeStores, err := newStoreProvider(ctx, c)
	if err != nil {
		return err
	}
	defer closeStores()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	apiClient := authapi.New(c.GetAPIBaseURL(), authapi.WithTimeout(c.GetAPITimeout()))
	ttls := credentials.TTLs{
		AccessToken:  c.GetAccessTokenTTL(),
		RefreshToken: c.GetRefreshTokenTTL(),
		Role:         c.GetRoleTTL(),
	}
	authService, err := auth.NewService(apiClient, ttls,
		auth.WithLogoutNotifyTimeout(c.GetLogoutNotifyTimeout()),
		auth.WithMetrics(auth.NewMetrics(registry)),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	handler, err := server.New(c, server.Deps{
		Auth:      authService,
		Referrals: apiClient,
		Stores:    stores,
		Registry:  registry,
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	defer handler.Close()

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer, c) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newStoreProvider builds the credential store backend selected by CREDENTIAL_STORE.
func newStoreProvider(ctx context.Context, c config.Config) (server.StoreProvider, func(), error) {
	switch c.GetCredentialStore() {
	case config.StoreCookie:
		opts := cookiestore.DefaultOptions()
		return server.CookieStores{Options: opts, ForceSecure: c.GetSecureCookies()}, func() {}, nil

	case config.StoreMemory:
		backend := memstore.New()
		purgeCtx, stop := context.WithCancel(ctx)
		go purgeExpired(purgeCtx, backend)
		return server.ScopedStores{Backend: backend}, stop, nil

	case config.StoreRedis:
		backend, err := redisstore.Dial(ctx, c.GetRedisAddr(), c.GetRedisPassword(), c.GetRedisDB(), c.GetRedisPrefix())
		if err != nil {
			return nil, nil, fmt.Errorf("redisstore.Dial: %w", err)
		}
		closeFn := func() {
			if err := backend.Close(); err != nil {
				log.Err(err).Msg("closing redis")
			}
		}
		return server.ScopedStores{Backend: backend}, closeFn, nil

	default:
		return nil, nil, apperrors.Wrapf(apperrors.ErrInvalidStoreConfig, "credential store %q", c.GetCredentialStore())
	}
}

func purgeExpired(ctx context.Context, backend *memstore.Backend) {
	ticker := time.NewTicker(memstorePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := backend.Purge(); n > 0 {
				log.Debug().Int("entries", n).Msg("purged expired credentials")
			}
		}
	}
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server, c config.Config) error {
	log.Info().
		Str("addr", server.Addr).
		Str("api", c.GetAPIBaseURL()).
		Str("store", string(c.GetCredentialStore())).
		Stringer("cors_origins", c.GetAllowedOrigins()).
		Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
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
