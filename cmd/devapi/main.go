// Command devapi runs an in-memory stand-in for the Authentication and Referral
// API so the portal can be exercised locally.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jrsteele09/referral-portal/authapi/fakeapi"
	"github.com/jrsteele09/referral-portal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	portVar     = "DEVAPI_PORT"
	secretVar   = "DEVAPI_SECRET"
	seedFileVar = "SEED_FILE"
)

var defaultSeed = []users.SeedUser{
	{Username: "employee", Email: "employee@example.com", FirstName: "Erin", LastName: "Employee", Type: "employee", Password: "Password123"},
	{Username: "hr", Email: "hr@example.com", FirstName: "Harper", LastName: "Recruiter", Type: "hr", Password: "Password123"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(portVar, "8000")

	if err := run(v); err != nil {
		log.Fatal().Err(err).Msg("devapi stopped")
	}
}

func run(v *viper.Viper) error {
	var options []fakeapi.Option
	if secret := v.GetString(secretVar); secret != "" {
		options = append(options, fakeapi.WithSecret([]byte(secret)))
	}
	api := fakeapi.New(options...)

	seeds, err := loadSeeds(v.GetString(seedFileVar))
	if err != nil {
		return err
	}
	created, skipped, err := users.Seed(api.Users(), seeds, time.Now())
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("users seeded")

	addr := v.GetString(portVar)
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{Addr: addr, Handler: api.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("devapi listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// loadSeeds returns the built-in users plus any listed in the CSV at path.
func loadSeeds(path string) ([]users.SeedUser, error) {
	seeds := append([]users.SeedUser(nil), defaultSeed...)
	if path == "" {
		return seeds, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	fromFile, err := users.ParseSeedCSV(f)
	if err != nil {
		return nil, err
	}
	return append(seeds, fromFile...), nil
}
