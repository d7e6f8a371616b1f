package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/popudev/server-ecommerce/auth"
	"github.com/popudev/server-ecommerce/clientinfo"
	"github.com/popudev/server-ecommerce/internal/config"
	exchange "github.com/popudev/server-ecommerce/oauth2"
	"github.com/popudev/server-ecommerce/products"
	fakeproductrepo "github.com/popudev/server-ecommerce/products/repofake"
	"github.com/popudev/server-ecommerce/server"
	fakesessionrepo "github.com/popudev/server-ecommerce/sessions/repofake"
	"github.com/popudev/server-ecommerce/stores/postgres"
	"github.com/popudev/server-ecommerce/token"
	fakeuserrepo "github.com/popudev/server-ecommerce/users/repofake"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()

	handler, err := buildServer(ctx, c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildServer(ctx context.Context, c config.Config) (*server.Server, error) {
	issuer := token.New(token.NewHMACSigner(c.GetSigningSecret()),
		token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()))

	repos, productRepo, err := buildStores(ctx, c)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(repos, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[buildServer] NewService")
	}

	deps := server.Deps{
		Auth:     authService,
		Issuer:   issuer,
		Products: productRepo,
		Enricher: clientinfo.NewEnricher(c.GetGeoIPAccountID(), c.GetGeoIPLicenseKey()),
	}

	if c.GetGithubClientID() != "" {
		deps.Github = exchange.NewGithubProvider(
			c.GetGithubClientID(), c.GetGithubClientSecret(), c.GetGithubCallbackURL())
	}
	if c.GetGoogleClientID() != "" {
		verifier, err := exchange.NewGoogleVerifier(ctx, c.GetGoogleClientID())
		if err != nil {
			return nil, errors.Wrap(err, "[buildServer] NewGoogleVerifier")
		}
		deps.Google = verifier
	}

	return server.New(c, deps)
}

// buildStores wires Postgres when a DSN is configured and falls back to the
// in-memory stores otherwise. The fallback keeps local development and CI
// working without a database.
func buildStores(ctx context.Context, c config.Config) (auth.Repos, products.Repo, error) {
	dsn := c.GetDatabaseDSN()
	if dsn == "" {
		log.Warn().Msg("DATABASE_DSN not set, using in-memory stores")
		return auth.Repos{
			Users:    fakeuserrepo.NewFakeUserRepo(),
			Sessions: fakesessionrepo.NewFakeSessionRepo(),
		}, fakeproductrepo.NewFakeProductRepo(), nil
	}

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return auth.Repos{}, nil, errors.Wrap(err, "[buildStores] Open")
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return auth.Repos{}, nil, errors.Wrap(err, "[buildStores] RunMigrations")
	}

	return auth.Repos{
		Users:    postgres.NewUserRepo(db),
		Sessions: postgres.NewSessionRepo(db),
	}, postgres.NewProductRepo(db), nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
