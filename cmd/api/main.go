package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	cartsvc "github.com/ReachskylineNew/kokofresh-new-sub000/internal/cart"
	checkoutsvc "github.com/ReachskylineNew/kokofresh-new-sub000/internal/checkout"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/config"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/db"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/httpserver"
	membersvc "github.com/ReachskylineNew/kokofresh-new-sub000/internal/member"
	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/platform"
	credentialrepo "github.com/ReachskylineNew/kokofresh-new-sub000/internal/repository/credential"
	membersessionrepo "github.com/ReachskylineNew/kokofresh-new-sub000/internal/repository/membersession"
	sessionsvc "github.com/ReachskylineNew/kokofresh-new-sub000/internal/session"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "api").Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if cfg.PlatformBaseURL == "" || cfg.PlatformSiteID == "" {
		logger.Fatal().Msg("PLATFORM_BASE_URL and PLATFORM_SITE_ID are required")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	client := platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformSiteID, logger)

	credentialRepo := credentialrepo.NewPostgres(dbpool)
	sessions := sessionsvc.NewManager(client, credentialRepo, logger)
	carts := cartsvc.New(client, sessions)
	checkouts := checkoutsvc.New(client, sessions, carts, cfg.CheckoutURLTemplate, logger)
	memberRepo := membersessionrepo.NewPostgres(dbpool)
	members := membersvc.New(client, memberRepo, cfg.MemberRedirectURI, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:    carts,
		Checkout: checkouts,
		Members:  members,
	}, httpserver.Options{
		CORSOrigins:  cfg.CORSOrigins,
		CookieDomain: cfg.CookieDomain,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
