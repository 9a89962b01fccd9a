package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mealhub/delivery-backend/internal/config"
	"github.com/mealhub/delivery-backend/internal/db"
	handler "github.com/mealhub/delivery-backend/internal/handler/http"
	"github.com/mealhub/delivery-backend/internal/menu"
	"github.com/mealhub/delivery-backend/internal/order"
	"github.com/mealhub/delivery-backend/internal/push"
	"github.com/mealhub/delivery-backend/internal/shop"
	"github.com/mealhub/delivery-backend/internal/token"
	"github.com/mealhub/delivery-backend/internal/transport"
	"github.com/mealhub/delivery-backend/internal/user"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "delivery-backend").Logger()

	log.Info().Msg("Delivery backend starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := db.Migrate(cfg.Postgres, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userRepo := user.NewRepository(pg.Pool)
	userSvc := user.NewService(userRepo)
	shopRepo := shop.NewRepository(pg.Pool)
	menuSvc := menu.NewService(menu.NewRepository(pg.Pool))
	orderRepo := order.NewPostgresRepository(pg.Pool)
	orderSvc := order.NewService(orderRepo, userSvc, menuSvc, shopRepo)
	pushRepo := push.NewRepository(pg.Pool)

	reaper := order.NewReaper(orderRepo, cfg.Reaper.Interval, cfg.Reaper.MaxAge)
	go reaper.Run(ctx)

	router := transport.NewRouter(transport.Handlers{
		Auth:       handler.NewAuthHandler(userSvc, tokens),
		Orders:     handler.NewOrderHandler(orderSvc),
		Delivery:   handler.NewDeliveryHandler(orderSvc),
		Restaurant: handler.NewRestaurantHandler(orderSvc, menuSvc),
		Shops:      handler.NewShopHandler(shopRepo, menuSvc),
		Push:       handler.NewPushHandler(pushRepo),
		Verifier:   tokens,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
