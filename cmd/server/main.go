package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tajer-be/internal/cart"
	"tajer-be/internal/config"
	"tajer-be/internal/coupon"
	"tajer-be/internal/db"
	"tajer-be/internal/httpserver"
	"tajer-be/internal/inventory"
	"tajer-be/internal/logger"
	"tajer-be/internal/order"
	"tajer-be/internal/payment"
	"tajer-be/internal/product"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	productRepo := product.NewRepository(database)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo, couponSvc)

	adjuster := inventory.NewAdjuster(database)
	gateway := payment.NewHostedGateway(
		cfg.ProviderSecretKey,
		cfg.ProviderWebhookKey,
		cfg.ProviderBaseURL,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
	)

	orderRepo := order.NewRepository(database, adjuster)
	orderSvc := order.NewService(orderRepo, cartRepo, gateway, order.Fees{
		Tax:      cfg.TaxPrice,
		Shipping: cfg.ShippingPrice,
		Currency: cfg.Currency,
	})

	srv := httpserver.New(":"+cfg.AppPort, database, httpserver.Deps{
		CartSvc:   cartSvc,
		OrderSvc:  orderSvc,
		Gateway:   gateway,
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("forced shutdown", zap.Error(err))
	}
}
