package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/omnimsg/composer/internal/api"
	"github.com/omnimsg/composer/internal/client"
	"github.com/omnimsg/composer/internal/config"
	"github.com/omnimsg/composer/internal/events"
	"github.com/omnimsg/composer/internal/form"
	"github.com/omnimsg/composer/internal/janitor"
	"github.com/omnimsg/composer/internal/pipeline"
	"github.com/omnimsg/composer/internal/sublog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("composer starting (addr=%s, gateway=%s, redis=%v, amqp=%v)",
		cfg.Server.Address,
		cfg.Gateway.BaseURL,
		cfg.Redis.Enabled,
		cfg.AMQP.Enabled,
	)

	var subLog sublog.Log
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		subLog = sublog.NewRedisLog(rdb, cfg.Redis.TTL, cfg.Sublog.Capacity)
	} else {
		subLog = sublog.NewRing(cfg.Sublog.Capacity)
	}

	gateway := client.NewGatewayClient(cfg.Gateway.BaseURL)
	submitter := pipeline.NewSubmitter(gateway).WithLog(subLog)

	if cfg.AMQP.Enabled {
		pub, err := events.New(cfg.AMQP.URL, cfg.AMQP.Exchange, slog.Default())
		if err != nil {
			log.Fatalf("amqp connect: %v", err)
		}
		defer pub.Close()
		submitter.WithEvents(pub)
	}

	forms := form.NewStore(cfg.Forms.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go janitor.New(cfg.Forms.JanitorInterval, forms).Run(ctx)

	h := api.NewHandler(forms, submitter, subLog)
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.Router(h),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
