package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vgfoods-order-service/internal/cart"
	"vgfoods-order-service/internal/config"
	"vgfoods-order-service/internal/db"
	httpapi "vgfoods-order-service/internal/http"
	"vgfoods-order-service/internal/logger"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/storage"
	"vgfoods-order-service/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without events", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			if err := queue.EnsureOrderEventsTopology(qc); err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq topology failed; continuing without events", zap.Error(err))
				_ = qc.Close()
				qc = nil
			}
		}

		queueClient = qc
		if qc != nil {
			defer qc.Close()
			log.Info("order events enabled", zap.String("exchange", queue.OrderEventsExchange))

			if cfg.RabbitMQWorkerMode == "daemon" {
				log.Info("notification worker enabled", zap.String("queue", queue.OrderEventsQueue))
				go func() {
					if err := queue.RunNotificationWorker(ctx, queueClient, pool, log); err != nil {
						log.Error("notification worker stopped", zap.Error(err))
					}
				}()
			} else {
				log.Info("notification worker disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
			}
		}
	} else {
		log.Info("order events disabled (RABBITMQ_URL is empty)")
	}

	var store *storage.ObjectStore
	if cfg.ObjectStoreEndpoint != "" {
		store, err = storage.NewObjectStore(ctx, storage.Config{
			Endpoint:        cfg.ObjectStoreEndpoint,
			Region:          cfg.ObjectStoreRegion,
			AccessKeyID:     cfg.ObjectStoreAccessKeyID,
			SecretAccessKey: cfg.ObjectStoreSecretAccessKey,
			Bucket:          cfg.ObjectStoreBucket,
			PublicBaseURL:   cfg.ObjectStorePublicBaseURL,
			StorageClass:    cfg.ObjectStoreStorageClass,
		})
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("object store init failed", zap.Error(err))
			}
			log.Warn("object store init failed; image uploads disabled", zap.Error(err))
			store = nil
		}
	} else {
		log.Info("image uploads disabled (OBJECT_STORE_ENDPOINT is empty)")
	}

	carts := cart.NewStore(cfg.CartTTL)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				carts.Sweep()
			}
		}
	}()

	wsServer := ws.New(pool, log, cfg)
	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(pool, log, cfg, queueClient, carts, store, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
