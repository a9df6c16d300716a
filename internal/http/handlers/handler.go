package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/cart"
	"vgfoods-order-service/internal/config"
	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/storage"
)

type Handler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
	Queue  *queue.Client
	Carts  *cart.Store
	Store  *storage.ObjectStore

	Orders     *orders.Resolver
	Dispatcher *orders.StatusDispatcher
}
