package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/auth"
	"vgfoods-order-service/internal/cart"
	"vgfoods-order-service/internal/config"
	"vgfoods-order-service/internal/http/handlers"
	"vgfoods-order-service/internal/middleware"
	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/storage"
	"vgfoods-order-service/internal/ws"
	"vgfoods-order-service/pkg/response"
)

// NewRouter wires every HTTP route. Guest routes live under /api/public and
// need no token. Back-office routes live under /api/admin behind AdminAuth,
// which re-checks the caller's role in the database on every request.
func NewRouter(
	db *pgxpool.Pool,
	logger *zap.Logger,
	cfg config.Config,
	queueClient *queue.Client,
	carts *cart.Store,
	store *storage.ObjectStore,
	wsServer *ws.Server,
) http.Handler {
	h := &handlers.Handler{
		DB:     db,
		Logger: logger,
		Config: cfg,
		Queue:  queueClient,
		Carts:  carts,
		Store:  store,
		Orders: &orders.Resolver{
			DB:               db,
			Logger:           logger,
			FetchConcurrency: cfg.OrderFetchConcurrency,
		},
		Dispatcher: &orders.StatusDispatcher{
			DB:        db,
			CanMutate: auth.CanMutateOrders,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))
	r.Use(corsMiddleware(cfg))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]any{"status": "ok"})
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/menu", h.PublicMenuList)
		r.Get("/menu/{id}", h.PublicMenuDetail)

		r.Post("/cart", h.PublicCartCreate)
		r.Get("/cart", h.PublicCartGet)
		r.Post("/cart/items", h.PublicCartAddItem)
		r.Patch("/cart/items/{itemId}", h.PublicCartUpdateItem)
		r.Delete("/cart/items/{itemId}", h.PublicCartRemoveItem)
		r.Delete("/cart", h.PublicCartClear)

		r.Post("/checkout", h.PublicCheckout)
		r.Post("/reservations", h.PublicReservationCreate)
		r.Post("/takeaway", h.PublicTakeawayCreate)
		r.Post("/party-orders", h.PublicPartyOrderCreate)
		r.Post("/discounts/validate", h.PublicDiscountValidate)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(db, cfg.JWTSecret, logger))

		r.Get("/orders", h.AdminOrdersList)
		r.Get("/orders/{orderId}", h.AdminOrderDetail)
		r.Put("/orders/{orderId}/status", h.AdminOrderStatusUpdate)
		r.Post("/orders/{orderId}/cancel", h.AdminOrderCancel)

		r.Get("/dashboard/stats", h.AdminDashboardStats)
		r.Get("/dashboard/revenue", h.AdminDashboardRevenue)
		r.Get("/dashboard/sales", h.AdminDashboardSales)
		r.Get("/reports/revenue.pdf", h.AdminRevenueReportPDF)

		r.Post("/menu", h.AdminMenuCreate)
		r.Put("/menu/{id}", h.AdminMenuUpdate)
		r.Delete("/menu/{id}", h.AdminMenuDelete)
		r.Post("/menu/{id}/image", h.AdminMenuUploadImage)

		r.Get("/discounts", h.AdminDiscountsList)
		r.Post("/discounts", h.AdminDiscountCreate)
		r.Put("/discounts/{id}", h.AdminDiscountUpdate)
		r.Patch("/discounts/{id}/status", h.AdminDiscountStatusUpdate)
		r.Delete("/discounts/{id}", h.AdminDiscountDelete)

		r.Get("/customers", h.AdminCustomersList)

		r.Get("/users", h.AdminUsersList)
		r.Put("/users/{userId}/role", h.AdminRoleUpdate)
		r.Put("/users/{userId}/pin", h.AdminPinSet)
		r.Post("/users/verify-pin", h.AdminPinVerify)
	})

	// The websocket handler authenticates itself from the token query
	// parameter, browsers cannot set headers on websocket upgrades.
	r.Get("/ws/orders", wsServer.DashboardWS)

	return r
}

func corsMiddleware(cfg config.Config) func(http.Handler) http.Handler {
	origins := cfg.CorsAllowedOrigins
	if cfg.Env != "production" && len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cart-Id", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
