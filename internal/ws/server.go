package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/auth"
	"vgfoods-order-service/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server pushes back-office dashboard updates over websockets. It polls the
// order tables and broadcasts when the pending workload changes, so an open
// admin tab sees new orders without refreshing.
type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config

	realtime *dashboardRealtime
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{DB: db, Logger: logger, Config: cfg, realtime: newDashboardRealtime(db, logger, cfg.WSDashboardPoll)}
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

// PendingSnapshot is the broadcast payload: pending work per order kind.
type PendingSnapshot struct {
	Reservations   int       `json:"reservations"`
	TakeawayOrders int       `json:"takeawayOrders"`
	PartyOrders    int       `json:"partyOrders"`
	MenuOrders     int       `json:"menuOrders"`
	LatestOrderAt  time.Time `json:"latestOrderAt"`
}

type dashboardRealtime struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	poll   time.Duration

	started sync.Once
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func newDashboardRealtime(db *pgxpool.Pool, logger *zap.Logger, poll time.Duration) *dashboardRealtime {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &dashboardRealtime{db: db, logger: logger, poll: poll, clients: make(map[*wsClient]struct{})}
}

func (dr *dashboardRealtime) ensureStarted() {
	dr.started.Do(func() {
		go dr.listenLoop(context.Background())
	})
}

func (dr *dashboardRealtime) subscribe(client *wsClient) (unsubscribe func()) {
	dr.mu.Lock()
	dr.clients[client] = struct{}{}
	dr.mu.Unlock()

	return func() {
		dr.mu.Lock()
		delete(dr.clients, client)
		dr.mu.Unlock()
	}
}

func (dr *dashboardRealtime) broadcast(message any) {
	dr.mu.RLock()
	clients := make([]*wsClient, 0, len(dr.clients))
	for c := range dr.clients {
		clients = append(clients, c)
	}
	dr.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			dr.mu.Lock()
			delete(dr.clients, c)
			dr.mu.Unlock()
		}
	}
}

func (dr *dashboardRealtime) fetchSnapshot(ctx context.Context) (PendingSnapshot, error) {
	var snap PendingSnapshot
	err := dr.db.QueryRow(ctx, `
		select
			(select count(*) from reservations where status = 'pending'),
			(select count(*) from takeaway_orders where order_status = 'pending'),
			(select count(*) from party_orders where status = 'pending'),
			(select count(*) from menuorder where status = 'pending'),
			(select coalesce(max(created_at), 'epoch'::timestamptz) from orders)
	`).Scan(&snap.Reservations, &snap.TakeawayOrders, &snap.PartyOrders, &snap.MenuOrders, &snap.LatestOrderAt)
	return snap, err
}

func (dr *dashboardRealtime) listenLoop(ctx context.Context) {
	ticker := time.NewTicker(dr.poll)
	defer ticker.Stop()

	var last PendingSnapshot
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		dr.mu.RLock()
		idle := len(dr.clients) == 0
		dr.mu.RUnlock()
		if idle {
			continue
		}

		snap, err := dr.fetchSnapshot(ctx)
		if err != nil {
			if dr.logger != nil {
				dr.logger.Warn("dashboard snapshot poll failed", zap.Error(err))
			}
			continue
		}
		if snap == last {
			continue
		}
		last = snap
		dr.broadcast(map[string]any{"type": "dashboard.pending", "data": snap})
	}
}

// DashboardWS upgrades an admin connection. Auth rides the token query
// parameter, browsers cannot set websocket headers.
func (s *Server) DashboardWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := r.URL.Query().Get("token")
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	ctx := r.Context()
	var role string
	if dbErr := s.DB.QueryRow(ctx, `select coalesce(role, 'user') from profiles where id = $1::uuid`, claims.UserID).Scan(&role); dbErr != nil || !auth.CanMutateOrders(role) {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "admin access required"})
		return
	}

	s.realtime.ensureStarted()
	client := &wsClient{conn: conn}
	unsubscribe := s.realtime.subscribe(client)
	defer unsubscribe()

	if snap, fetchErr := s.realtime.fetchSnapshot(ctx); fetchErr == nil {
		_ = client.writeJSON(map[string]any{"type": "dashboard.pending", "data": snap})
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	interval := s.Config.WSHeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()
	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if err := client.writeJSON(map[string]any{"type": "ping", "at": time.Now().UTC()}); err != nil {
				return
			}
		}
	}
}
