package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

const dashboardCacheTTL = 30 * time.Second

// AdminDashboardStats returns the summary block: counts per order type,
// customers, average party guests, pending and completed totals.
func (h *Handler) AdminDashboardStats(w http.ResponseWriter, r *http.Request) {
	key := dashboardCacheKey("stats")
	if cached, ok := getDashboardCache(key); ok {
		response.Success(w, cached)
		return
	}

	list, profiles, err := h.Orders.Snapshot(r.Context())
	if err != nil {
		h.Logger.Error("dashboard stats failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DASHBOARD_FAILED", "Could not load dashboard stats")
		return
	}

	stats := orders.Summarize(list, len(profiles))
	setDashboardCache(key, stats, dashboardCacheTTL)
	response.Success(w, stats)
}

// AdminDashboardRevenue returns revenue series bucketed by calendar label
// for the five chart windows.
func (h *Handler) AdminDashboardRevenue(w http.ResponseWriter, r *http.Request) {
	key := dashboardCacheKey("revenue")
	if cached, ok := getDashboardCache(key); ok {
		response.Success(w, cached)
		return
	}

	list, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		h.Logger.Error("dashboard revenue failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DASHBOARD_FAILED", "Could not load revenue")
		return
	}

	report := orders.RevenueByWindow(list, utils.LocationOrUTC(h.Config.RestaurantTimezone))
	setDashboardCache(key, report, dashboardCacheTTL)
	response.Success(w, report)
}

// AdminDashboardSales returns order counts per category over rolling
// windows anchored at now.
func (h *Handler) AdminDashboardSales(w http.ResponseWriter, r *http.Request) {
	key := dashboardCacheKey("sales")
	if cached, ok := getDashboardCache(key); ok {
		response.Success(w, cached)
		return
	}

	list, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		h.Logger.Error("dashboard sales failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DASHBOARD_FAILED", "Could not load sales")
		return
	}

	report := orders.SalesByWindow(list, timeNow())
	setDashboardCache(key, report, dashboardCacheTTL)
	response.Success(w, report)
}
