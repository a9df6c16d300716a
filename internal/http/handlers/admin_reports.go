package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

// AdminRevenueReportPDF renders the dashboard revenue aggregation as a
// downloadable PDF.
func (h *Handler) AdminRevenueReportPDF(w http.ResponseWriter, r *http.Request) {
	list, profiles, err := h.Orders.Snapshot(r.Context())
	if err != nil {
		h.Logger.Error("revenue report failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "REPORT_FAILED", "Could not build the report")
		return
	}

	loc := utils.LocationOrUTC(h.Config.RestaurantTimezone)
	revenue := orders.RevenueByWindow(list, loc)
	stats := orders.Summarize(list, len(profiles))

	out, err := renderRevenueReportPDF(revenue, stats, timeNow().In(loc).Format("2 January 2006 15:04"))
	if err != nil {
		h.Logger.Error("revenue pdf render failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "REPORT_FAILED", "Could not build the report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="revenue-report.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	_, _ = w.Write(out.Bytes())
}

func renderRevenueReportPDF(revenue orders.RevenueReport, stats orders.Stats, generatedAt string) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "VG Foods - Revenue Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", generatedAt), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Total orders: %d", stats.TotalOrders), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Reservations: %d   Takeaway: %d   Party: %d   Menu: %d",
		stats.Reservations, stats.TakeawayOrders, stats.PartyOrders, stats.MenuOrders), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Pending: %d   Completed: %d", stats.PendingOrders, stats.CompletedOrders), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Customers: %d", stats.TotalCustomers), "", 1, "L", false, 0, "")

	sections := []struct {
		title  string
		series orders.Series
	}{
		{"Revenue by weekday", revenue.Daily},
		{"Revenue by week of month", revenue.Weekly},
		{"Revenue by month", revenue.Monthly},
		{"Revenue by year", revenue.Yearly},
		{"All time", revenue.AllTime},
	}

	for _, section := range sections {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, section.title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		if len(section.series.Labels) == 0 {
			pdf.CellFormat(0, 5, "No revenue recorded", "", 1, "L", false, 0, "")
			continue
		}
		for i, label := range section.series.Labels {
			pdf.CellFormat(60, 5, label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, fmt.Sprintf("%.2f", section.series.Data[i]), "", 1, "R", false, 0, "")
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
