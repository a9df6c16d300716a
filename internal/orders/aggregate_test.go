package orders

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func datedOrder(typ Type, createdAt string, amount float64) Order {
	o := Order{Type: typ, CreatedAt: createdAt}
	if typ == TypeMenuOrder {
		o.MenuDetails = &MenuDetails{TotalAmount: amount}
	} else {
		o.Details = Details{TotalAmount: amount}
	}
	return o
}

func TestRevenueCalendarBuckets(t *testing.T) {
	// 2024-06-15 is a Saturday, 2024-05-06 a Monday. The 40-day-old party
	// order lands in May's calendar bucket, not June's: monthly grouping is
	// by calendar month, not day difference.
	list := []Order{
		datedOrder(TypeMenuOrder, "2024-06-15T12:00:00Z", 25.50),
		datedOrder(TypeReservation, "2024-06-15T19:00:00Z", 0),
		datedOrder(TypePartyOrder, "2024-05-06T12:00:00Z", 120.00),
	}

	got := RevenueByWindow(list, time.UTC)

	wantDaily := Series{Labels: []string{"Mon", "Sat"}, Data: []float64{120.00, 25.50}}
	if !seriesEqual(got.Daily, wantDaily) {
		t.Fatalf("daily = %+v, want %+v", got.Daily, wantDaily)
	}

	wantMonthly := Series{Labels: []string{"May", "Jun"}, Data: []float64{120.00, 25.50}}
	if !seriesEqual(got.Monthly, wantMonthly) {
		t.Fatalf("monthly = %+v, want %+v", got.Monthly, wantMonthly)
	}

	wantYearly := Series{Labels: []string{"2024"}, Data: []float64{145.50}}
	if !seriesEqual(got.Yearly, wantYearly) {
		t.Fatalf("yearly = %+v, want %+v", got.Yearly, wantYearly)
	}

	if got.AllTime.Data[0] != 145.50 {
		t.Fatalf("alltime = %v, want 145.50", got.AllTime.Data[0])
	}
}

func TestRevenueIdempotence(t *testing.T) {
	list := []Order{
		datedOrder(TypeMenuOrder, "2024-06-15T12:00:00Z", 25.50),
		datedOrder(TypeTakeaway, "2024-06-10T12:00:00Z", 18.00),
		datedOrder(TypePartyOrder, NotSet, 120.00),
		datedOrder(TypeReservation, "2023-12-31T23:59:59Z", 0),
	}

	first, err := json.Marshal(RevenueByWindow(list, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(RevenueByWindow(list, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("two runs over the same list diverged:\n%s\n%s", first, second)
	}
}

func TestRevenueUndatedOrders(t *testing.T) {
	list := []Order{datedOrder(TypePartyOrder, NotSet, 120.00)}

	got := RevenueByWindow(list, time.UTC)
	if len(got.Daily.Labels) != 0 || len(got.Monthly.Labels) != 0 || len(got.Yearly.Labels) != 0 {
		t.Fatalf("undated order must not land in any calendar bucket: %+v", got)
	}
	if got.AllTime.Data[0] != 120.00 {
		t.Fatalf("undated order with a resolvable amount must count all-time, got %v", got.AllTime.Data[0])
	}
}

func TestSalesRollingWindows(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	list := []Order{
		datedOrder(TypeTakeaway, now.AddDate(0, 0, -2).Format(time.RFC3339), 18),
		datedOrder(TypeReservation, now.AddDate(0, 0, -20).Format(time.RFC3339), 0),
		datedOrder(TypePartyOrder, now.AddDate(0, 0, -400).Format(time.RFC3339), 120),
		datedOrder(TypeMenuOrder, NotSet, 25.50),
	}

	got := SalesByWindow(list, now)

	if got.Daily != (TypeCounts{Takeaway: 1}) {
		t.Fatalf("daily = %+v", got.Daily)
	}
	if got.Weekly != (TypeCounts{Takeaway: 1, DineIn: 1}) {
		t.Fatalf("weekly = %+v", got.Weekly)
	}
	if got.Monthly != (TypeCounts{Takeaway: 1, DineIn: 1}) {
		t.Fatalf("monthly = %+v", got.Monthly)
	}
	if got.Yearly != (TypeCounts{Takeaway: 1, DineIn: 1, PartyOrders: 1}) {
		t.Fatalf("yearly = %+v", got.Yearly)
	}
	// undated orders have no place on a timeline, even all-time
	if got.AllTime != (TypeCounts{Takeaway: 1, DineIn: 1, PartyOrders: 1}) {
		t.Fatalf("alltime = %+v", got.AllTime)
	}
}

func TestSummarize(t *testing.T) {
	list := []Order{
		{Type: TypePartyOrder, Status: StatusPending, Details: Details{GuestCount: 30}},
		{Type: TypePartyOrder, Status: StatusCompleted, Details: Details{GuestCount: 10}},
		{Type: TypeReservation, Status: StatusPending},
		{Type: TypeTakeaway, Status: StatusCancelled},
	}

	got := Summarize(list, 7)
	if got.TotalOrders != 4 || got.TotalCustomers != 7 {
		t.Fatalf("totals = %+v", got)
	}
	if got.AveragePartyGuests != 20 {
		t.Fatalf("averagePartyGuests = %v, want 20", got.AveragePartyGuests)
	}
	if got.PendingOrders != 2 || got.CompletedOrders != 1 {
		t.Fatalf("status counts = %+v", got)
	}
}

func TestSummarizeNoPartyOrders(t *testing.T) {
	got := Summarize([]Order{{Type: TypeReservation, Status: StatusPending}}, 1)
	if got.AveragePartyGuests != 0 {
		t.Fatalf("averagePartyGuests with no party orders = %v, want 0", got.AveragePartyGuests)
	}
}

func seriesEqual(a, b Series) bool {
	if len(a.Labels) != len(b.Labels) || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] || a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}
