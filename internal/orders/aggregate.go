package orders

import (
	"sort"
	"strconv"
	"time"
)

// Series is a parallel label/value pair shaped for charting.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// RevenueReport holds revenue sums bucketed by calendar label across the
// five dashboard windows.
type RevenueReport struct {
	Daily   Series `json:"daily"`
	Weekly  Series `json:"weekly"`
	Monthly Series `json:"monthly"`
	Yearly  Series `json:"yearly"`
	AllTime Series `json:"alltime"`
}

// TypeCounts is an order tally split by category.
type TypeCounts struct {
	DineIn      int `json:"dineIn"`
	Takeaway    int `json:"takeaway"`
	PartyOrders int `json:"partyOrders"`
	MenuOrders  int `json:"menuOrders"`
}

// SalesReport holds order counts per category across the five windows.
// Unlike revenue, these windows are rolling differences from "now": daily
// means "within the last 7 days", not "grouped by weekday". The two
// aggregations deliberately do not share bucketing.
type SalesReport struct {
	Daily   TypeCounts `json:"daily"`
	Weekly  TypeCounts `json:"weekly"`
	Monthly TypeCounts `json:"monthly"`
	Yearly  TypeCounts `json:"yearly"`
	AllTime TypeCounts `json:"alltime"`
}

// Stats is the dashboard summary block.
type Stats struct {
	TotalOrders        int     `json:"totalOrders"`
	Reservations       int     `json:"reservations"`
	TakeawayOrders     int     `json:"takeawayOrders"`
	PartyOrders        int     `json:"partyOrders"`
	MenuOrders         int     `json:"menuOrders"`
	TotalCustomers     int     `json:"totalCustomers"`
	AveragePartyGuests float64 `json:"averagePartyGuests"`
	PendingOrders      int     `json:"pendingOrders"`
	CompletedOrders    int     `json:"completedOrders"`
}

var (
	weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekLabels    = []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// RevenueByWindow folds the order list into calendar-label revenue buckets.
// An order lands in the weekday, week-of-month, month, and year buckets of
// its creation timestamp, evaluated in loc. Undated orders (the "Not Set"
// sentinel) cannot be bucketed by calendar, but their amounts still count
// toward the single all-time bucket. Labels are emitted in canonical
// calendar order, skipping empty buckets, so equal inputs produce
// byte-identical output.
func RevenueByWindow(list []Order, loc *time.Location) RevenueReport {
	if loc == nil {
		loc = time.UTC
	}

	daily := map[string]float64{}
	weekly := map[string]float64{}
	monthly := map[string]float64{}
	yearly := map[string]float64{}
	allTime := 0.0

	for _, o := range list {
		amount := o.Amount()
		allTime += amount

		created, ok := parseCreatedAt(o.CreatedAt)
		if !ok {
			continue
		}
		local := created.In(loc)
		daily[local.Format("Mon")] += amount
		weekly["Week "+strconv.Itoa((local.Day()-1)/7+1)] += amount
		monthly[local.Format("Jan")] += amount
		yearly[strconv.Itoa(local.Year())] += amount
	}

	years := make([]string, 0, len(yearly))
	for y := range yearly {
		years = append(years, y)
	}
	sort.Strings(years)

	return RevenueReport{
		Daily:   collect(daily, weekdayLabels),
		Weekly:  collect(weekly, weekLabels),
		Monthly: collect(monthly, monthLabels),
		Yearly:  collect(yearly, years),
		AllTime: Series{Labels: []string{"All Time"}, Data: []float64{allTime}},
	}
}

func collect(buckets map[string]float64, order []string) Series {
	s := Series{Labels: []string{}, Data: []float64{}}
	for _, label := range order {
		v, ok := buckets[label]
		if !ok {
			continue
		}
		s.Labels = append(s.Labels, label)
		s.Data = append(s.Data, v)
	}
	return s
}

// SalesByWindow counts orders per category across rolling windows anchored
// at now. Undated orders are skipped in every window including all-time: a
// count with no timestamp cannot be placed on any timeline.
func SalesByWindow(list []Order, now time.Time) SalesReport {
	var report SalesReport
	for _, o := range list {
		created, ok := parseCreatedAt(o.CreatedAt)
		if !ok {
			continue
		}
		days := int(now.Sub(created).Hours() / 24)
		if days < 0 {
			continue
		}
		if days <= 7 {
			report.Daily.add(o.Type)
		}
		if days/7 <= 4 {
			report.Weekly.add(o.Type)
		}
		if days/30 <= 12 {
			report.Monthly.add(o.Type)
		}
		if days/365 <= 5 {
			report.Yearly.add(o.Type)
		}
		report.AllTime.add(o.Type)
	}
	return report
}

func (c *TypeCounts) add(t Type) {
	switch t {
	case TypeReservation:
		c.DineIn++
	case TypeTakeaway:
		c.Takeaway++
	case TypePartyOrder:
		c.PartyOrders++
	case TypeMenuOrder:
		c.MenuOrders++
	}
}

// Summarize is a pure fold over the normalized list plus the customer count.
func Summarize(list []Order, customerCount int) Stats {
	stats := Stats{TotalOrders: len(list), TotalCustomers: customerCount}

	partyGuests := 0
	partyCount := 0
	for _, o := range list {
		switch o.Type {
		case TypeReservation:
			stats.Reservations++
		case TypeTakeaway:
			stats.TakeawayOrders++
		case TypePartyOrder:
			stats.PartyOrders++
			partyCount++
			partyGuests += o.Details.GuestCount
		case TypeMenuOrder:
			stats.MenuOrders++
		}

		switch o.Status {
		case StatusPending:
			stats.PendingOrders++
		case StatusCompleted:
			stats.CompletedOrders++
		}
	}

	if partyCount > 0 {
		stats.AveragePartyGuests = float64(partyGuests) / float64(partyCount)
	}
	return stats
}

func parseCreatedAt(v string) (time.Time, bool) {
	if v == "" || v == NotSet {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
