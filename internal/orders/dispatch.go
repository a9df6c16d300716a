package orders

// Target names the detail table and its status column for one order type.
// The takeaway table calls its column order_status while the other three
// call it status; keeping the mapping here means nothing else in the
// codebase needs to know that.
type Target struct {
	Table        string
	StatusColumn string
}

var statusTargets = map[Type]Target{
	TypeReservation: {Table: "reservations", StatusColumn: "status"},
	TypePartyOrder:  {Table: "party_orders", StatusColumn: "status"},
	TypeTakeaway:    {Table: "takeaway_orders", StatusColumn: "order_status"},
	TypeMenuOrder:   {Table: "menuorder", StatusColumn: "status"},
}

// StatusTarget is consulted by both the detail resolver and the status
// dispatcher so the table/column mapping lives in exactly one place.
func StatusTarget(t Type) (Target, bool) {
	target, ok := statusTargets[t]
	return target, ok
}
