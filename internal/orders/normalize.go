package orders

import "time"

// Normalize builds one uniform Order from a raw stub, its resolved detail
// bag (zero-valued when the detail row was missing) and the customer
// profile (nil when missing). It is total: any input, including an
// unrecognized type tag or a dangling foreign key, produces a well-formed
// order with sentinel defaults, so a single bad row can never block the
// dashboard.
//
// Customer fields resolve detail value first, then profile, then the
// sentinel literal.
func Normalize(stub Stub, detail Details, menu *MenuDetails, profile *Profile) Order {
	order := Order{
		ID:              stub.ID,
		UserID:          stub.UserID,
		Type:            stub.Type(),
		ReservationID:   stub.ReservationID,
		PartyOrderID:    stub.PartyOrderID,
		TakeawayOrderID: stub.TakeawayOrderID,
		MenuOrderID:     stub.MenuOrderID,
		Details:         detail,
		MenuDetails:     menu,
	}

	if stub.UserID == "" {
		order.UserID = "unknown"
	}

	order.UserName = fallback(detail.Name, profileField(profile, func(p *Profile) *string { return p.FullName }), NoName)
	order.UserEmail = fallback(detail.Email, profileField(profile, func(p *Profile) *string { return p.Email }), NoEmail)
	order.UserContact = fallback(detail.Contact, profileField(profile, func(p *Profile) *string { return p.Phone }), NoContact)
	order.UserAddress = fallback(detail.Address, profileField(profile, func(p *Profile) *string { return p.Address }), NoAddress)

	order.CreatedAt = NotSet
	if stub.CreatedAt != nil {
		order.CreatedAt = stub.CreatedAt.UTC().Format(time.RFC3339)
	}

	order.Status = StatusPending
	if s, ok := ParseStatus(detail.Status); ok {
		order.Status = s
	} else if menu != nil {
		if s, ok := ParseStatus(menu.Status); ok {
			order.Status = s
		}
	}

	return order
}

func fallback(primary string, secondary string, sentinel string) string {
	if primary != "" {
		return primary
	}
	if secondary != "" {
		return secondary
	}
	return sentinel
}

func profileField(p *Profile, pick func(*Profile) *string) string {
	if p == nil {
		return ""
	}
	return stringValue(pick(p))
}
