package orders

import (
	"strings"
	"time"
)

// Type tags which of the four detail tables an order came from.
type Type string

const (
	TypeReservation Type = "reservation"
	TypePartyOrder  Type = "party_order"
	TypeTakeaway    Type = "takeaway_order"
	TypeMenuOrder   Type = "menuorder"
	TypeUnknown     Type = "unknown"
)

func ParseType(raw string) Type {
	switch t := Type(strings.TrimSpace(raw)); t {
	case TypeReservation, TypePartyOrder, TypeTakeaway, TypeMenuOrder:
		return t
	}
	return TypeUnknown
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, true
	}
	return "", false
}

// Placeholder literals shown when a field could not be resolved. CreatedAt
// keeps the NotSet sentinel instead of an empty string because the
// aggregation code branches on it.
const (
	NotSet    = "Not Set"
	NoName    = "Guest"
	NoEmail   = "No Email"
	NoContact = "No Contact"
	NoAddress = "No Address"
)

// LineItem is one dish on an order, copied by value from the catalog at
// order time. Catalog edits never change historical orders.
type LineItem struct {
	ItemID   string  `json:"itemId,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Details is the loosely shaped bag of type-specific fields. Which fields
// are populated depends on the order type; absent fields stay zero.
type Details struct {
	Name            string     `json:"name,omitempty"`
	Contact         string     `json:"contact,omitempty"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	Date            string     `json:"date,omitempty"`
	Time            string     `json:"time,omitempty"`
	Guests          int        `json:"guests,omitempty"`
	EventDate       string     `json:"eventDate,omitempty"`
	GuestCount      int        `json:"guestCount,omitempty"`
	DishSelections  []LineItem `json:"dishSelections,omitempty"`
	DeliveryMethod  string     `json:"deliveryMethod,omitempty"`
	PickupTime      string     `json:"pickupTime,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
	MenuSelections  []LineItem `json:"menuSelections,omitempty"`
	SpecialRequests string     `json:"specialRequests,omitempty"`
	TotalAmount     float64    `json:"totalAmount"`

	// status as stored on the detail row; folded into Order.Status during
	// normalization, not serialized twice
	Status string `json:"-"`
}

func (d Details) IsZero() bool {
	return d.Name == "" && d.Contact == "" && d.Email == "" && d.Address == "" &&
		d.Date == "" && d.Time == "" && d.EventDate == "" && d.PickupTime == "" &&
		d.Guests == 0 && d.GuestCount == 0 && d.TotalAmount == 0 &&
		len(d.DishSelections) == 0 && len(d.MenuSelections) == 0
}

// MenuDetails is present only for menuorder-type orders.
type MenuDetails struct {
	Items           []LineItem `json:"items"`
	TotalAmount     float64    `json:"totalAmount"`
	ShippingAddress string     `json:"shippingAddress,omitempty"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`

	Status string `json:"-"`
}

// Order is the normalized, uniform view of any of the four order kinds. It
// is transient: rebuilt on every fetch, never written back as a whole.
type Order struct {
	// display ordinal assigned by list position at fetch time; unique within
	// one batch only, not stable across reloads
	SequentialID int `json:"sequentialId"`

	ID          string `json:"id"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	UserContact string `json:"userContact"`
	UserAddress string `json:"userAddress"`
	Type        Type   `json:"typeOfOrder"`
	CreatedAt   string `json:"createdAt"` // RFC3339, or the NotSet sentinel
	Status      Status `json:"orderStatus"`

	ReservationID   *string `json:"reservationId,omitempty"`
	PartyOrderID    *string `json:"partyOrderId,omitempty"`
	TakeawayOrderID *string `json:"takeawayOrderId,omitempty"`
	MenuOrderID     *string `json:"menuorderId,omitempty"`

	Details     Details      `json:"details"`
	MenuDetails *MenuDetails `json:"menuDetails,omitempty"`
}

// Amount resolves the revenue contribution of an order. Reservations carry
// no amount and contribute zero.
func (o Order) Amount() float64 {
	if o.Type == TypeMenuOrder {
		if o.MenuDetails != nil {
			return o.MenuDetails.TotalAmount
		}
		return 0
	}
	return o.Details.TotalAmount
}

// DetailKey returns the foreign key into the order's detail table, empty
// when the stub has none for its type.
func (o Order) DetailKey() string {
	switch o.Type {
	case TypeReservation:
		return stringValue(o.ReservationID)
	case TypePartyOrder:
		return stringValue(o.PartyOrderID)
	case TypeTakeaway:
		return stringValue(o.TakeawayOrderID)
	case TypeMenuOrder:
		return stringValue(o.MenuOrderID)
	}
	return ""
}

// Stub is the umbrella orders row: it references exactly one detail table.
type Stub struct {
	ID              string
	UserID          string
	RawType         string
	CreatedAt       *time.Time
	ReservationID   *string
	PartyOrderID    *string
	TakeawayOrderID *string
	MenuOrderID     *string
}

func (s Stub) Type() Type {
	return ParseType(s.RawType)
}

// DetailKey picks the foreign key matching the stub's type tag.
func (s Stub) DetailKey() string {
	switch s.Type() {
	case TypeReservation:
		return stringValue(s.ReservationID)
	case TypePartyOrder:
		return stringValue(s.PartyOrderID)
	case TypeTakeaway:
		return stringValue(s.TakeawayOrderID)
	case TypeMenuOrder:
		return stringValue(s.MenuOrderID)
	}
	return ""
}

// Profile is the customer profile row used for fallback contact fields.
type Profile struct {
	ID       string
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	Role     string
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
