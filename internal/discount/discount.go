package discount

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"vgfoods-order-service/internal/utils"
)

// A code is either live or retired. "expired" is also what the admin UI
// writes when it manually retires a code; the date check in IsExpired is a
// separate runtime gate on top of the stored status.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Discount is one promo code row. Exactly one of DiscountPercentage and
// FixedDiscount is set; Input.Validate enforces that before any write.
type Discount struct {
	ID                 string   `json:"id"`
	Code               string   `json:"code"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	FixedDiscount      *float64 `json:"fixedDiscount,omitempty"`
	ExpiryDate         string   `json:"expiryDate,omitempty"` // YYYY-MM-DD, empty means no expiry
	Status             string   `json:"status"`
}

// Input is the create/update payload for a discount code.
type Input struct {
	Code               string   `json:"code"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	FixedDiscount      *float64 `json:"fixedDiscount"`
	ExpiryDate         string   `json:"expiryDate"`
	Status             string   `json:"status"`
}

// Validate rejects malformed input before it can reach the database. A code
// must carry exactly one discount kind: both set or neither set is an error,
// not a resolvable preference.
func (in *Input) Validate() *Error {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" {
		return ValidationError(ErrDiscountInvalidInput, "Discount code is required", nil)
	}

	hasPercentage := in.DiscountPercentage != nil
	hasFixed := in.FixedDiscount != nil
	if hasPercentage == hasFixed {
		return ValidationError(ErrDiscountInvalidInput,
			"Set exactly one of discountPercentage and fixedDiscount", map[string]any{
				"discountPercentage": in.DiscountPercentage,
				"fixedDiscount":      in.FixedDiscount,
			})
	}
	if hasPercentage && (*in.DiscountPercentage <= 0 || *in.DiscountPercentage > 100) {
		return ValidationError(ErrDiscountInvalidInput, "discountPercentage must be in (0, 100]", nil)
	}
	if hasFixed && *in.FixedDiscount <= 0 {
		return ValidationError(ErrDiscountInvalidInput, "fixedDiscount must be positive", nil)
	}

	if in.ExpiryDate != "" {
		if _, err := time.Parse("2006-01-02", in.ExpiryDate); err != nil {
			return ValidationError(ErrDiscountInvalidInput, "expiryDate must be YYYY-MM-DD", nil)
		}
	}

	if in.Status == "" {
		in.Status = StatusActive
	}
	if in.Status != StatusActive && in.Status != StatusExpired {
		return ValidationError(ErrDiscountInvalidInput, "status must be active or expired", nil)
	}
	return nil
}

// IsExpired reports whether the code's expiry date has passed in the
// restaurant's local time. Codes expire at the end of their expiry day.
func (d Discount) IsExpired(now time.Time, loc *time.Location) bool {
	if d.ExpiryDate == "" {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	expiry, err := time.ParseInLocation("2006-01-02", d.ExpiryDate, loc)
	if err != nil {
		return false
	}
	return now.In(loc).After(expiry.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// Apply returns the discounted total for a subtotal. Fixed discounts floor
// at zero; a code never makes an order negative.
func (d Discount) Apply(subtotal float64) float64 {
	switch {
	case d.DiscountPercentage != nil:
		return utils.Round2(subtotal * (1 - *d.DiscountPercentage/100))
	case d.FixedDiscount != nil:
		total := subtotal - *d.FixedDiscount
		if total < 0 {
			return 0
		}
		return utils.Round2(total)
	}
	return subtotal
}

type dbQuery interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Lookup loads an active-or-not discount by code, case-insensitive.
func Lookup(ctx context.Context, db dbQuery, code string) (Discount, *Error) {
	row := db.QueryRow(ctx, `
		select id::text, code, discount_percentage, fixed_discount,
		       coalesce(expiry_date::text, ''), coalesce(status, 'active')
		from discounts
		where upper(code) = upper($1)
	`, strings.TrimSpace(code))

	var (
		d          Discount
		percentage pgtype.Numeric
		fixed      pgtype.Numeric
	)
	if err := row.Scan(&d.ID, &d.Code, &percentage, &fixed, &d.ExpiryDate, &d.Status); err != nil {
		if err == pgx.ErrNoRows {
			return Discount{}, NotFoundError("Discount code not found")
		}
		return Discount{}, StoreError("Failed to look up discount code")
	}
	if percentage.Valid {
		v := utils.NumericToFloat64(percentage)
		d.DiscountPercentage = &v
	}
	if fixed.Valid {
		v := utils.NumericToFloat64(fixed)
		d.FixedDiscount = &v
	}
	return d, nil
}

// Redeem validates a code for use right now: it must exist, be active and
// not expired.
func Redeem(ctx context.Context, db dbQuery, code string, now time.Time, loc *time.Location) (Discount, *Error) {
	d, derr := Lookup(ctx, db, code)
	if derr != nil {
		return Discount{}, derr
	}
	if d.Status != StatusActive {
		return Discount{}, ValidationError(ErrDiscountExpired, "Discount code is no longer active", nil)
	}
	if d.IsExpired(now, loc) {
		return Discount{}, ValidationError(ErrDiscountExpired, "Discount code has expired", nil)
	}
	return d, nil
}
