package discount

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestInputValidateExactlyOneKind(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr ErrorCode
	}{
		{"percentage only", Input{Code: "SAVE10", DiscountPercentage: f64(10)}, ""},
		{"fixed only", Input{Code: "FIVER", FixedDiscount: f64(5)}, ""},
		{"both set", Input{Code: "GREEDY", DiscountPercentage: f64(10), FixedDiscount: f64(5)}, ErrDiscountInvalidInput},
		{"neither set", Input{Code: "EMPTY"}, ErrDiscountInvalidInput},
		{"missing code", Input{DiscountPercentage: f64(10)}, ErrDiscountInvalidInput},
		{"percentage over 100", Input{Code: "ALL", DiscountPercentage: f64(150)}, ErrDiscountInvalidInput},
		{"negative fixed", Input{Code: "NEG", FixedDiscount: f64(-5)}, ErrDiscountInvalidInput},
		{"bad expiry", Input{Code: "OLD", FixedDiscount: f64(5), ExpiryDate: "31/12/2025"}, ErrDiscountInvalidInput},
		{"expired status accepted", Input{Code: "RETIRED", DiscountPercentage: f64(10), Status: StatusExpired}, ""},
		{"unknown status", Input{Code: "ODD", DiscountPercentage: f64(10), Status: "inactive"}, ErrDiscountInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || err.Code != tt.wantErr {
				t.Fatalf("Validate err = %v, want code %s", err, tt.wantErr)
			}
		})
	}
}

func TestInputValidateNormalizesCode(t *testing.T) {
	in := Input{Code: "  save10 ", DiscountPercentage: f64(10)}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Code != "SAVE10" {
		t.Fatalf("code = %q, want SAVE10", in.Code)
	}
	if in.Status != StatusActive {
		t.Fatalf("status default = %q, want active", in.Status)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		discount Discount
		subtotal float64
		want     float64
	}{
		{"ten percent", Discount{DiscountPercentage: f64(10)}, 50.00, 45.00},
		{"percentage rounds to pennies", Discount{DiscountPercentage: f64(15)}, 9.99, 8.49},
		{"fixed", Discount{FixedDiscount: f64(5)}, 20.00, 15.00},
		{"fixed floors at zero", Discount{FixedDiscount: f64(30)}, 20.00, 0},
		{"no kind leaves subtotal", Discount{}, 20.00, 20.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.discount.Apply(tt.subtotal); got != tt.want {
				t.Fatalf("Apply(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatal(err)
	}

	d := Discount{ExpiryDate: "2025-06-30"}
	onTheDay := time.Date(2025, 6, 30, 22, 0, 0, 0, london)
	if d.IsExpired(onTheDay, london) {
		t.Fatal("code must stay valid through its expiry day")
	}
	dayAfter := time.Date(2025, 7, 1, 0, 1, 0, 0, london)
	if !d.IsExpired(dayAfter, london) {
		t.Fatal("code must expire after its expiry day")
	}

	forever := Discount{}
	if forever.IsExpired(dayAfter, london) {
		t.Fatal("missing expiry date means no expiry")
	}
}
