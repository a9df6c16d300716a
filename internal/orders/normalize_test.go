package orders

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNormalizeTotality(t *testing.T) {
	tests := []struct {
		name string
		stub Stub
	}{
		{"empty stub", Stub{}},
		{"unrecognized type", Stub{ID: "abc", RawType: "mystery"}},
		{"dangling foreign key", Stub{ID: "abc", RawType: "reservation", ReservationID: strPtr("gone")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.stub, Details{}, nil, nil)
			if got.UserName != NoName {
				t.Fatalf("UserName = %q, want %q", got.UserName, NoName)
			}
			if got.UserEmail != NoEmail {
				t.Fatalf("UserEmail = %q, want %q", got.UserEmail, NoEmail)
			}
			if got.UserContact != NoContact {
				t.Fatalf("UserContact = %q, want %q", got.UserContact, NoContact)
			}
			if got.UserAddress != NoAddress {
				t.Fatalf("UserAddress = %q, want %q", got.UserAddress, NoAddress)
			}
			if got.CreatedAt != NotSet {
				t.Fatalf("CreatedAt = %q, want %q", got.CreatedAt, NotSet)
			}
			if got.Status != StatusPending {
				t.Fatalf("Status = %q, want %q", got.Status, StatusPending)
			}
			if got.UserID == "" {
				t.Fatal("UserID must never be empty")
			}
		})
	}
}

func TestNormalizeFallbackPrecedence(t *testing.T) {
	profile := &Profile{ID: "u1", FullName: strPtr("Alice"), Email: strPtr("alice@example.com")}

	got := Normalize(Stub{ID: "o1", UserID: "u1", RawType: "reservation"}, Details{}, nil, profile)
	if got.UserName != "Alice" {
		t.Fatalf("profile fallback: UserName = %q, want Alice", got.UserName)
	}
	if got.UserEmail != "alice@example.com" {
		t.Fatalf("profile fallback: UserEmail = %q", got.UserEmail)
	}

	got = Normalize(Stub{ID: "o1", UserID: "u1", RawType: "reservation"}, Details{Name: "Bob"}, nil, profile)
	if got.UserName != "Bob" {
		t.Fatalf("detail must win over profile: UserName = %q, want Bob", got.UserName)
	}

	got = Normalize(Stub{ID: "o1", UserID: "u1", RawType: "reservation"}, Details{}, nil, &Profile{ID: "u1"})
	if got.UserName != NoName {
		t.Fatalf("both missing: UserName = %q, want %q", got.UserName, NoName)
	}
}

func TestNormalizeStatusSources(t *testing.T) {
	got := Normalize(Stub{RawType: "takeaway_order"}, Details{Status: "Confirmed"}, nil, nil)
	if got.Status != StatusConfirmed {
		t.Fatalf("detail status: got %q, want confirmed", got.Status)
	}

	got = Normalize(Stub{RawType: "menuorder"}, Details{}, &MenuDetails{Status: "completed"}, nil)
	if got.Status != StatusCompleted {
		t.Fatalf("menu status: got %q, want completed", got.Status)
	}

	got = Normalize(Stub{RawType: "menuorder"}, Details{}, &MenuDetails{Status: "shipped"}, nil)
	if got.Status != StatusPending {
		t.Fatalf("unparseable status must default to pending, got %q", got.Status)
	}
}

func TestNormalizeCreatedAt(t *testing.T) {
	created := time.Date(2025, 3, 9, 18, 30, 0, 0, time.FixedZone("BST", 3600))
	got := Normalize(Stub{RawType: "reservation", CreatedAt: &created}, Details{}, nil, nil)
	if got.CreatedAt != "2025-03-09T17:30:00Z" {
		t.Fatalf("CreatedAt = %q, want UTC RFC3339", got.CreatedAt)
	}
}

func TestAmountResolution(t *testing.T) {
	menu := Order{Type: TypeMenuOrder, MenuDetails: &MenuDetails{TotalAmount: 25.50}}
	if got := menu.Amount(); got != 25.50 {
		t.Fatalf("menuorder amount = %v, want 25.50", got)
	}

	party := Order{Type: TypePartyOrder, Details: Details{TotalAmount: 120}}
	if got := party.Amount(); got != 120 {
		t.Fatalf("party amount = %v, want 120", got)
	}

	reservation := Order{Type: TypeReservation}
	if got := reservation.Amount(); got != 0 {
		t.Fatalf("reservation amount = %v, want 0", got)
	}

	orphan := Order{Type: TypeMenuOrder}
	if got := orphan.Amount(); got != 0 {
		t.Fatalf("menuorder without details amount = %v, want 0", got)
	}
}
