package cart

import (
	"testing"
	"time"
)

func TestAddMergesQuantities(t *testing.T) {
	s := NewStore(time.Hour)
	s.Add("c1", Item{ItemID: "m1", Name: "Lamb Bhuna", Price: 12.50, Quantity: 1})
	s.Add("c1", Item{ItemID: "m1", Name: "Lamb Bhuna", Price: 12.50, Quantity: 2})
	s.Add("c1", Item{ItemID: "m2", Name: "Peshwari Naan", Price: 3.25, Quantity: 1})

	items := s.Items("c1")
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ItemID != "m1" || items[0].Quantity != 3 {
		t.Fatalf("first line = %+v, want m1 x3", items[0])
	}
	if got := s.Subtotal("c1"); got != 40.75 {
		t.Fatalf("subtotal = %v, want 40.75", got)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore(time.Hour)
	s.Add("c1", Item{ItemID: "m1", Name: "Saag Aloo", Price: 6.95, Quantity: 2})
	s.Add("c1", Item{ItemID: "m2", Name: "Pilau Rice", Price: 3.50, Quantity: 1})

	s.SetQuantity("c1", "m1", 0)
	items := s.Items("c1")
	if len(items) != 1 || items[0].ItemID != "m2" {
		t.Fatalf("items = %+v, want only m2", items)
	}

	s.SetQuantity("c1", "m2", -3)
	if len(s.Items("c1")) != 0 {
		t.Fatal("negative quantity must remove the line")
	}
}

func TestCartsAreIsolated(t *testing.T) {
	s := NewStore(time.Hour)
	s.Add("c1", Item{ItemID: "m1", Price: 5, Quantity: 1})
	s.Add("c2", Item{ItemID: "m9", Price: 9, Quantity: 1})

	if items := s.Items("c1"); len(items) != 1 || items[0].ItemID != "m1" {
		t.Fatalf("c1 items = %+v", items)
	}
	s.Clear("c1")
	if len(s.Items("c1")) != 0 {
		t.Fatal("clear must empty the cart")
	}
	if len(s.Items("c2")) != 1 {
		t.Fatal("clearing one cart must not touch another")
	}
}

func TestExpiredCartIsEmpty(t *testing.T) {
	s := NewStore(time.Hour)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Add("c1", Item{ItemID: "m1", Price: 5, Quantity: 1})

	current = current.Add(2 * time.Hour)
	if len(s.Items("c1")) != 0 {
		t.Fatal("idle cart past TTL must read as empty")
	}

	s.Sweep()
	s.mu.Lock()
	_, ok := s.carts["c1"]
	s.mu.Unlock()
	if ok {
		t.Fatal("sweep must drop the expired cart")
	}
}

func TestTouchExtendsTTL(t *testing.T) {
	s := NewStore(time.Hour)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Add("c1", Item{ItemID: "m1", Price: 5, Quantity: 1})

	current = current.Add(45 * time.Minute)
	if len(s.Items("c1")) != 1 {
		t.Fatal("cart must survive within TTL")
	}

	// the read above touched the cart, restarting the idle clock
	current = current.Add(45 * time.Minute)
	if len(s.Items("c1")) != 1 {
		t.Fatal("reads must extend the idle TTL")
	}
}
