package cart

import (
	"sync"
	"time"

	"vgfoods-order-service/internal/utils"
)

// Item is one menu line in a cart.
type Item struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type entry struct {
	items     map[string]*Item
	order     []string
	touchedAt time.Time
}

// Store keeps guest carts in memory, keyed by opaque cart id. Carts are
// session-scoped scratch space: losing them on restart is acceptable, an
// order only exists once checkout writes it to the database.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	carts map[string]*entry
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		carts: make(map[string]*entry),
	}
}

// Add merges an item into the cart, creating the cart if needed. Adding an
// item already present bumps its quantity.
func (s *Store) Add(cartID string, item Item) {
	if cartID == "" || item.ItemID == "" || item.Quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.cart(cartID)
	if existing, ok := e.items[item.ItemID]; ok {
		existing.Quantity += item.Quantity
		return
	}
	copied := item
	e.items[item.ItemID] = &copied
	e.order = append(e.order, item.ItemID)
}

// SetQuantity pins an item's quantity. Zero or negative removes the line.
func (s *Store) SetQuantity(cartID, itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[cartID]
	if !ok || s.expired(e) {
		return
	}
	e.touchedAt = s.now()

	if quantity <= 0 {
		s.remove(e, itemID)
		return
	}
	if item, ok := e.items[itemID]; ok {
		item.Quantity = quantity
	}
}

// Remove drops one line from the cart.
func (s *Store) Remove(cartID, itemID string) {
	s.SetQuantity(cartID, itemID, 0)
}

// Clear discards the whole cart.
func (s *Store) Clear(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
}

// Items returns the cart lines in insertion order.
func (s *Store) Items(cartID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[cartID]
	if !ok || s.expired(e) {
		return []Item{}
	}
	e.touchedAt = s.now()

	out := make([]Item, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.items[id])
	}
	return out
}

// Subtotal sums price x quantity across the cart.
func (s *Store) Subtotal(cartID string) float64 {
	total := 0.0
	for _, item := range s.Items(cartID) {
		total += item.Price * float64(item.Quantity)
	}
	return utils.Round2(total)
}

// Sweep drops carts idle past the TTL. Called from a background ticker.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.carts {
		if s.expired(e) {
			delete(s.carts, id)
		}
	}
}

func (s *Store) cart(cartID string) *entry {
	e, ok := s.carts[cartID]
	if !ok || s.expired(e) {
		e = &entry{items: make(map[string]*Item)}
		s.carts[cartID] = e
	}
	e.touchedAt = s.now()
	return e
}

func (s *Store) expired(e *entry) bool {
	return s.now().Sub(e.touchedAt) > s.ttl
}

func (s *Store) remove(e *entry, itemID string) {
	if _, ok := e.items[itemID]; !ok {
		return
	}
	delete(e.items, itemID)
	for i, id := range e.order {
		if id == itemID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}
