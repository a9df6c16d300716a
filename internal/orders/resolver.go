package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vgfoods-order-service/internal/utils"
)

// Querier is the slice of pgxpool.Pool the order core needs. Tests swap in
// fakes.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Resolver loads order stubs and resolves each one's detail row from the
// table selected by the dispatch map. Detail reads are issued concurrently
// but capped, one read per stub.
type Resolver struct {
	DB               Querier
	Logger           *zap.Logger
	FetchConcurrency int
}

const defaultFetchConcurrency = 8

// Snapshot returns every order, normalized, plus the full customer profile
// list. Sequential IDs are assigned by list position and are only unique
// within this one batch.
func (r *Resolver) Snapshot(ctx context.Context) ([]Order, []Profile, error) {
	stubs, err := r.listStubs(ctx)
	if err != nil {
		return nil, nil, err
	}

	profiles, err := r.listProfiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	limit := r.FetchConcurrency
	if limit <= 0 {
		limit = defaultFetchConcurrency
	}

	out := make([]Order, len(stubs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i, stub := range stubs {
		group.Go(func() error {
			detail, menu := r.ResolveDetail(groupCtx, stub.Type(), stub.DetailKey())
			out[i] = Normalize(stub, detail, menu, byID[stub.UserID])
			return nil
		})
	}
	// resolve failures degrade to empty details, so Wait cannot fail
	_ = group.Wait()

	for i := range out {
		out[i].SequentialID = i + 1
	}
	return out, profiles, nil
}

// ListOrders is Snapshot without the customer list.
func (r *Resolver) ListOrders(ctx context.Context) ([]Order, error) {
	list, _, err := r.Snapshot(ctx)
	return list, err
}

// ResolveOne loads and normalizes a single order stub by its umbrella id.
func (r *Resolver) ResolveOne(ctx context.Context, orderID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		select o.id::text, coalesce(o.user_id::text, ''), coalesce(o.typeoforder, ''), o.created_at,
		       o.reservation_id::text, o.party_order_id::text, o.takeaway_order_id::text, o.menuorder_id::text
		from orders o
		where o.id = $1::uuid
	`, orderID)
	stub, err := scanStub(row)
	if err != nil {
		return Order{}, err
	}

	var profile *Profile
	if stub.UserID != "" {
		if p, err := r.loadProfile(ctx, stub.UserID); err == nil {
			profile = p
		}
	}

	detail, menu := r.ResolveDetail(ctx, stub.Type(), stub.DetailKey())
	order := Normalize(stub, detail, menu, profile)
	order.SequentialID = 1
	return order, nil
}

func (r *Resolver) listStubs(ctx context.Context) ([]Stub, error) {
	rows, err := r.DB.Query(ctx, `
		select o.id::text, coalesce(o.user_id::text, ''), coalesce(o.typeoforder, ''), o.created_at,
		       o.reservation_id::text, o.party_order_id::text, o.takeaway_order_id::text, o.menuorder_id::text
		from orders o
		order by o.created_at desc nulls last, o.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stubs := make([]Stub, 0)
	for rows.Next() {
		stub, err := scanStub(rows)
		if err != nil {
			return nil, err
		}
		stubs = append(stubs, stub)
	}
	return stubs, rows.Err()
}

func scanStub(row pgx.Row) (Stub, error) {
	var (
		stub      Stub
		createdAt pgtype.Timestamptz
		resID     pgtype.Text
		partyID   pgtype.Text
		takeID    pgtype.Text
		menuID    pgtype.Text
	)
	if err := row.Scan(&stub.ID, &stub.UserID, &stub.RawType, &createdAt, &resID, &partyID, &takeID, &menuID); err != nil {
		return Stub{}, err
	}
	if createdAt.Valid {
		t := createdAt.Time
		stub.CreatedAt = &t
	}
	stub.ReservationID = textPtr(resID)
	stub.PartyOrderID = textPtr(partyID)
	stub.TakeawayOrderID = textPtr(takeID)
	stub.MenuOrderID = textPtr(menuID)
	return stub, nil
}

func (r *Resolver) listProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := r.DB.Query(ctx, `
		select id::text, full_name, email, phone, address, coalesce(role, 'user')
		from profiles
		order by id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		var (
			p       Profile
			name    pgtype.Text
			email   pgtype.Text
			phone   pgtype.Text
			address pgtype.Text
		)
		if err := rows.Scan(&p.ID, &name, &email, &phone, &address, &p.Role); err != nil {
			return nil, err
		}
		p.FullName = textPtr(name)
		p.Email = textPtr(email)
		p.Phone = textPtr(phone)
		p.Address = textPtr(address)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *Resolver) loadProfile(ctx context.Context, userID string) (*Profile, error) {
	row := r.DB.QueryRow(ctx, `
		select id::text, full_name, email, phone, address, coalesce(role, 'user')
		from profiles
		where id = $1::uuid
	`, userID)

	var (
		p       Profile
		name    pgtype.Text
		email   pgtype.Text
		phone   pgtype.Text
		address pgtype.Text
	)
	if err := row.Scan(&p.ID, &name, &email, &phone, &address, &p.Role); err != nil {
		return nil, err
	}
	p.FullName = textPtr(name)
	p.Email = textPtr(email)
	p.Phone = textPtr(phone)
	p.Address = textPtr(address)
	return &p, nil
}

// ResolveDetail issues exactly one read against the detail table for the
// given type. Any failure, missing row and transport error alike, resolves
// to an empty bag: "no details" is a displayable state, not an error.
func (r *Resolver) ResolveDetail(ctx context.Context, typ Type, key string) (Details, *MenuDetails) {
	if key == "" {
		return Details{}, nil
	}

	target, ok := StatusTarget(typ)
	if !ok {
		return Details{}, nil
	}

	switch typ {
	case TypeReservation:
		return r.resolveReservation(ctx, target, key), nil
	case TypePartyOrder:
		return r.resolvePartyOrder(ctx, target, key), nil
	case TypeTakeaway:
		return r.resolveTakeaway(ctx, target, key), nil
	case TypeMenuOrder:
		return Details{}, r.resolveMenuOrder(ctx, target, key)
	}
	return Details{}, nil
}

func (r *Resolver) resolveReservation(ctx context.Context, target Target, id string) Details {
	row := r.DB.QueryRow(ctx, fmt.Sprintf(`
		select coalesce(name, ''), coalesce(contact, ''), coalesce(email, ''),
		       coalesce(date::text, ''), coalesce("time"::text, ''), coalesce(guests, 0),
		       coalesce(special_requests, ''), coalesce(%s, '')
		from %s
		where id = $1::uuid
	`, target.StatusColumn, target.Table), id)

	var d Details
	var guests int32
	if err := row.Scan(&d.Name, &d.Contact, &d.Email, &d.Date, &d.Time, &guests, &d.SpecialRequests, &d.Status); err != nil {
		r.logResolveMiss(target.Table, id, err)
		return Details{}
	}
	d.Guests = int(guests)
	return d
}

func (r *Resolver) resolvePartyOrder(ctx context.Context, target Target, id string) Details {
	row := r.DB.QueryRow(ctx, fmt.Sprintf(`
		select coalesce(name, ''), coalesce(contact, ''), coalesce(email, ''), coalesce(address, ''),
		       coalesce(guest_count, 0), coalesce(event_date::text, ''), dish_selections,
		       coalesce(delivery_method, ''), coalesce(special_requests, ''), coalesce(%s, ''),
		       total_amount
		from %s
		where id = $1::uuid
	`, target.StatusColumn, target.Table), id)

	var (
		d          Details
		guestCount int32
		selections []byte
		total      pgtype.Numeric
	)
	if err := row.Scan(&d.Name, &d.Contact, &d.Email, &d.Address, &guestCount, &d.EventDate,
		&selections, &d.DeliveryMethod, &d.SpecialRequests, &d.Status, &total); err != nil {
		r.logResolveMiss(target.Table, id, err)
		return Details{}
	}
	d.GuestCount = int(guestCount)
	d.DishSelections = decodeLineItems(selections)
	d.TotalAmount = utils.NumericToFloat64(total)
	return d
}

func (r *Resolver) resolveTakeaway(ctx context.Context, target Target, id string) Details {
	row := r.DB.QueryRow(ctx, fmt.Sprintf(`
		select coalesce(name, ''), coalesce(contact, ''), coalesce(address, ''),
		       coalesce(pickup_time, ''), coalesce(instructions, ''), menu_selections,
		       coalesce(%s, ''), total_amount
		from %s
		where id = $1::uuid
	`, target.StatusColumn, target.Table), id)

	var (
		d          Details
		selections []byte
		total      pgtype.Numeric
	)
	if err := row.Scan(&d.Name, &d.Contact, &d.Address, &d.PickupTime, &d.Instructions,
		&selections, &d.Status, &total); err != nil {
		r.logResolveMiss(target.Table, id, err)
		return Details{}
	}
	d.MenuSelections = decodeLineItems(selections)
	d.TotalAmount = utils.NumericToFloat64(total)
	if d.TotalAmount == 0 {
		// older takeaway rows predate the total_amount column
		for _, item := range d.MenuSelections {
			d.TotalAmount += item.Price * float64(item.Quantity)
		}
	}
	return d
}

func (r *Resolver) resolveMenuOrder(ctx context.Context, target Target, id string) *MenuDetails {
	row := r.DB.QueryRow(ctx, fmt.Sprintf(`
		select items, total_amount, shipping_info, coalesce(payment_method, ''), coalesce(%s, '')
		from %s
		where id = $1::uuid
	`, target.StatusColumn, target.Table), id)

	var (
		md       MenuDetails
		items    []byte
		total    pgtype.Numeric
		shipping []byte
	)
	if err := row.Scan(&items, &total, &shipping, &md.PaymentMethod, &md.Status); err != nil {
		r.logResolveMiss(target.Table, id, err)
		return nil
	}
	md.Items = decodeLineItems(items)
	if md.Items == nil {
		md.Items = []LineItem{}
	}
	md.TotalAmount = utils.NumericToFloat64(total)
	md.ShippingAddress = decodeShippingAddress(shipping)
	return &md
}

func (r *Resolver) logResolveMiss(table string, id string, err error) {
	if r.Logger == nil || err == pgx.ErrNoRows {
		return
	}
	r.Logger.Warn("detail resolve failed", zap.String("table", table), zap.String("id", id), zap.Error(err))
}

// decodeLineItems tolerates both a jsonb array and a double-encoded JSON
// string (early clients stringified selections into a text column).
func decodeLineItems(raw []byte) []LineItem {
	if len(raw) == 0 {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &items); err == nil {
			return items
		}
	}
	return nil
}

func decodeShippingAddress(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var info struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return ""
	}
	return info.Address
}

func textPtr(v pgtype.Text) *string {
	if v.Valid {
		return &v.String
	}
	return nil
}
