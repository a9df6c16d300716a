package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type missRow struct{}

func (missRow) Scan(...any) error { return pgx.ErrNoRows }

// queryRecorder records QueryRow SQL; every read comes back empty.
type queryRecorder struct {
	sqls []string
}

func (q *queryRecorder) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.sqls = append(q.sqls, sql)
	return missRow{}
}

func (q *queryRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query from detail resolver")
}

func (q *queryRecorder) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected Exec from detail resolver")
}

func TestResolveDetailUsesDispatchTargets(t *testing.T) {
	tests := []struct {
		typ        Type
		wantTable  string
		wantColumn string
	}{
		{TypeReservation, "reservations", `coalesce(status, '')`},
		{TypePartyOrder, "party_orders", `coalesce(status, '')`},
		{TypeTakeaway, "takeaway_orders", `coalesce(order_status, '')`},
		{TypeMenuOrder, "menuorder", `coalesce(status, '')`},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			db := &queryRecorder{}
			r := &Resolver{DB: db}
			r.ResolveDetail(context.Background(), tt.typ, "0b5c9a1e-0000-0000-0000-000000000000")

			if len(db.sqls) != 1 {
				t.Fatalf("expected exactly one detail read, got %d", len(db.sqls))
			}
			sql := db.sqls[0]
			if !strings.Contains(sql, "from "+tt.wantTable) {
				t.Fatalf("detail read for %s targets wrong table:\n%s", tt.typ, sql)
			}
			if !strings.Contains(sql, tt.wantColumn) {
				t.Fatalf("detail read for %s misses status column %s:\n%s", tt.typ, tt.wantColumn, sql)
			}
		})
	}
}

func TestResolveDetailUnknownType(t *testing.T) {
	db := &queryRecorder{}
	r := &Resolver{DB: db}

	details, menu := r.ResolveDetail(context.Background(), Type("mystery"), "some-id")
	if len(db.sqls) != 0 {
		t.Fatalf("unknown type must not hit the database, got %d reads", len(db.sqls))
	}
	if details.Name != "" || details.Status != "" || details.TotalAmount != 0 || menu != nil {
		t.Fatal("unknown type must resolve to empty details")
	}
}
