package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records Exec calls; reads are not expected from the dispatcher.
type fakeDB struct {
	calls        []execCall
	rowsAffected int64
	execErr      error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.rowsAffected)), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query from status dispatcher")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow from status dispatcher")
}

func allowAll(string) bool       { return true }
func adminOnly(role string) bool { return role == "admin" }

func TestUpdateStatusDispatchTargets(t *testing.T) {
	tests := []struct {
		typ        Type
		wantTable  string
		wantColumn string
	}{
		{TypeReservation, "reservations", "status"},
		{TypePartyOrder, "party_orders", "status"},
		{TypeTakeaway, "takeaway_orders", "order_status"},
		{TypeMenuOrder, "menuorder", "status"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			db := &fakeDB{rowsAffected: 1}
			d := &StatusDispatcher{DB: db, CanMutate: allowAll}

			if err := d.UpdateStatus(context.Background(), "admin", tt.typ, "key-1", StatusConfirmed); err != nil {
				t.Fatalf("UpdateStatus: %v", err)
			}
			if len(db.calls) != 1 {
				t.Fatalf("want exactly one write, got %d", len(db.calls))
			}
			sql := db.calls[0].sql
			if !strings.Contains(sql, "update "+tt.wantTable+" ") {
				t.Fatalf("sql %q does not target table %s", sql, tt.wantTable)
			}
			if !strings.Contains(sql, tt.wantColumn+" = $1") {
				t.Fatalf("sql %q does not set column %s", sql, tt.wantColumn)
			}
			if db.calls[0].args[0] != "confirmed" || db.calls[0].args[1] != "key-1" {
				t.Fatalf("args = %v", db.calls[0].args)
			}
		})
	}
}

func TestUpdateStatusRejectsBeforeAnyWrite(t *testing.T) {
	db := &fakeDB{rowsAffected: 1}
	d := &StatusDispatcher{DB: db, CanMutate: adminOnly}

	err := d.UpdateStatus(context.Background(), "user", TypeReservation, "key-1", StatusCancelled)
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("err = %v, want ErrNotPermitted", err)
	}
	if len(db.calls) != 0 {
		t.Fatalf("unauthorized caller reached the database: %d calls", len(db.calls))
	}
}

func TestUpdateStatusUnknownType(t *testing.T) {
	db := &fakeDB{rowsAffected: 1}
	d := &StatusDispatcher{DB: db, CanMutate: allowAll}

	err := d.UpdateStatus(context.Background(), "admin", TypeUnknown, "key-1", StatusConfirmed)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if len(db.calls) != 0 {
		t.Fatalf("unknown type must not reach the database")
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := &fakeDB{rowsAffected: 0}
	d := &StatusDispatcher{DB: db, CanMutate: allowAll}

	err := d.UpdateStatus(context.Background(), "admin", TypeTakeaway, "missing", StatusCompleted)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestCancelIsStatusWrite(t *testing.T) {
	db := &fakeDB{rowsAffected: 1}
	d := &StatusDispatcher{DB: db, CanMutate: allowAll}

	if err := d.Cancel(context.Background(), "admin", TypePartyOrder, "key-9"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(db.calls) != 1 || db.calls[0].args[0] != "cancelled" {
		t.Fatalf("cancel must write the cancelled status, calls = %+v", db.calls)
	}
	if strings.Contains(strings.ToLower(db.calls[0].sql), "delete") {
		t.Fatal("cancel must never delete the row")
	}
}
