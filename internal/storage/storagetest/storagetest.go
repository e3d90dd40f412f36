// Package storagetest holds behaviour tests shared by every storage.Store
// backend.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
)

// Run exercises store against the storage.Queries conventions. The store
// must be empty.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "61 90000-0000", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	newHouse := func(t *testing.T, name string) *models.House {
		t.Helper()
		house := &models.House{
			OwnerID: owner.ID, Name: name, PostalCode: "70000-000", Street: "SQN 101",
			Number: "1", District: "Asa Norte", City: "Brasília", State: "DF",
		}
		if err := store.CreateHouse(ctx, house); err != nil {
			t.Fatalf("CreateHouse failed: %v", err)
		}
		return house
	}

	newMember := func(t *testing.T, houseID, name, roomID string) *models.Member {
		t.Helper()
		m := &models.Member{HouseID: houseID, FullName: name, Email: name + "@m.test", Phone: "p-" + name, RoomID: roomID}
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember %s failed: %v", name, err)
		}
		return m
	}

	newExpense := func(t *testing.T, houseID string, due string) *models.Expense {
		t.Helper()
		d, err := models.ParseDate(due)
		if err != nil {
			t.Fatalf("ParseDate failed: %v", err)
		}
		e := &models.Expense{HouseID: houseID, Description: "Luz", Amount: 90, DueDate: d, Category: models.CategoryElectricity}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		return e
	}

	t.Run("users", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "owner@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != owner.ID {
			t.Errorf("expected %s, got %s", owner.ID, got.ID)
		}

		dup := models.NewUser("owner@example.com", "Dup", "0", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict for duplicate email, got %v", err)
		}

		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("houses", func(t *testing.T) {
		house := newHouse(t, "Casa Azul")
		if house.ID == "" || house.CreatedAt == 0 {
			t.Fatalf("expected generated ID and timestamp, got %+v", house)
		}

		got, err := store.GetHouse(ctx, house.ID)
		if err != nil {
			t.Fatalf("GetHouse failed: %v", err)
		}
		if got.Name != "Casa Azul" || got.Complement != "" {
			t.Errorf("unexpected house: %+v", got)
		}

		houses, err := store.ListHousesByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListHousesByOwner failed: %v", err)
		}
		if len(houses) == 0 {
			t.Error("expected at least one house")
		}

		if err := store.DeleteHouse(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting unknown house, got %v", err)
		}
	})

	t.Run("rooms are unique per house", func(t *testing.T) {
		a := newHouse(t, "A")
		b := newHouse(t, "B")

		if err := store.CreateRoom(ctx, &models.Room{HouseID: a.ID, Number: 1}); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if err := store.CreateRoom(ctx, &models.Room{HouseID: a.ID, Number: 1}); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		if err := store.CreateRoom(ctx, &models.Room{HouseID: b.ID, Number: 1}); err != nil {
			t.Errorf("same number in another house should be allowed: %v", err)
		}
	})

	t.Run("active uniqueness is released on departure", func(t *testing.T) {
		house := newHouse(t, "Lifecycle")
		room := &models.Room{HouseID: house.ID, Number: 7}
		if err := store.CreateRoom(ctx, room); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		first := newMember(t, house.ID, "rui", room.ID)

		clash := &models.Member{HouseID: house.ID, FullName: "Other", Email: "rui@m.test", Phone: "other"}
		if err := store.CreateMember(ctx, clash); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict for active email, got %v", err)
		}
		roommate := &models.Member{HouseID: house.ID, FullName: "Other", Email: "x@m.test", Phone: "x", RoomID: room.ID}
		if err := store.CreateMember(ctx, roommate); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict for occupied room, got %v", err)
		}

		if err := store.DeactivateMember(ctx, house.ID, first.ID, time.Now().Unix()); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}
		if err := store.DeactivateMember(ctx, house.ID, first.ID, time.Now().Unix()); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound deactivating twice, got %v", err)
		}

		departed, err := store.GetMember(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if departed.Active() || departed.RoomID != "" {
			t.Errorf("expected departed member without room, got %+v", departed)
		}

		again := newMember(t, house.ID, "rui", room.ID)
		if found, err := store.FindActiveMemberByEmail(ctx, "rui@m.test"); err != nil || found == nil || found.ID != again.ID {
			t.Errorf("expected the returning member to be active, got %+v, %v", found, err)
		}

		n, err := store.CountActiveMembers(ctx, house.ID)
		if err != nil {
			t.Fatalf("CountActiveMembers failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 active member, got %d", n)
		}
		all, err := store.ListMembers(ctx, house.ID, true)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 members including departed, got %d", len(all))
		}
	})

	t.Run("Find returns nil when nothing matches", func(t *testing.T) {
		m, err := store.FindActiveMemberByPhone(ctx, "nobody")
		if err != nil || m != nil {
			t.Errorf("expected nil, nil; got %+v, %v", m, err)
		}
	})

	t.Run("payments are unique per member and expense", func(t *testing.T) {
		house := newHouse(t, "Payments")
		m := newMember(t, house.ID, "pia", "")
		e := newExpense(t, house.ID, "2026-03-10")

		if err := store.CreatePayment(ctx, &models.Payment{MemberID: m.ID, ExpenseID: e.ID, Amount: 90}); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		if err := store.CreatePayment(ctx, &models.Payment{MemberID: m.ID, ExpenseID: e.ID, Amount: 90}); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}

		paid, err := store.HasPayment(ctx, m.ID, e.ID)
		if err != nil || !paid {
			t.Errorf("expected HasPayment true, got %v, %v", paid, err)
		}
		n, err := store.CountPayments(ctx, e.ID)
		if err != nil || n != 1 {
			t.Errorf("expected 1 payment, got %d, %v", n, err)
		}
	})

	t.Run("expenses are scoped to their house", func(t *testing.T) {
		a := newHouse(t, "Scope A")
		b := newHouse(t, "Scope B")
		e := newExpense(t, a.ID, "2026-03-10")

		if _, err := store.GetExpense(ctx, b.ID, e.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound across houses, got %v", err)
		}
		got, err := store.GetExpense(ctx, a.ID, e.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Status != models.StatusPending || got.DueDate.Format(models.DateLayout) != "2026-03-10" {
			t.Errorf("unexpected expense: %+v", got)
		}
	})

	t.Run("MarkOverdueExpenses", func(t *testing.T) {
		house := newHouse(t, "Overdue")
		past := newExpense(t, house.ID, "2020-01-01")
		future := newExpense(t, house.ID, "2999-01-01")

		if _, err := store.MarkOverdueExpenses(ctx, "2026-01-01"); err != nil {
			t.Fatalf("MarkOverdueExpenses failed: %v", err)
		}

		got, _ := store.GetExpense(ctx, house.ID, past.ID)
		if got.Status != models.StatusOverdue {
			t.Errorf("past expense: expected overdue, got %s", got.Status)
		}
		got, _ = store.GetExpense(ctx, house.ID, future.ID)
		if got.Status != models.StatusPending {
			t.Errorf("future expense: expected pending, got %s", got.Status)
		}
	})

	t.Run("InTx rolls back on error", func(t *testing.T) {
		house := newHouse(t, "Tx")
		boom := errors.New("boom")

		err := store.InTx(ctx, func(q storage.Queries) error {
			if err := q.CreateRoom(ctx, &models.Room{HouseID: house.ID, Number: 42}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error back, got %v", err)
		}

		rooms, err := store.ListRooms(ctx, house.ID)
		if err != nil {
			t.Fatalf("ListRooms failed: %v", err)
		}
		if len(rooms) != 0 {
			t.Errorf("expected rollback, found %d rooms", len(rooms))
		}
	})

	t.Run("DeleteHouse cascades", func(t *testing.T) {
		house := newHouse(t, "Cascade")
		m := newMember(t, house.ID, "cid", "")
		e := newExpense(t, house.ID, "2026-03-10")
		if err := store.CreatePayment(ctx, &models.Payment{MemberID: m.ID, ExpenseID: e.ID, Amount: 90}); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		if err := store.DeleteHouse(ctx, house.ID); err != nil {
			t.Fatalf("DeleteHouse failed: %v", err)
		}
		if _, err := store.GetMember(ctx, m.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected member gone, got %v", err)
		}
		payments, err := store.ListPaymentsByExpense(ctx, e.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByExpense failed: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("expected payments gone, got %d", len(payments))
		}
	})
}
