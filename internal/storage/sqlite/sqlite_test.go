package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage/storagetest"
)

func TestSQLiteStore(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "republica.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	user := models.NewUser("keep@example.com", "Keep", "0", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	store.Close()

	store, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if _, err := store.GetUserByID(ctx, user.ID); err != nil {
		t.Errorf("expected user to survive reopen: %v", err)
	}
}

// Concurrent inserts of the same payment must leave exactly one row.
func TestConcurrentDuplicatePayments(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	owner := models.NewUser("o@example.com", "O", "0", "hash")
	store.CreateUser(ctx, owner)
	house := &models.House{OwnerID: owner.ID, Name: "h", PostalCode: "0", Street: "s", Number: "1", District: "d", City: "c", State: "DF"}
	if err := store.CreateHouse(ctx, house); err != nil {
		t.Fatalf("CreateHouse failed: %v", err)
	}
	member := &models.Member{HouseID: house.ID, FullName: "m", Email: "m@m.test", Phone: "1"}
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	due, _ := models.ParseDate("2026-03-10")
	expense := &models.Expense{HouseID: house.ID, Description: "x", Amount: 10, DueDate: due, Category: models.CategoryOther}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.CreatePayment(ctx, &models.Payment{MemberID: member.ID, ExpenseID: expense.ID, Amount: 10})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, models.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != workers-1 {
		t.Errorf("expected 1 success and %d conflicts, got %d and %d", workers-1, ok, conflicts)
	}
}
