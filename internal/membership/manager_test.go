package membership

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Republica-Facil/republica-facil-backend/internal/cache"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage/sqldb"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage/sqlite"
	"github.com/Republica-Facil/republica-facil-backend/pkg/logging"
)

func setupManager(t *testing.T) (*Manager, *sqldb.Store) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewManager(store, cache.Unavailable{}, logging.Discard()), store
}

func createHouse(t *testing.T, store *sqldb.Store, name string) *models.House {
	t.Helper()
	ctx := context.Background()

	owner := models.NewUser(name+"@owner.test", "Owner "+name, "+5500000000", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	house := &models.House{
		OwnerID: owner.ID, Name: name, PostalCode: "70000-000", Street: "Rua A",
		Number: "1", District: "Centro", City: "Brasília", State: "DF",
	}
	if err := store.CreateHouse(ctx, house); err != nil {
		t.Fatalf("CreateHouse failed: %v", err)
	}
	return house
}

func TestCreateMember(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t)
	house := createHouse(t, store, "alpha")
	other := createHouse(t, store, "beta")

	room, err := m.CreateRoom(ctx, house.ID, 1)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	foreignRoom, err := m.CreateRoom(ctx, other.ID, 1)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	ana, err := m.CreateMember(ctx, house.ID, MemberInput{
		FullName: "Ana", Email: "Ana@Example.com", Phone: "111", RoomID: room.ID,
	})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if !ana.Active() || ana.DepartedAt != 0 {
		t.Errorf("new member should be active, got %+v", ana)
	}
	if ana.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", ana.Email)
	}

	tests := []struct {
		name    string
		houseID string
		in      MemberInput
		wantErr error
	}{
		{"unknown house", "missing", MemberInput{FullName: "X", Email: "x@x.test", Phone: "9"}, models.ErrNotFound},
		{"email used by active member", house.ID, MemberInput{FullName: "X", Email: "ana@example.com", Phone: "9"}, models.ErrConflict},
		{"email used in another house", other.ID, MemberInput{FullName: "X", Email: "ana@example.com", Phone: "9"}, models.ErrConflict},
		{"phone used by active member", house.ID, MemberInput{FullName: "X", Email: "x@x.test", Phone: "111"}, models.ErrConflict},
		{"unknown room", house.ID, MemberInput{FullName: "X", Email: "x@x.test", Phone: "9", RoomID: "missing"}, models.ErrNotFound},
		{"room of another house", house.ID, MemberInput{FullName: "X", Email: "x@x.test", Phone: "9", RoomID: foreignRoom.ID}, models.ErrInvalidRelation},
		{"occupied room", house.ID, MemberInput{FullName: "X", Email: "x@x.test", Phone: "9", RoomID: room.ID}, models.ErrConflict},
		{"missing name", house.ID, MemberInput{Email: "x@x.test", Phone: "9"}, models.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CreateMember(ctx, tt.houseID, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("house is checked before contact", func(t *testing.T) {
		_, err := m.CreateMember(ctx, "missing", MemberInput{FullName: "X", Email: "ana@example.com", Phone: "111"})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestDeactivateMember(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t)
	house := createHouse(t, store, "alpha")
	room, _ := m.CreateRoom(ctx, house.ID, 7)

	ana, err := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "111", RoomID: room.ID})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	departed, err := m.DeactivateMember(ctx, house.ID, ana.ID)
	if err != nil {
		t.Fatalf("DeactivateMember failed: %v", err)
	}
	if departed.Active() || departed.DepartedAt == 0 {
		t.Errorf("member should be departed, got %+v", departed)
	}
	if departed.HasRoom() {
		t.Errorf("departed member should not hold a room, got %q", departed.RoomID)
	}

	t.Run("second deactivation is NotFound", func(t *testing.T) {
		if _, err := m.DeactivateMember(ctx, house.ID, ana.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("wrong house is NotFound", func(t *testing.T) {
		other := createHouse(t, store, "beta")
		bia, _ := m.CreateMember(ctx, other.ID, MemberInput{FullName: "Bia", Email: "bia@x.test", Phone: "222"})
		if _, err := m.DeactivateMember(ctx, house.ID, bia.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("room and contacts are reusable", func(t *testing.T) {
		again, err := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana Again", Email: "ana@x.test", Phone: "111", RoomID: room.ID})
		if err != nil {
			t.Fatalf("expected reuse to succeed, got %v", err)
		}
		if again.ID == ana.ID {
			t.Error("expected a new member record")
		}
	})

	t.Run("list filters departed members", func(t *testing.T) {
		active, err := m.ListMembers(ctx, house.ID, false)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		for _, member := range active {
			if !member.Active() {
				t.Errorf("departed member %s listed as active", member.ID)
			}
		}
		all, err := m.ListMembers(ctx, house.ID, true)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(all) != len(active)+1 {
			t.Errorf("expected one departed member in full list, got %d vs %d", len(all), len(active))
		}
	})

	t.Run("departed member cannot be reassigned or updated", func(t *testing.T) {
		if _, err := m.ReassignRoom(ctx, house.ID, ana.ID, ""); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("ReassignRoom: expected NotFound, got %v", err)
		}
		if _, err := m.UpdateMember(ctx, house.ID, ana.ID, MemberInput{FullName: "A", Email: "new@x.test", Phone: "333"}); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("UpdateMember: expected NotFound, got %v", err)
		}
	})

	t.Run("list on unknown house", func(t *testing.T) {
		if _, err := m.ListMembers(ctx, "missing", false); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestReassignRoom(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t)
	house := createHouse(t, store, "alpha")
	other := createHouse(t, store, "beta")
	r1, _ := m.CreateRoom(ctx, house.ID, 1)
	r2, _ := m.CreateRoom(ctx, house.ID, 2)
	foreign, _ := m.CreateRoom(ctx, other.ID, 1)

	ana, _ := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "1", RoomID: r1.ID})
	bia, _ := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Bia", Email: "bia@x.test", Phone: "2"})

	t.Run("move to free room", func(t *testing.T) {
		got, err := m.ReassignRoom(ctx, house.ID, bia.ID, r2.ID)
		if err != nil {
			t.Fatalf("ReassignRoom failed: %v", err)
		}
		if got.RoomID != r2.ID {
			t.Errorf("RoomID = %q, want %q", got.RoomID, r2.ID)
		}
	})

	t.Run("occupied room", func(t *testing.T) {
		if _, err := m.ReassignRoom(ctx, house.ID, bia.ID, r1.ID); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected Conflict, got %v", err)
		}
	})

	t.Run("same room is a no-op", func(t *testing.T) {
		if _, err := m.ReassignRoom(ctx, house.ID, ana.ID, r1.ID); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})

	t.Run("foreign room", func(t *testing.T) {
		if _, err := m.ReassignRoom(ctx, house.ID, ana.ID, foreign.ID); !errors.Is(err, models.ErrInvalidRelation) {
			t.Errorf("expected InvalidRelation, got %v", err)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		if _, err := m.ReassignRoom(ctx, house.ID, ana.ID, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("clear room", func(t *testing.T) {
		got, err := m.ReassignRoom(ctx, house.ID, ana.ID, "")
		if err != nil {
			t.Fatalf("ReassignRoom failed: %v", err)
		}
		if got.HasRoom() {
			t.Errorf("expected no room, got %q", got.RoomID)
		}
		// r1 is free now.
		if _, err := m.ReassignRoom(ctx, house.ID, bia.ID, r1.ID); err != nil {
			t.Errorf("expected r1 to be free, got %v", err)
		}
	})

	t.Run("member of another house", func(t *testing.T) {
		cid, _ := m.CreateMember(ctx, other.ID, MemberInput{FullName: "Cid", Email: "cid@x.test", Phone: "3"})
		if _, err := m.ReassignRoom(ctx, house.ID, cid.ID, r2.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestUpdateMember(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t)
	house := createHouse(t, store, "alpha")

	ana, _ := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "1"})
	bia, _ := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Bia", Email: "bia@x.test", Phone: "2"})

	t.Run("keeping own contacts is allowed", func(t *testing.T) {
		got, err := m.UpdateMember(ctx, house.ID, ana.ID, MemberInput{FullName: "Ana Maria", Email: "ana@x.test", Phone: "1"})
		if err != nil {
			t.Fatalf("UpdateMember failed: %v", err)
		}
		if got.FullName != "Ana Maria" {
			t.Errorf("FullName = %q", got.FullName)
		}
	})

	t.Run("taking another active member's email", func(t *testing.T) {
		_, err := m.UpdateMember(ctx, house.ID, ana.ID, MemberInput{FullName: "Ana", Email: "bia@x.test", Phone: "1"})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected Conflict, got %v", err)
		}
	})

	t.Run("taking a departed member's phone", func(t *testing.T) {
		if _, err := m.DeactivateMember(ctx, house.ID, bia.ID); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}
		if _, err := m.UpdateMember(ctx, house.ID, ana.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "2"}); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})
}

func TestRooms(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t)
	house := createHouse(t, store, "alpha")

	r3, err := m.CreateRoom(ctx, house.ID, 3)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := m.CreateRoom(ctx, house.ID, 1); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	t.Run("duplicate number", func(t *testing.T) {
		if _, err := m.CreateRoom(ctx, house.ID, 3); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected Conflict, got %v", err)
		}
	})

	t.Run("invalid number", func(t *testing.T) {
		if _, err := m.CreateRoom(ctx, house.ID, 0); !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("list ordered by number", func(t *testing.T) {
		rooms, err := m.ListRooms(ctx, house.ID)
		if err != nil {
			t.Fatalf("ListRooms failed: %v", err)
		}
		if len(rooms) != 2 || rooms[0].Number != 1 || rooms[1].Number != 3 {
			t.Errorf("unexpected rooms: %+v", rooms)
		}
	})

	t.Run("occupied room cannot be deleted", func(t *testing.T) {
		ana, _ := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "1", RoomID: r3.ID})
		if err := m.DeleteRoom(ctx, house.ID, r3.ID); !errors.Is(err, models.ErrConflict) {
			t.Errorf("expected Conflict, got %v", err)
		}

		if _, err := m.DeactivateMember(ctx, house.ID, ana.ID); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}
		if err := m.DeleteRoom(ctx, house.ID, r3.ID); err != nil {
			t.Errorf("expected delete after departure, got %v", err)
		}
	})

	t.Run("room of another house", func(t *testing.T) {
		other := createHouse(t, store, "beta")
		foreign, _ := m.CreateRoom(ctx, other.ID, 1)
		if err := m.DeleteRoom(ctx, house.ID, foreign.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestInvalidatesSummaryCache(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	mem := cache.NewMemory()
	m := NewManager(store, mem, logging.Discard())
	house := createHouse(t, store, "alpha")

	key := cache.HouseSummaryKey(house.ID)
	mem.Set(ctx, key, []byte("stale"), time.Hour)

	if _, err := m.CreateMember(ctx, house.ID, MemberInput{FullName: "Ana", Email: "ana@x.test", Phone: "1"}); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if _, err := mem.Get(ctx, key); !errors.Is(err, cache.ErrMiss) {
		t.Errorf("expected summary to be invalidated, got %v", err)
	}
}
