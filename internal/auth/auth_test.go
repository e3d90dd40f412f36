package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return fmt.Errorf("%w: user", models.ErrConflict)
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, email)
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
}

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(newMemUsers())
	a.cost = bcrypt.MinCost
	return a
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	t.Run("Register hashes password", func(t *testing.T) {
		user, err := a.Register(ctx, Registration{
			Email:      " Ana@Example.com ",
			FullName:   "Ana Souza",
			Phone:      "+5561999990000",
			Credential: "password123",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Email != "ana@example.com" {
			t.Errorf("email not normalized: %q", user.Email)
		}
		if user.PasswordHash == "password123" || user.PasswordHash == "" {
			t.Error("password must be stored as a hash")
		}
	})

	t.Run("Register rejects duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, Registration{Email: "ana@example.com", FullName: "Other", Credential: "password123"})
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("Register rejects weak password", func(t *testing.T) {
		_, err := a.Register(ctx, Registration{Email: "bruno@example.com", FullName: "Bruno", Credential: "short"})
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "ANA@example.com", "password123"); err != nil {
			t.Errorf("expected success, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "ana@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("ana@example.com", "Ana", "", "hash")

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("secret", time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewJWTManager("secret", time.Hour).Generate(user)
		if _, err := NewJWTManager("other", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("secret", -time.Minute)
		token, _ := m.Generate(user)
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := NewJWTManager("secret", time.Hour).Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
