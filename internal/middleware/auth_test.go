package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/auth"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

type empty struct{}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("ana@example.com", "Ana", "1", "hash")
	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen Caller
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = CallerFrom(ctx)
		return connect.NewResponse(&empty{}), nil
	}
	handler := RequireAuth(jwtManager)(next)

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid token", "Bearer " + token, false},
		{"lowercase scheme", "bearer " + token, false},
		{"missing header", "", true},
		{"wrong scheme", "Basic " + token, true},
		{"garbage token", "Bearer not-a-jwt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = Caller{}
			req := connect.NewRequest(&empty{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.wantErr {
				if connect.CodeOf(err) != connect.CodeUnauthenticated {
					t.Errorf("expected Unauthenticated, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen.UserID != user.ID || seen.Email != user.Email {
				t.Errorf("caller: expected %s/%s, got %+v", user.ID, user.Email, seen)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	var userID string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		userID = GetUserID(ctx)
		return connect.NewResponse(&empty{}), nil
	}

	req := connect.NewRequest(&empty{})
	req.Header().Set("Authorization", "Bearer not-a-jwt")
	if _, err := OptionalAuth(jwtManager)(next)(context.Background(), req); err != nil {
		t.Fatalf("expected anonymous request to pass, got %v", err)
	}
	if userID != "" {
		t.Errorf("expected no caller, got %q", userID)
	}
}
