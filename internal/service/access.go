package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/auth"
	"github.com/Republica-Facil/republica-facil-backend/internal/middleware"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

// HouseLookup is the read the ownership check needs.
type HouseLookup interface {
	GetHouse(ctx context.Context, houseID string) (*models.House, error)
}

// authorizeHouse resolves the house before anything else, then checks that
// the caller owns it.
func authorizeHouse(ctx context.Context, houses HouseLookup, houseID string) (*models.House, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	house, err := houses.GetHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}
	if !house.OwnedBy(userID) {
		return nil, fmt.Errorf("%w: house %s", models.ErrPermissionDenied, houseID)
	}
	return house, nil
}
