package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/auth"
	"github.com/Republica-Facil/republica-facil-backend/internal/middleware"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/settlement"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
	apiv1 "github.com/Republica-Facil/republica-facil-backend/pkg/api/v1"
)

// HouseService manages the houses a user owns.
type HouseService struct {
	store  storage.Store
	engine *settlement.Engine
	logger *slog.Logger
}

func NewHouseService(store storage.Store, engine *settlement.Engine, logger *slog.Logger) *HouseService {
	return &HouseService{store: store, engine: engine, logger: logger}
}

// Handler mounts the service. opts must authenticate the caller.
func (s *HouseService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{apiv1.WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(apiv1.HouseServiceCreateHouseProcedure, connect.NewUnaryHandler(
		apiv1.HouseServiceCreateHouseProcedure, s.CreateHouse, opts...))
	mux.Handle(apiv1.HouseServiceGetHouseProcedure, connect.NewUnaryHandler(
		apiv1.HouseServiceGetHouseProcedure, s.GetHouse, opts...))
	mux.Handle(apiv1.HouseServiceListHousesProcedure, connect.NewUnaryHandler(
		apiv1.HouseServiceListHousesProcedure, s.ListHouses, opts...))
	mux.Handle(apiv1.HouseServiceDeleteHouseProcedure, connect.NewUnaryHandler(
		apiv1.HouseServiceDeleteHouseProcedure, s.DeleteHouse, opts...))
	mux.Handle(apiv1.HouseServiceGetHouseSummaryProcedure, connect.NewUnaryHandler(
		apiv1.HouseServiceGetHouseSummaryProcedure, s.GetHouseSummary, opts...))
	return "/" + apiv1.HouseServiceName + "/", mux
}

// CreateHouse registers a house owned by the caller.
func (s *HouseService) CreateHouse(ctx context.Context, req *connect.Request[apiv1.CreateHouseRequest]) (*connect.Response[apiv1.CreateHouseResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "CreateHouse", err)
	}

	msg := req.Msg
	house := &models.House{
		OwnerID:    userID,
		Name:       strings.TrimSpace(msg.Name),
		PostalCode: msg.PostalCode,
		Street:     msg.Street,
		Number:     msg.Number,
		District:   msg.District,
		City:       msg.City,
		State:      msg.State,
		Complement: msg.Complement,
	}
	if err := s.store.CreateHouse(ctx, house); err != nil {
		return nil, toConnectError(s.logger, "CreateHouse", err)
	}

	s.logger.Info("House created", "house_id", house.ID, "owner_id", userID)
	return connect.NewResponse(&apiv1.CreateHouseResponse{House: houseToAPI(house)}), nil
}

// GetHouse returns one of the caller's houses.
func (s *HouseService) GetHouse(ctx context.Context, req *connect.Request[apiv1.GetHouseRequest]) (*connect.Response[apiv1.GetHouseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "GetHouse", err)
	}
	house, err := authorizeHouse(ctx, s.store, req.Msg.HouseID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetHouse", err)
	}
	return connect.NewResponse(&apiv1.GetHouseResponse{House: houseToAPI(house)}), nil
}

// ListHouses returns the caller's houses.
func (s *HouseService) ListHouses(ctx context.Context, req *connect.Request[apiv1.ListHousesRequest]) (*connect.Response[apiv1.ListHousesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	houses, err := s.store.ListHousesByOwner(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListHouses", err)
	}
	return connect.NewResponse(&apiv1.ListHousesResponse{Houses: mapSlice(houses, houseToAPI)}), nil
}

// DeleteHouse removes a house with its rooms, members, expenses and
// payments.
func (s *HouseService) DeleteHouse(ctx context.Context, req *connect.Request[apiv1.DeleteHouseRequest]) (*connect.Response[apiv1.DeleteHouseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "DeleteHouse", err)
	}
	if _, err := authorizeHouse(ctx, s.store, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "DeleteHouse", err)
	}
	if err := s.store.DeleteHouse(ctx, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "DeleteHouse", err)
	}

	s.logger.Info("House deleted", "house_id", req.Msg.HouseID)
	return connect.NewResponse(&apiv1.DeleteHouseResponse{}), nil
}

// GetHouseSummary reports collection progress per expense and per member.
func (s *HouseService) GetHouseSummary(ctx context.Context, req *connect.Request[apiv1.GetHouseSummaryRequest]) (*connect.Response[apiv1.GetHouseSummaryResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "GetHouseSummary", err)
	}
	if _, err := authorizeHouse(ctx, s.store, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "GetHouseSummary", err)
	}

	summary, err := s.engine.HouseSummary(ctx, req.Msg.HouseID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetHouseSummary", err)
	}
	return connect.NewResponse(&apiv1.GetHouseSummaryResponse{Summary: summaryToAPI(summary)}), nil
}
