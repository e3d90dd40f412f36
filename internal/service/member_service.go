package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/membership"
	apiv1 "github.com/Republica-Facil/republica-facil-backend/pkg/api/v1"
)

// MemberService exposes rooms and the member lifecycle of a house.
type MemberService struct {
	houses  HouseLookup
	manager *membership.Manager
	logger  *slog.Logger
}

func NewMemberService(houses HouseLookup, manager *membership.Manager, logger *slog.Logger) *MemberService {
	return &MemberService{houses: houses, manager: manager, logger: logger}
}

// Handler mounts the service. opts must authenticate the caller.
func (s *MemberService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{apiv1.WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(apiv1.MemberServiceCreateRoomProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceCreateRoomProcedure, s.CreateRoom, opts...))
	mux.Handle(apiv1.MemberServiceListRoomsProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceListRoomsProcedure, s.ListRooms, opts...))
	mux.Handle(apiv1.MemberServiceDeleteRoomProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceDeleteRoomProcedure, s.DeleteRoom, opts...))
	mux.Handle(apiv1.MemberServiceCreateMemberProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceCreateMemberProcedure, s.CreateMember, opts...))
	mux.Handle(apiv1.MemberServiceGetMemberProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceGetMemberProcedure, s.GetMember, opts...))
	mux.Handle(apiv1.MemberServiceListMembersProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceListMembersProcedure, s.ListMembers, opts...))
	mux.Handle(apiv1.MemberServiceUpdateMemberProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceUpdateMemberProcedure, s.UpdateMember, opts...))
	mux.Handle(apiv1.MemberServiceReassignRoomProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceReassignRoomProcedure, s.ReassignRoom, opts...))
	mux.Handle(apiv1.MemberServiceDeactivateMemberProcedure, connect.NewUnaryHandler(
		apiv1.MemberServiceDeactivateMemberProcedure, s.DeactivateMember, opts...))
	return "/" + apiv1.MemberServiceName + "/", mux
}

func (s *MemberService) CreateRoom(ctx context.Context, req *connect.Request[apiv1.CreateRoomRequest]) (*connect.Response[apiv1.CreateRoomResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "CreateRoom", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "CreateRoom", err)
	}

	room, err := s.manager.CreateRoom(ctx, req.Msg.HouseID, req.Msg.Number)
	if err != nil {
		return nil, toConnectError(s.logger, "CreateRoom", err)
	}
	return connect.NewResponse(&apiv1.CreateRoomResponse{Room: roomToAPI(room)}), nil
}

func (s *MemberService) ListRooms(ctx context.Context, req *connect.Request[apiv1.ListRoomsRequest]) (*connect.Response[apiv1.ListRoomsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "ListRooms", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "ListRooms", err)
	}

	rooms, err := s.manager.ListRooms(ctx, req.Msg.HouseID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListRooms", err)
	}
	return connect.NewResponse(&apiv1.ListRoomsResponse{Rooms: mapSlice(rooms, roomToAPI)}), nil
}

func (s *MemberService) DeleteRoom(ctx context.Context, req *connect.Request[apiv1.DeleteRoomRequest]) (*connect.Response[apiv1.DeleteRoomResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "DeleteRoom", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "DeleteRoom", err)
	}

	if err := s.manager.DeleteRoom(ctx, req.Msg.HouseID, req.Msg.RoomID); err != nil {
		return nil, toConnectError(s.logger, "DeleteRoom", err)
	}
	return connect.NewResponse(&apiv1.DeleteRoomResponse{}), nil
}

// CreateMember adds an active member to a house.
func (s *MemberService) CreateMember(ctx context.Context, req *connect.Request[apiv1.CreateMemberRequest]) (*connect.Response[apiv1.CreateMemberResponse], error) {
	s.logger.Info("CreateMember request", "house_id", req.Msg.HouseID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "CreateMember", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "CreateMember", err)
	}

	member, err := s.manager.CreateMember(ctx, req.Msg.HouseID, membership.MemberInput{
		FullName: req.Msg.FullName,
		Email:    req.Msg.Email,
		Phone:    req.Msg.Phone,
		RoomID:   req.Msg.RoomID,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "CreateMember", err)
	}
	return connect.NewResponse(&apiv1.CreateMemberResponse{Member: memberToAPI(member)}), nil
}

func (s *MemberService) GetMember(ctx context.Context, req *connect.Request[apiv1.GetMemberRequest]) (*connect.Response[apiv1.GetMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "GetMember", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "GetMember", err)
	}

	member, err := s.manager.GetMember(ctx, req.Msg.HouseID, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetMember", err)
	}
	return connect.NewResponse(&apiv1.GetMemberResponse{Member: memberToAPI(member)}), nil
}

// ListMembers returns the active members, or everyone who ever lived in the
// house when IncludeInactive is set.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[apiv1.ListMembersRequest]) (*connect.Response[apiv1.ListMembersResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "ListMembers", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "ListMembers", err)
	}

	members, err := s.manager.ListMembers(ctx, req.Msg.HouseID, req.Msg.IncludeInactive)
	if err != nil {
		return nil, toConnectError(s.logger, "ListMembers", err)
	}
	return connect.NewResponse(&apiv1.ListMembersResponse{Members: mapSlice(members, memberToAPI)}), nil
}

func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[apiv1.UpdateMemberRequest]) (*connect.Response[apiv1.UpdateMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "UpdateMember", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "UpdateMember", err)
	}

	member, err := s.manager.UpdateMember(ctx, req.Msg.HouseID, req.Msg.MemberID, membership.MemberInput{
		FullName: req.Msg.FullName,
		Email:    req.Msg.Email,
		Phone:    req.Msg.Phone,
		RoomID:   req.Msg.RoomID,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "UpdateMember", err)
	}
	return connect.NewResponse(&apiv1.UpdateMemberResponse{Member: memberToAPI(member)}), nil
}

func (s *MemberService) ReassignRoom(ctx context.Context, req *connect.Request[apiv1.ReassignRoomRequest]) (*connect.Response[apiv1.ReassignRoomResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "ReassignRoom", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "ReassignRoom", err)
	}

	member, err := s.manager.ReassignRoom(ctx, req.Msg.HouseID, req.Msg.MemberID, req.Msg.RoomID)
	if err != nil {
		return nil, toConnectError(s.logger, "ReassignRoom", err)
	}
	return connect.NewResponse(&apiv1.ReassignRoomResponse{Member: memberToAPI(member)}), nil
}

// DeactivateMember records a member's departure. Their payments stay.
func (s *MemberService) DeactivateMember(ctx context.Context, req *connect.Request[apiv1.DeactivateMemberRequest]) (*connect.Response[apiv1.DeactivateMemberResponse], error) {
	s.logger.Info("DeactivateMember request", "house_id", req.Msg.HouseID, "member_id", req.Msg.MemberID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "DeactivateMember", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "DeactivateMember", err)
	}

	member, err := s.manager.DeactivateMember(ctx, req.Msg.HouseID, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(s.logger, "DeactivateMember", err)
	}
	return connect.NewResponse(&apiv1.DeactivateMemberResponse{Member: memberToAPI(member)}), nil
}
