package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	store    storage.Store
	validate *validator.Validate
}

// NewHouseholdService creates a new HouseholdService with the given storage backend.
func NewHouseholdService(store storage.Store) *HouseholdService {
	return &HouseholdService{store: store, validate: newValidator()}
}

// CreateHousehold creates a new household.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("CreateHousehold: invalid request", err)
	}

	slog.Info("CreateHousehold request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	household := &models.Household{
		Name:    req.Msg.Name,
		Members: req.Msg.Members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateHousehold(ctx, household); err != nil {
		return nil, connectError("CreateHousehold failed", err)
	}

	slog.Info("Household created", "household_id", household.ID)

	return connect.NewResponse(&CreateHouseholdResponse{Household: householdMessage(household)}), nil
}

// GetHousehold retrieves a household by ID.
func (s *HouseholdService) GetHousehold(ctx context.Context, req *connect.Request[GetHouseholdRequest]) (*connect.Response[GetHouseholdResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("GetHousehold: invalid request", err)
	}

	household, err := s.store.GetHousehold(ctx, req.Msg.HouseholdID)
	if err != nil {
		return nil, connectError("GetHousehold failed", err, "household_id", req.Msg.HouseholdID)
	}

	return connect.NewResponse(&GetHouseholdResponse{Household: householdMessage(household)}), nil
}

// ListHouseholds retrieves all households.
func (s *HouseholdService) ListHouseholds(ctx context.Context, req *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error) {
	households, err := s.store.ListHouseholds(ctx)
	if err != nil {
		return nil, connectError("ListHouseholds failed", err)
	}

	out := make([]Household, len(households))
	for i, h := range households {
		out[i] = householdMessage(h)
	}
	return connect.NewResponse(&ListHouseholdsResponse{Households: out}), nil
}

// AddHouseholdMembers appends members to a household's roster.
func (s *HouseholdService) AddHouseholdMembers(ctx context.Context, req *connect.Request[AddHouseholdMembersRequest]) (*connect.Response[AddHouseholdMembersResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("AddHouseholdMembers: invalid request", err)
	}

	if err := s.store.AddHouseholdMembers(ctx, req.Msg.HouseholdID, req.Msg.Members); err != nil {
		return nil, connectError("AddHouseholdMembers failed", err, "household_id", req.Msg.HouseholdID)
	}

	household, err := s.store.GetHousehold(ctx, req.Msg.HouseholdID)
	if err != nil {
		return nil, connectError("AddHouseholdMembers: reload failed", err, "household_id", req.Msg.HouseholdID)
	}
	slog.Info("Household members added", "household_id", household.ID, "members", household.Members)

	return connect.NewResponse(&AddHouseholdMembersResponse{Household: householdMessage(household)}), nil
}
