// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrNotFound is returned when a bill or household does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for bill and household storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateBill persists a new bill.
	// The bill.ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns an error wrapping ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces an existing bill, including its lines, presence and roster.
	// Returns an error wrapping ErrNotFound if the bill does not exist.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// ListBills returns bills newest first. An empty householdID lists all bills.
	ListBills(ctx context.Context, householdID string) ([]*models.Bill, error)

	// DeleteBill removes a bill and everything attached to it.
	DeleteBill(ctx context.Context, billID string) error

	// CreateHousehold persists a new household.
	CreateHousehold(ctx context.Context, household *models.Household) error

	// GetHousehold retrieves a household by its ID.
	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)

	// ListHouseholds returns all households, newest first.
	ListHouseholds(ctx context.Context) ([]*models.Household, error)

	// AddHouseholdMembers appends names to a household's roster.
	// Names already on the roster are skipped.
	AddHouseholdMembers(ctx context.Context, householdID string, names []string) error

	// Close releases any resources held by the store.
	Close() error
}
