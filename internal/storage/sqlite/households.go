package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// CreateHousehold inserts a new household and its members.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = uuid.New().String()
	}
	if household.CreatedAt == 0 {
		household.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO households (id, name, created_at) VALUES (?, ?, ?)",
		household.ID, household.Name, household.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}

	members, err := appendMembers(ctx, tx, household.ID, household.Members)
	if err != nil {
		return err
	}
	household.Members = members

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household and its members in roster order.
func (s *SQLiteStore) GetHousehold(ctx context.Context, householdID string) (*models.Household, error) {
	return getHousehold(ctx, s.db, householdID)
}

// ListHouseholds returns all households, newest first.
func (s *SQLiteStore) ListHouseholds(ctx context.Context) ([]*models.Household, error) {
	ids, err := queryNames(ctx, s.db, "SELECT id FROM households ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	households := make([]*models.Household, 0, len(ids))
	for _, id := range ids {
		h, err := getHousehold(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		households = append(households, h)
	}
	return households, nil
}

// AddHouseholdMembers appends names that are not yet on the household's roster.
func (s *SQLiteStore) AddHouseholdMembers(ctx context.Context, householdID string, names []string) error {
	if _, err := getHousehold(ctx, s.db, householdID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := appendMembers(ctx, tx, householdID, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func getHousehold(ctx context.Context, q querier, householdID string) (*models.Household, error) {
	h := &models.Household{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM households WHERE id = ?",
		householdID,
	).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %s: %w", householdID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	h.Members, err = queryNames(ctx, q,
		"SELECT name FROM household_members WHERE household_id = ? ORDER BY position", householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to get household members: %w", err)
	}
	return h, nil
}

// appendMembers appends each name not already on the roster at the next free
// position, in order, and returns the names it added. The position is taken
// inside the INSERT so concurrent writers never share one.
func appendMembers(ctx context.Context, q querier, householdID string, names []string) ([]string, error) {
	added := make([]string, 0, len(names))
	for _, name := range names {
		res, err := q.ExecContext(ctx, `
			INSERT INTO household_members (household_id, position, name)
			SELECT ?, COALESCE(MAX(position), -1) + 1, ?
			FROM household_members WHERE household_id = ?
			ON CONFLICT (household_id, name) DO NOTHING`,
			householdID, name, householdID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add household member: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, fmt.Errorf("failed to add household member: %w", err)
		} else if n > 0 {
			added = append(added, name)
		}
	}
	return added, nil
}
