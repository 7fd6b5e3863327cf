// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys and the busy timeout are per connection, so set them in the DSN.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = bill.CreatedAt
	if bill.Title == "" {
		bill.Title = generateTitle(bill)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, title, currency, total_amount, period_start, period_end, household_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.Currency, bill.TotalAmount, bill.PeriodStart, bill.PeriodEnd,
		nullString(bill.HouseholdID), bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including its lines, presence and roster.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return getBill(ctx, s.db, billID)
}

// UpdateBill replaces a bill's fields and children. CreatedAt is preserved.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var createdAt int64
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM bills WHERE id = ?", bill.ID).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}

	bill.CreatedAt = createdAt
	bill.UpdatedAt = time.Now().Unix()
	if bill.Title == "" {
		bill.Title = generateTitle(bill)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bills SET title = ?, currency = ?, total_amount = ?, period_start = ?, period_end = ?,
		 household_id = ?, updated_at = ? WHERE id = ?`,
		bill.Title, bill.Currency, bill.TotalAmount, bill.PeriodStart, bill.PeriodEnd,
		nullString(bill.HouseholdID), bill.UpdatedAt, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	for _, table := range []string{"bill_lines", "bill_presence", "bill_people"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE bill_id = ?", bill.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBills returns bills newest first, optionally restricted to one household.
func (s *SQLiteStore) ListBills(ctx context.Context, householdID string) ([]*models.Bill, error) {
	query := "SELECT id FROM bills ORDER BY created_at DESC, id"
	var args []any
	if householdID != "" {
		query = "SELECT id FROM bills WHERE household_id = ? ORDER BY created_at DESC, id"
		args = append(args, householdID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := getBill(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// DeleteBill removes a bill. Lines, presence and roster rows cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}

func getBill(ctx context.Context, q querier, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var householdID sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, title, currency, total_amount, period_start, period_end, household_id, created_at, updated_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Title, &bill.Currency, &bill.TotalAmount, &bill.PeriodStart, &bill.PeriodEnd,
		&householdID, &bill.CreatedAt, &bill.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.HouseholdID = householdID.String

	// Get lines
	rows, err := q.QueryContext(ctx,
		"SELECT name, description, tax_rate, amount, split FROM bill_lines WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get lines: %w", err)
	}
	for rows.Next() {
		var line models.Line
		if err := rows.Scan(&line.Name, &line.Description, &line.TaxRate, &line.Amount, &line.Split); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		bill.Lines = append(bill.Lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lines: %w", err)
	}

	// Get presence
	rows, err = q.QueryContext(ctx,
		"SELECT name, start_date, end_date FROM bill_presence WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get presence: %w", err)
	}
	for rows.Next() {
		var p models.Presence
		if err := rows.Scan(&p.Name, &p.Start, &p.End); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan presence: %w", err)
		}
		bill.Presence = append(bill.Presence, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presence: %w", err)
	}

	// Get roster
	bill.People, err = queryNames(ctx, q,
		"SELECT name FROM bill_people WHERE bill_id = ? ORDER BY position", billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}

	return bill, nil
}

func insertBillChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i, line := range bill.Lines {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_lines (bill_id, position, name, description, tax_rate, amount, split) VALUES (?, ?, ?, ?, ?, ?, ?)",
			bill.ID, i, line.Name, line.Description, line.TaxRate, line.Amount, line.Split,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line: %w", err)
		}
	}

	for i, p := range bill.Presence {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_presence (bill_id, position, name, start_date, end_date) VALUES (?, ?, ?, ?, ?)",
			bill.ID, i, p.Name, p.Start, p.End,
		)
		if err != nil {
			return fmt.Errorf("failed to insert presence: %w", err)
		}
	}

	for i, name := range bill.People {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_people (bill_id, position, name) VALUES (?, ?, ?)",
			bill.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	return nil
}

func queryNames(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// generateTitle creates an auto-generated title from the roster, falling back to the period.
func generateTitle(bill *models.Bill) string {
	people := bill.People
	switch {
	case len(people) == 0 && bill.PeriodStart != "":
		return fmt.Sprintf("Bill %s..%s", bill.PeriodStart, bill.PeriodEnd)
	case len(people) == 0:
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	case len(people) <= 3:
		return fmt.Sprintf("Split with %s", strings.Join(people, ", "))
	default:
		return fmt.Sprintf("Split with %s and %d others",
			strings.Join(people[:2], ", "),
			len(people)-2,
		)
	}
}
