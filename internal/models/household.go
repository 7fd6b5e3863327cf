package models

// Household is a reusable roster of people who share bills.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name (e.g., "Flat 3B").
	Name string

	// Members are the participant names, in roster order.
	Members []string

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64
}
