package models

// Bill is a stored bill.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name for the bill.
	// Auto-generated from the roster or the period when empty.
	Title string

	// Currency is the ISO 4217 code every amount on the bill is in.
	Currency string

	// TotalAmount is the total printed on the bill, as a decimal string.
	TotalAmount string

	// PeriodStart and PeriodEnd bound the billing period (ISO-8601, inclusive).
	PeriodStart string
	PeriodEnd   string

	// HouseholdID optionally links the bill to a household roster.
	HouseholdID string

	// Lines are the charges, in order.
	Lines []Line

	// Presence lists who was present when.
	Presence []Presence

	// People is the roster the bill is split among, in display order.
	// Empty means: use the household's members.
	People []string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Line is one charge on a stored bill.
type Line struct {
	Name        string
	Description string

	// TaxRate is a fractional decimal string ("0.07" = 7%).
	TaxRate string

	// Amount is the pre-tax amount as a decimal string.
	Amount string

	// Split marks a usage line.
	Split bool
}

// Presence is one period a person was present (ISO-8601 dates, inclusive).
type Presence struct {
	Name  string
	Start string
	End   string
}
