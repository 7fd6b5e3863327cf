package service

// Messages for splitbill.v1. Decimal amounts travel as strings and dates as
// ISO-8601 strings.

// Line is one charge on a bill.
type Line struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	// TaxRate is fractional ("0.07" = 7%). Empty uses the server default.
	TaxRate string `json:"tax_rate,omitempty" validate:"omitempty,numeric"`
	Amount  string `json:"amount" validate:"required,numeric"`
	// Split marks a usage line. Omitted means true.
	Split *bool `json:"split,omitempty"`
}

// Presence is one period a person was present, both ends included.
type Presence struct {
	Name  string `json:"name" validate:"required"`
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// Money is an amount rendered three ways.
type Money struct {
	// Amount is rounded to the currency's minor units.
	Amount string `json:"amount"`
	// Exact is the unrounded amount.
	Exact string `json:"exact"`
	// Formatted carries the currency symbol, e.g. "$148.83".
	Formatted string `json:"formatted"`
}

// Totals are the usage and general sums of a bill.
type Totals struct {
	Currency string `json:"currency"`
	Usage    Money  `json:"usage"`
	General  Money  `json:"general"`
	Total    Money  `json:"total"`
}

// Portion is one person's share.
type Portion struct {
	Name    string `json:"name"`
	Usage   Money  `json:"usage"`
	General Money  `json:"general"`
	Total   Money  `json:"total"`
}

type TotalRequest struct {
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Lines    []Line `json:"lines" validate:"dive"`
}

type TotalResponse struct {
	Totals Totals `json:"totals"`
}

type ValidateRequest struct {
	Currency    string `json:"currency,omitempty" validate:"omitempty,len=3"`
	TotalAmount string `json:"total_amount" validate:"required,numeric"`
	Lines       []Line `json:"lines" validate:"dive"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
	// Error is "valid" or "line_sum_not_total".
	Error     string `json:"error"`
	LineTotal Money  `json:"line_total"`
	Totals    Totals `json:"totals"`
}

type SplitRequest struct {
	Currency    string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	Lines       []Line     `json:"lines" validate:"dive"`
	PeriodStart string     `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string     `json:"period_end" validate:"required,datetime=2006-01-02"`
	Presence    []Presence `json:"presence,omitempty" validate:"dive"`
	People      []string   `json:"people,omitempty" validate:"unique,dive,required"`
	HouseholdID string     `json:"household_id,omitempty"`
}

type SplitResponse struct {
	// People is the roster the bill was split among.
	People   []string  `json:"people"`
	Portions []Portion `json:"portions"`
	Totals   Totals    `json:"totals"`
}

// BillInput holds the writable fields of a stored bill.
type BillInput struct {
	Title       string     `json:"title,omitempty"`
	Currency    string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	TotalAmount string     `json:"total_amount" validate:"required,numeric"`
	PeriodStart string     `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string     `json:"period_end" validate:"required,datetime=2006-01-02"`
	Lines       []Line     `json:"lines" validate:"dive"`
	Presence    []Presence `json:"presence,omitempty" validate:"dive"`
	People      []string   `json:"people,omitempty" validate:"unique,dive,required"`
	HouseholdID string     `json:"household_id,omitempty"`
}

// Bill is a stored bill.
type Bill struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Currency    string     `json:"currency"`
	TotalAmount string     `json:"total_amount"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Lines       []Line     `json:"lines"`
	Presence    []Presence `json:"presence,omitempty"`
	People      []string   `json:"people,omitempty"`
	HouseholdID string     `json:"household_id,omitempty"`
	CreatedAt   int64      `json:"created_at"`
	UpdatedAt   int64      `json:"updated_at"`
}

// BillSummary is recomputed from a stored bill on every read.
type BillSummary struct {
	Totals Totals `json:"totals"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error"`
}

type CreateBillRequest struct {
	BillInput
}

type CreateBillResponse struct {
	Bill    Bill        `json:"bill"`
	Summary BillSummary `json:"summary"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type GetBillResponse struct {
	Bill    Bill        `json:"bill"`
	Summary BillSummary `json:"summary"`
}

type UpdateBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	BillInput
}

type UpdateBillResponse struct {
	Bill    Bill        `json:"bill"`
	Summary BillSummary `json:"summary"`
}

type ListBillsRequest struct {
	HouseholdID string `json:"household_id,omitempty"`
}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type DeleteBillResponse struct{}

type SplitStoredBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

// Household is a reusable roster.
type Household struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type CreateHouseholdRequest struct {
	Name    string   `json:"name" validate:"required"`
	Members []string `json:"members,omitempty" validate:"dive,required"`
}

type CreateHouseholdResponse struct {
	Household Household `json:"household"`
}

type GetHouseholdRequest struct {
	HouseholdID string `json:"household_id" validate:"required"`
}

type GetHouseholdResponse struct {
	Household Household `json:"household"`
}

type ListHouseholdsRequest struct{}

type ListHouseholdsResponse struct {
	Households []Household `json:"households"`
}

type AddHouseholdMembersRequest struct {
	HouseholdID string   `json:"household_id" validate:"required"`
	Members     []string `json:"members" validate:"min=1,dive,required"`
}

type AddHouseholdMembersResponse struct {
	Household Household `json:"household"`
}
