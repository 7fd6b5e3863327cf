package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/internal/storage/sqlite"
)

type testClients struct {
	bills      *BillServiceClient
	households *HouseholdServiceClient
}

// setupTestServer serves both services over httptest with a temp SQLite database.
func setupTestServer(t *testing.T, defaults Defaults) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	billPath, billHandler := NewBillServiceHandler(NewBillService(store, defaults))
	mux.Handle(billPath, billHandler)
	householdPath, householdHandler := NewHouseholdServiceHandler(NewHouseholdService(store))
	mux.Handle(householdPath, householdHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		bills:      NewBillServiceClient(http.DefaultClient, server.URL),
		households: NewHouseholdServiceClient(http.DefaultClient, server.URL),
	}
}

func boolPtr(b bool) *bool { return &b }

// referenceLines are two general and two usage lines, half of them taxed at 7%.
func referenceLines() []Line {
	return []Line{
		{Name: "Water", TaxRate: "0.07", Amount: "30.95", Split: boolPtr(false)},
		{Name: "Electricity", TaxRate: "0", Amount: "30.95", Split: boolPtr(false)},
		{Name: "Gas", TaxRate: "0.07", Amount: "40.95"},
		{Name: "Sewer", TaxRate: "0", Amount: "40.95"},
	}
}

func referencePresence() []Presence {
	return []Presence{
		{Name: "One Week", Start: "2020-01-08", End: "2020-01-14"},
		{Name: "Two Weeks", Start: "2020-01-07", End: "2020-01-12"},
		{Name: "Two Weeks", Start: "2020-01-21", End: "2020-01-27"},
	}
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "unexpected error: %v", err)
}

func TestTotal(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	resp, err := c.bills.Total(context.Background(), connect.NewRequest(&TotalRequest{Lines: referenceLines()}))
	require.NoError(t, err)

	totals := resp.Msg.Totals
	assert.Equal(t, "USD", totals.Currency)
	assert.Equal(t, "64.07", totals.General.Amount)
	assert.Equal(t, "64.0665", totals.General.Exact)
	assert.Equal(t, "84.77", totals.Usage.Amount)
	assert.Equal(t, "$148.83", totals.Total.Formatted)
}

func TestTotal_DefaultTaxRate(t *testing.T) {
	c := setupTestServer(t, Defaults{TaxRate: decimal.RequireFromString("0.1")})

	resp, err := c.bills.Total(context.Background(), connect.NewRequest(&TotalRequest{
		Lines: []Line{{Name: "Internet", Amount: "50"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "55.00", resp.Msg.Totals.Usage.Amount)
	assert.Equal(t, "0.00", resp.Msg.Totals.General.Amount)
}

func TestTotal_Currency(t *testing.T) {
	c := setupTestServer(t, Defaults{Currency: currency.MustLookup("EUR")})

	resp, err := c.bills.Total(context.Background(), connect.NewRequest(&TotalRequest{
		Lines: []Line{{Name: "Gas", Amount: "10"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Msg.Totals.Currency)

	resp, err = c.bills.Total(context.Background(), connect.NewRequest(&TotalRequest{
		Currency: "jpy",
		Lines:    []Line{{Name: "Gas", Amount: "1000"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "JPY", resp.Msg.Totals.Currency)
	assert.Equal(t, "1000", resp.Msg.Totals.Usage.Amount)
}

func TestTotal_InvalidArgument(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  *TotalRequest
	}{
		{"unknown currency", &TotalRequest{Currency: "XXX", Lines: referenceLines()}},
		{"missing line name", &TotalRequest{Lines: []Line{{Amount: "1"}}}},
		{"non-numeric amount", &TotalRequest{Lines: []Line{{Name: "Gas", Amount: "ten"}}}},
		{"non-numeric tax rate", &TotalRequest{Lines: []Line{{Name: "Gas", Amount: "1", TaxRate: "7%"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.bills.Total(ctx, connect.NewRequest(tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestValidate(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	tests := []struct {
		totalAmount string
		wantValid   bool
		wantError   string
	}{
		{"148.833", true, "valid"},
		{"148.83", true, "valid"},
		{"148.84", true, "valid"},
		{"150", false, "line_sum_not_total"},
		{"148.82", false, "line_sum_not_total"},
	}
	for _, tt := range tests {
		t.Run(tt.totalAmount, func(t *testing.T) {
			resp, err := c.bills.Validate(ctx, connect.NewRequest(&ValidateRequest{
				TotalAmount: tt.totalAmount,
				Lines:       referenceLines(),
			}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, resp.Msg.Valid)
			assert.Equal(t, tt.wantError, resp.Msg.Error)
			assert.Equal(t, "148.83", resp.Msg.LineTotal.Amount)
		})
	}

	_, err := c.bills.Validate(ctx, connect.NewRequest(&ValidateRequest{Lines: referenceLines()}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestSplit(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	resp, err := c.bills.Split(context.Background(), connect.NewRequest(&SplitRequest{
		Lines:       referenceLines(),
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-01-31",
		Presence:    referencePresence(),
		People:      []string{"One Week", "Two Weeks", "Absent"},
	}))
	require.NoError(t, err)

	want := []struct {
		name  string
		usage string
	}{
		{"One Week", "26.89"},
		{"Two Weeks", "43.29"},
		{"Absent", "14.58"},
	}
	require.Len(t, resp.Msg.Portions, len(want))
	for i, w := range want {
		p := resp.Msg.Portions[i]
		assert.Equal(t, w.name, p.Name)
		assert.Equal(t, w.usage, p.Usage.Amount, "%s usage", w.name)
		assert.Equal(t, "21.36", p.General.Amount, "%s general", w.name)
	}
	assert.Equal(t, []string{"One Week", "Two Weeks", "Absent"}, resp.Msg.People)
	assert.Equal(t, "148.83", resp.Msg.Totals.Total.Amount)
}

func TestSplit_RosterResolution(t *testing.T) {
	ctx := context.Background()
	base := SplitRequest{
		Lines:       []Line{{Name: "Gas", Amount: "30"}},
		PeriodStart: "2021-01-01",
		PeriodEnd:   "2021-01-03",
		Presence: []Presence{
			{Name: "Bob", Start: "2021-01-01", End: "2021-01-01"},
			{Name: "Alice", Start: "2021-01-02", End: "2021-01-03"},
		},
	}

	t.Run("presence names in first-seen order", func(t *testing.T) {
		c := setupTestServer(t, Defaults{})
		req := base
		resp, err := c.bills.Split(ctx, connect.NewRequest(&req))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bob", "Alice"}, resp.Msg.People)
		assert.Equal(t, "10.00", resp.Msg.Portions[0].Usage.Amount)
		assert.Equal(t, "20.00", resp.Msg.Portions[1].Usage.Amount)
	})

	t.Run("default people", func(t *testing.T) {
		c := setupTestServer(t, Defaults{People: []string{"Alice", "Bob", "Carol"}})
		req := base
		resp, err := c.bills.Split(ctx, connect.NewRequest(&req))
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob", "Carol"}, resp.Msg.People)
		assert.Equal(t, "0.00", resp.Msg.Portions[2].Usage.Amount)
	})

	t.Run("household members", func(t *testing.T) {
		c := setupTestServer(t, Defaults{People: []string{"Ignored"}})
		h, err := c.households.CreateHousehold(ctx, connect.NewRequest(&CreateHouseholdRequest{
			Name:    "Flat",
			Members: []string{"Alice", "Bob"},
		}))
		require.NoError(t, err)

		req := base
		req.HouseholdID = h.Msg.Household.ID
		resp, err := c.bills.Split(ctx, connect.NewRequest(&req))
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob"}, resp.Msg.People)
	})

	t.Run("explicit people win", func(t *testing.T) {
		c := setupTestServer(t, Defaults{People: []string{"Ignored"}})
		req := base
		req.People = []string{"Alice"}
		resp, err := c.bills.Split(ctx, connect.NewRequest(&req))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Portions, 1)
		assert.Equal(t, "30.00", resp.Msg.Portions[0].Usage.Amount)
	})

	t.Run("unknown household", func(t *testing.T) {
		c := setupTestServer(t, Defaults{})
		req := base
		req.HouseholdID = "missing"
		_, err := c.bills.Split(ctx, connect.NewRequest(&req))
		assertCode(t, connect.CodeNotFound, err)
	})
}

func TestSplit_EmptyRoster(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	resp, err := c.bills.Split(context.Background(), connect.NewRequest(&SplitRequest{
		Lines:       referenceLines(),
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-01-31",
	}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Portions)
	assert.Empty(t, resp.Msg.People)
}

func TestSplit_InvalidArgument(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  *SplitRequest
	}{
		{"degenerate range", &SplitRequest{PeriodStart: "2021-01-05", PeriodEnd: "2021-01-04", People: []string{"Alice"}}},
		{"bad date", &SplitRequest{PeriodStart: "2021-02-30", PeriodEnd: "2021-03-01", People: []string{"Alice"}}},
		{"duplicate people", &SplitRequest{PeriodStart: "2021-01-01", PeriodEnd: "2021-01-04", People: []string{"Alice", "Alice"}}},
		{"reversed presence", &SplitRequest{
			PeriodStart: "2021-01-01",
			PeriodEnd:   "2021-01-04",
			People:      []string{"Alice"},
			Presence:    []Presence{{Name: "Alice", Start: "2021-01-03", End: "2021-01-02"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.bills.Split(ctx, connect.NewRequest(tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestSplit_PeriodTooLong(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	_, err := c.bills.Split(ctx, connect.NewRequest(&SplitRequest{
		Lines:       referenceLines(),
		PeriodStart: "0001-01-01",
		PeriodEnd:   "9999-12-31",
		People:      []string{"Alice", "Bob"},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		TotalAmount: "10",
		PeriodStart: "2000-01-01",
		PeriodEnd:   "2020-12-31",
	}}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestSplit_MaxPeriodDays(t *testing.T) {
	c := setupTestServer(t, Defaults{MaxPeriodDays: 31})
	ctx := context.Background()

	resp, err := c.bills.Split(ctx, connect.NewRequest(&SplitRequest{
		Lines:       referenceLines(),
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-01-31",
		People:      []string{"Alice", "Bob"},
	}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Portions, 2)

	_, err = c.bills.Split(ctx, connect.NewRequest(&SplitRequest{
		Lines:       referenceLines(),
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-02-01",
		People:      []string{"Alice", "Bob"},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestCreateBill_And_GetBill(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	created, err := c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		TotalAmount: "148.83",
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-01-31",
		Lines:       referenceLines(),
		Presence:    referencePresence(),
		People:      []string{"One Week", "Two Weeks", "Absent"},
	}}))
	require.NoError(t, err)

	bill := created.Msg.Bill
	require.NotEmpty(t, bill.ID)
	assert.Equal(t, "Split with One Week, Two Weeks, Absent", bill.Title)
	assert.Equal(t, "USD", bill.Currency)
	assert.True(t, created.Msg.Summary.Valid)
	require.Len(t, bill.Lines, 4)
	assert.Equal(t, "0", bill.Lines[3].TaxRate, "default tax rate must be stored")
	require.NotNil(t, bill.Lines[2].Split)
	assert.True(t, *bill.Lines[2].Split, "split must default to true")

	got, err := c.bills.GetBill(ctx, connect.NewRequest(&GetBillRequest{BillID: bill.ID}))
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.Msg.Bill.ID)
	assert.Equal(t, referencePresence(), got.Msg.Bill.Presence)
	assert.Equal(t, "84.77", got.Msg.Summary.Totals.Usage.Amount)
	assert.Equal(t, "valid", got.Msg.Summary.Error)

	split, err := c.bills.SplitBill(ctx, connect.NewRequest(&SplitStoredBillRequest{BillID: bill.ID}))
	require.NoError(t, err)
	require.Len(t, split.Msg.Portions, 3)
	assert.Equal(t, "48.24", split.Msg.Portions[0].Total.Amount)
	assert.Equal(t, "64.65", split.Msg.Portions[1].Total.Amount)
	assert.Equal(t, "35.94", split.Msg.Portions[2].Total.Amount)
}

func TestCreateBill_Invalid(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	_, err := c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		TotalAmount: "10",
		PeriodStart: "2021-02-01",
		PeriodEnd:   "2021-01-01",
	}}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		TotalAmount: "10",
		PeriodStart: "2021-01-01",
		PeriodEnd:   "2021-01-31",
		HouseholdID: "missing",
	}}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestCreateBill_MismatchedTotalIsStored(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	created, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		Title:       "Typo",
		TotalAmount: "150",
		PeriodStart: "2020-01-01",
		PeriodEnd:   "2020-01-31",
		Lines:       referenceLines(),
	}}))
	require.NoError(t, err)
	assert.False(t, created.Msg.Summary.Valid)
	assert.Equal(t, "line_sum_not_total", created.Msg.Summary.Error)
}

func TestGetBill_NotFound(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	_, err := c.bills.GetBill(context.Background(), connect.NewRequest(&GetBillRequest{BillID: "nonexistent"}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.bills.GetBill(context.Background(), connect.NewRequest(&GetBillRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestUpdateBill(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	created, err := c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
		Title:       "March",
		TotalAmount: "30",
		PeriodStart: "2021-03-01",
		PeriodEnd:   "2021-03-31",
		Lines:       []Line{{Name: "Gas", Amount: "30"}},
		People:      []string{"Alice", "Bob"},
	}}))
	require.NoError(t, err)
	id := created.Msg.Bill.ID

	updated, err := c.bills.UpdateBill(ctx, connect.NewRequest(&UpdateBillRequest{
		BillID: id,
		BillInput: BillInput{
			Title:       "March (corrected)",
			TotalAmount: "45",
			PeriodStart: "2021-03-01",
			PeriodEnd:   "2021-03-31",
			Lines: []Line{
				{Name: "Gas", Amount: "30"},
				{Name: "Internet", Amount: "15", Split: boolPtr(false)},
			},
			People: []string{"Alice", "Bob", "Carol"},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, id, updated.Msg.Bill.ID)
	assert.Equal(t, created.Msg.Bill.CreatedAt, updated.Msg.Bill.CreatedAt)
	assert.True(t, updated.Msg.Summary.Valid)

	got, err := c.bills.GetBill(ctx, connect.NewRequest(&GetBillRequest{BillID: id}))
	require.NoError(t, err)
	assert.Equal(t, "March (corrected)", got.Msg.Bill.Title)
	assert.Len(t, got.Msg.Bill.Lines, 2)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, got.Msg.Bill.People)
	assert.Equal(t, "15.00", got.Msg.Summary.Totals.General.Amount)
}

func TestUpdateBill_NotFound(t *testing.T) {
	c := setupTestServer(t, Defaults{})

	_, err := c.bills.UpdateBill(context.Background(), connect.NewRequest(&UpdateBillRequest{
		BillID: "nonexistent",
		BillInput: BillInput{
			TotalAmount: "0",
			PeriodStart: "2021-03-01",
			PeriodEnd:   "2021-03-31",
		},
	}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestListBills_And_DeleteBill(t *testing.T) {
	c := setupTestServer(t, Defaults{})
	ctx := context.Background()

	h, err := c.households.CreateHousehold(ctx, connect.NewRequest(&CreateHouseholdRequest{Name: "Flat", Members: []string{"Alice"}}))
	require.NoError(t, err)
	householdID := h.Msg.Household.ID

	var ids []string
	for _, household := range []string{householdID, ""} {
		created, err := c.bills.CreateBill(ctx, connect.NewRequest(&CreateBillRequest{BillInput: BillInput{
			TotalAmount: "10",
			PeriodStart: "2021-03-01",
			PeriodEnd:   "2021-03-31",
			Lines:       []Line{{Name: "Gas", Amount: "10"}},
			People:      []string{"Alice", "Bob"},
			HouseholdID: household,
		}}))
		require.NoError(t, err)
		ids = append(ids, created.Msg.Bill.ID)
	}

	all, err := c.bills.ListBills(ctx, connect.NewRequest(&ListBillsRequest{}))
	require.NoError(t, err)
	assert.Len(t, all.Msg.Bills, 2)

	linked, err := c.bills.ListBills(ctx, connect.NewRequest(&ListBillsRequest{HouseholdID: householdID}))
	require.NoError(t, err)
	require.Len(t, linked.Msg.Bills, 1)
	assert.Equal(t, ids[0], linked.Msg.Bills[0].ID)

	// Bill people are added to the linked household.
	got, err := c.households.GetHousehold(ctx, connect.NewRequest(&GetHouseholdRequest{HouseholdID: householdID}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Msg.Household.Members)

	_, err = c.bills.DeleteBill(ctx, connect.NewRequest(&DeleteBillRequest{BillID: ids[0]}))
	require.NoError(t, err)

	_, err = c.bills.GetBill(ctx, connect.NewRequest(&GetBillRequest{BillID: ids[0]}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.bills.DeleteBill(ctx, connect.NewRequest(&DeleteBillRequest{BillID: ids[0]}))
	assertCode(t, connect.CodeNotFound, err)
}
