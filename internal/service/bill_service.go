package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/bill"
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/currency"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/money"
	"github.com/mmynk/splitbill/internal/period"
	"github.com/mmynk/splitbill/internal/storage"
)

// DefaultMaxPeriodDays bounds a billing period when Defaults leaves it unset.
const DefaultMaxPeriodDays = 5 * 366

// Defaults are the values used when a request leaves them out.
type Defaults struct {
	Currency currency.Info
	TaxRate  decimal.Decimal
	// People is the roster used when neither the request nor a household names one.
	People []string
	// MaxPeriodDays is the longest billing period accepted, in days.
	MaxPeriodDays int
}

// BillService implements the Connect BillService.
type BillService struct {
	store    storage.Store
	defaults Defaults
	validate *validator.Validate
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, defaults Defaults) *BillService {
	if defaults.Currency.Code == "" {
		defaults.Currency = currency.USD
	}
	if defaults.MaxPeriodDays <= 0 {
		defaults.MaxPeriodDays = DefaultMaxPeriodDays
	}
	return &BillService{
		store:    store,
		defaults: defaults,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Total returns the usage and general totals of a set of lines.
func (s *BillService) Total(ctx context.Context, req *connect.Request[TotalRequest]) (*connect.Response[TotalResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("Total: invalid request", err)
	}

	cur, err := s.defaults.resolveCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connectError("Total: bad currency", err)
	}

	b, err := buildBill(cur, "", s.defaults.resolveLines(req.Msg.Lines))
	if err != nil {
		return nil, connectError("Total: bad lines", err)
	}

	return connect.NewResponse(&TotalResponse{Totals: totalsMessage(b)}), nil
}

// Validate reconciles the taxed line sum against the total printed on the bill.
func (s *BillService) Validate(ctx context.Context, req *connect.Request[ValidateRequest]) (*connect.Response[ValidateResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("Validate: invalid request", err)
	}

	cur, err := s.defaults.resolveCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connectError("Validate: bad currency", err)
	}

	b, err := buildBill(cur, req.Msg.TotalAmount, s.defaults.resolveLines(req.Msg.Lines))
	if err != nil {
		return nil, connectError("Validate: bad lines", err)
	}

	valid, verr := b.IsValid()
	slog.Debug("Bill validated", "valid", valid, "line_total", b.Total().Total(), "total_amount", b.TotalAmount())

	return connect.NewResponse(&ValidateResponse{
		Valid:     valid,
		Error:     verr.String(),
		LineTotal: moneyMessage(b.Total().Total()),
		Totals:    totalsMessage(b),
	}), nil
}

// Split apportions an unsaved bill among its roster.
func (s *BillService) Split(ctx context.Context, req *connect.Request[SplitRequest]) (*connect.Response[SplitResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("Split: invalid request", err)
	}

	cur, err := s.defaults.resolveCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connectError("Split: bad currency", err)
	}

	b, err := buildBill(cur, "", s.defaults.resolveLines(req.Msg.Lines))
	if err != nil {
		return nil, connectError("Split: bad lines", err)
	}

	resp, err := s.split(ctx, b, &models.Bill{
		PeriodStart: req.Msg.PeriodStart,
		PeriodEnd:   req.Msg.PeriodEnd,
		Presence:    presenceModels(req.Msg.Presence),
		People:      req.Msg.People,
		HouseholdID: req.Msg.HouseholdID,
	})
	if err != nil {
		return nil, connectError("Split failed", err)
	}
	return connect.NewResponse(resp), nil
}

// CreateBill validates a bill and persists it to storage.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("CreateBill: invalid request", err)
	}

	record, b, err := s.prepareBill(ctx, req.Msg.BillInput)
	if err != nil {
		return nil, connectError("CreateBill: bad bill", err)
	}

	// Save to storage (generates ID, title and timestamps)
	if err := s.store.CreateBill(ctx, record); err != nil {
		return nil, connectError("CreateBill failed", err)
	}
	slog.Info("Bill created", "bill_id", record.ID, "title", record.Title, "lines", len(record.Lines))

	s.autoAddPeopleToHousehold(ctx, record.HouseholdID, record.People)

	return connect.NewResponse(&CreateBillResponse{
		Bill:    billMessage(record),
		Summary: summaryMessage(b),
	}), nil
}

// GetBill retrieves a bill by ID and recomputes its totals.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("GetBill: invalid request", err)
	}

	record, b, err := s.loadBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, connectError("GetBill failed", err, "bill_id", req.Msg.BillID)
	}

	return connect.NewResponse(&GetBillResponse{
		Bill:    billMessage(record),
		Summary: summaryMessage(b),
	}), nil
}

// UpdateBill replaces an existing bill.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("UpdateBill: invalid request", err)
	}

	record, b, err := s.prepareBill(ctx, req.Msg.BillInput)
	if err != nil {
		return nil, connectError("UpdateBill: bad bill", err, "bill_id", req.Msg.BillID)
	}
	record.ID = req.Msg.BillID

	if err := s.store.UpdateBill(ctx, record); err != nil {
		return nil, connectError("UpdateBill failed", err, "bill_id", req.Msg.BillID)
	}
	slog.Info("Bill updated", "bill_id", record.ID)

	s.autoAddPeopleToHousehold(ctx, record.HouseholdID, record.People)

	return connect.NewResponse(&UpdateBillResponse{
		Bill:    billMessage(record),
		Summary: summaryMessage(b),
	}), nil
}

// ListBills lists stored bills, newest first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	records, err := s.store.ListBills(ctx, req.Msg.HouseholdID)
	if err != nil {
		return nil, connectError("ListBills failed", err, "household_id", req.Msg.HouseholdID)
	}

	bills := make([]Bill, len(records))
	for i, record := range records {
		bills[i] = billMessage(record)
	}
	return connect.NewResponse(&ListBillsResponse{Bills: bills}), nil
}

// DeleteBill removes a stored bill.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("DeleteBill: invalid request", err)
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		return nil, connectError("DeleteBill failed", err, "bill_id", req.Msg.BillID)
	}
	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)

	return connect.NewResponse(&DeleteBillResponse{}), nil
}

// SplitBill apportions a stored bill using its stored period, presence and roster.
func (s *BillService) SplitBill(ctx context.Context, req *connect.Request[SplitStoredBillRequest]) (*connect.Response[SplitResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connectError("SplitBill: invalid request", err)
	}

	record, b, err := s.loadBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, connectError("SplitBill failed", err, "bill_id", req.Msg.BillID)
	}

	resp, err := s.split(ctx, b, record)
	if err != nil {
		return nil, connectError("SplitBill failed", err, "bill_id", req.Msg.BillID)
	}
	return connect.NewResponse(resp), nil
}

// prepareBill resolves defaults in in and checks that it describes a
// computable bill.
func (s *BillService) prepareBill(ctx context.Context, in BillInput) (*models.Bill, *bill.Bill, error) {
	cur, err := s.defaults.resolveCurrency(in.Currency)
	if err != nil {
		return nil, nil, err
	}

	record := &models.Bill{
		Title:       in.Title,
		Currency:    cur.Code,
		TotalAmount: in.TotalAmount,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		HouseholdID: in.HouseholdID,
		Lines:       s.defaults.resolveLines(in.Lines),
		Presence:    presenceModels(in.Presence),
		People:      in.People,
	}

	b, err := buildBill(cur, record.TotalAmount, record.Lines)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.parsePeriod(record.PeriodStart, record.PeriodEnd); err != nil {
		return nil, nil, err
	}
	if _, err := parsePresence(record.Presence); err != nil {
		return nil, nil, err
	}
	if record.HouseholdID != "" {
		if _, err := s.store.GetHousehold(ctx, record.HouseholdID); err != nil {
			return nil, nil, err
		}
	}
	return record, b, nil
}

func (s *BillService) loadBill(ctx context.Context, billID string) (*models.Bill, *bill.Bill, error) {
	record, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, nil, err
	}
	cur, err := currency.Lookup(record.Currency)
	if err != nil {
		return nil, nil, err
	}
	b, err := buildBill(cur, record.TotalAmount, record.Lines)
	if err != nil {
		return nil, nil, err
	}
	return record, b, nil
}

// split resolves the roster for record and apportions b over its period.
func (s *BillService) split(ctx context.Context, b *bill.Bill, record *models.Bill) (*SplitResponse, error) {
	presence, err := parsePresence(record.Presence)
	if err != nil {
		return nil, err
	}

	people, err := s.resolvePeople(ctx, record.People, record.HouseholdID, presence)
	if err != nil {
		return nil, err
	}

	resp := &SplitResponse{People: people, Portions: []Portion{}, Totals: totalsMessage(b)}
	if len(people) == 0 {
		return resp, nil
	}

	r, err := s.parsePeriod(record.PeriodStart, record.PeriodEnd)
	if err != nil {
		return nil, err
	}

	portions, err := b.SplitContext(ctx, r, presence, people)
	if err != nil {
		return nil, err
	}
	slog.Debug("Bill split", "bill_id", record.ID, "people", len(people), "days", r.Days())

	resp.Portions = portionMessages(portions)
	return resp, nil
}

// parsePeriod parses the billing period and enforces the length limit.
func (s *BillService) parsePeriod(start, end string) (period.Range, error) {
	r, err := parseRange(start, end)
	if err != nil {
		return period.Range{}, err
	}
	if days := r.Days(); days > s.defaults.MaxPeriodDays {
		return period.Range{}, invalidf("billing period of %d days exceeds the limit of %d", days, s.defaults.MaxPeriodDays)
	}
	return r, nil
}

// resolvePeople picks the roster: explicit people, then the household's
// members, then the configured default people, then everyone with presence.
func (s *BillService) resolvePeople(ctx context.Context, people []string, householdID string, presence []period.PersonPeriod) ([]string, error) {
	if len(people) > 0 {
		return people, nil
	}
	if householdID != "" {
		household, err := s.store.GetHousehold(ctx, householdID)
		if err != nil {
			return nil, err
		}
		if len(household.Members) > 0 {
			return household.Members, nil
		}
	}
	if len(s.defaults.People) > 0 {
		return s.defaults.People, nil
	}
	if names := period.Names(presence); names != nil {
		return names, nil
	}
	return []string{}, nil
}

// autoAddPeopleToHousehold adds any bill people not already in the household.
func (s *BillService) autoAddPeopleToHousehold(ctx context.Context, householdID string, people []string) {
	if householdID == "" || len(people) == 0 {
		return
	}
	if err := s.store.AddHouseholdMembers(ctx, householdID, people); err != nil {
		slog.Error("autoAddPeopleToHousehold: failed to add members", "household_id", householdID, "error", err)
		return
	}
	slog.Debug("Synced bill people to household", "household_id", householdID, "people", people)
}

// errorCode maps domain errors to Connect codes.
func errorCode(err error) connect.Code {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.As(err, &verrs),
		errors.Is(err, errInvalidInput),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, period.ErrDegenerateRange),
		errors.Is(err, calculator.ErrDuplicatePerson),
		errors.Is(err, bill.ErrOutOfRange),
		errors.Is(err, bill.ErrLineNotFound):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}

// connectError logs err and wraps it with its Connect code.
func connectError(msg string, err error, attrs ...any) error {
	code := errorCode(err)
	attrs = append(attrs, "code", code, "error", err)
	if code == connect.CodeInternal {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}
	return connect.NewError(code, err)
}
