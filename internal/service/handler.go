package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "splitbill.v1.BillService"
	// HouseholdServiceName is the fully-qualified name of the HouseholdService service.
	HouseholdServiceName = "splitbill.v1.HouseholdService"
)

// Procedure paths, as the Connect protocol routes them.
const (
	BillServiceTotalProcedure      = "/splitbill.v1.BillService/Total"
	BillServiceValidateProcedure   = "/splitbill.v1.BillService/Validate"
	BillServiceSplitProcedure      = "/splitbill.v1.BillService/Split"
	BillServiceCreateBillProcedure = "/splitbill.v1.BillService/CreateBill"
	BillServiceGetBillProcedure    = "/splitbill.v1.BillService/GetBill"
	BillServiceUpdateBillProcedure = "/splitbill.v1.BillService/UpdateBill"
	BillServiceListBillsProcedure  = "/splitbill.v1.BillService/ListBills"
	BillServiceDeleteBillProcedure = "/splitbill.v1.BillService/DeleteBill"
	BillServiceSplitBillProcedure  = "/splitbill.v1.BillService/SplitBill"

	HouseholdServiceCreateHouseholdProcedure     = "/splitbill.v1.HouseholdService/CreateHousehold"
	HouseholdServiceGetHouseholdProcedure        = "/splitbill.v1.HouseholdService/GetHousehold"
	HouseholdServiceListHouseholdsProcedure      = "/splitbill.v1.HouseholdService/ListHouseholds"
	HouseholdServiceAddHouseholdMembersProcedure = "/splitbill.v1.HouseholdService/AddHouseholdMembers"
)

// NewBillServiceHandler builds an HTTP handler for svc. It returns the path
// prefix on which to mount the handler.
func NewBillServiceHandler(svc *BillService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(BillServiceTotalProcedure, connect.NewUnaryHandler(BillServiceTotalProcedure, svc.Total, opts...))
	mux.Handle(BillServiceValidateProcedure, connect.NewUnaryHandler(BillServiceValidateProcedure, svc.Validate, opts...))
	mux.Handle(BillServiceSplitProcedure, connect.NewUnaryHandler(BillServiceSplitProcedure, svc.Split, opts...))
	mux.Handle(BillServiceCreateBillProcedure, connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceUpdateBillProcedure, connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...))
	mux.Handle(BillServiceListBillsProcedure, connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...))
	mux.Handle(BillServiceDeleteBillProcedure, connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...))
	mux.Handle(BillServiceSplitBillProcedure, connect.NewUnaryHandler(BillServiceSplitBillProcedure, svc.SplitBill, opts...))
	return "/" + BillServiceName + "/", mux
}

// NewHouseholdServiceHandler builds an HTTP handler for svc. It returns the
// path prefix on which to mount the handler.
func NewHouseholdServiceHandler(svc *HouseholdService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(HouseholdServiceCreateHouseholdProcedure, connect.NewUnaryHandler(HouseholdServiceCreateHouseholdProcedure, svc.CreateHousehold, opts...))
	mux.Handle(HouseholdServiceGetHouseholdProcedure, connect.NewUnaryHandler(HouseholdServiceGetHouseholdProcedure, svc.GetHousehold, opts...))
	mux.Handle(HouseholdServiceListHouseholdsProcedure, connect.NewUnaryHandler(HouseholdServiceListHouseholdsProcedure, svc.ListHouseholds, opts...))
	mux.Handle(HouseholdServiceAddHouseholdMembersProcedure, connect.NewUnaryHandler(HouseholdServiceAddHouseholdMembersProcedure, svc.AddHouseholdMembers, opts...))
	return "/" + HouseholdServiceName + "/", mux
}

// BillServiceClient is a client for splitbill.v1.BillService.
type BillServiceClient struct {
	total      *connect.Client[TotalRequest, TotalResponse]
	validate   *connect.Client[ValidateRequest, ValidateResponse]
	split      *connect.Client[SplitRequest, SplitResponse]
	createBill *connect.Client[CreateBillRequest, CreateBillResponse]
	getBill    *connect.Client[GetBillRequest, GetBillResponse]
	updateBill *connect.Client[UpdateBillRequest, UpdateBillResponse]
	listBills  *connect.Client[ListBillsRequest, ListBillsResponse]
	deleteBill *connect.Client[DeleteBillRequest, DeleteBillResponse]
	splitBill  *connect.Client[SplitStoredBillRequest, SplitResponse]
}

// NewBillServiceClient constructs a client for splitbill.v1.BillService at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &BillServiceClient{
		total:      connect.NewClient[TotalRequest, TotalResponse](httpClient, baseURL+BillServiceTotalProcedure, opts...),
		validate:   connect.NewClient[ValidateRequest, ValidateResponse](httpClient, baseURL+BillServiceValidateProcedure, opts...),
		split:      connect.NewClient[SplitRequest, SplitResponse](httpClient, baseURL+BillServiceSplitProcedure, opts...),
		createBill: connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:    connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		updateBill: connect.NewClient[UpdateBillRequest, UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		listBills:  connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		deleteBill: connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		splitBill:  connect.NewClient[SplitStoredBillRequest, SplitResponse](httpClient, baseURL+BillServiceSplitBillProcedure, opts...),
	}
}

func (c *BillServiceClient) Total(ctx context.Context, req *connect.Request[TotalRequest]) (*connect.Response[TotalResponse], error) {
	return c.total.CallUnary(ctx, req)
}

func (c *BillServiceClient) Validate(ctx context.Context, req *connect.Request[ValidateRequest]) (*connect.Response[ValidateResponse], error) {
	return c.validate.CallUnary(ctx, req)
}

func (c *BillServiceClient) Split(ctx context.Context, req *connect.Request[SplitRequest]) (*connect.Response[SplitResponse], error) {
	return c.split.CallUnary(ctx, req)
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateBill(ctx context.Context, req *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) SplitBill(ctx context.Context, req *connect.Request[SplitStoredBillRequest]) (*connect.Response[SplitResponse], error) {
	return c.splitBill.CallUnary(ctx, req)
}

// HouseholdServiceClient is a client for splitbill.v1.HouseholdService.
type HouseholdServiceClient struct {
	createHousehold     *connect.Client[CreateHouseholdRequest, CreateHouseholdResponse]
	getHousehold        *connect.Client[GetHouseholdRequest, GetHouseholdResponse]
	listHouseholds      *connect.Client[ListHouseholdsRequest, ListHouseholdsResponse]
	addHouseholdMembers *connect.Client[AddHouseholdMembersRequest, AddHouseholdMembersResponse]
}

// NewHouseholdServiceClient constructs a client for splitbill.v1.HouseholdService at baseURL.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *HouseholdServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &HouseholdServiceClient{
		createHousehold:     connect.NewClient[CreateHouseholdRequest, CreateHouseholdResponse](httpClient, baseURL+HouseholdServiceCreateHouseholdProcedure, opts...),
		getHousehold:        connect.NewClient[GetHouseholdRequest, GetHouseholdResponse](httpClient, baseURL+HouseholdServiceGetHouseholdProcedure, opts...),
		listHouseholds:      connect.NewClient[ListHouseholdsRequest, ListHouseholdsResponse](httpClient, baseURL+HouseholdServiceListHouseholdsProcedure, opts...),
		addHouseholdMembers: connect.NewClient[AddHouseholdMembersRequest, AddHouseholdMembersResponse](httpClient, baseURL+HouseholdServiceAddHouseholdMembersProcedure, opts...),
	}
}

func (c *HouseholdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *HouseholdServiceClient) GetHousehold(ctx context.Context, req *connect.Request[GetHouseholdRequest]) (*connect.Response[GetHouseholdResponse], error) {
	return c.getHousehold.CallUnary(ctx, req)
}

func (c *HouseholdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}

func (c *HouseholdServiceClient) AddHouseholdMembers(ctx context.Context, req *connect.Request[AddHouseholdMembersRequest]) (*connect.Response[AddHouseholdMembersResponse], error) {
	return c.addHouseholdMembers.CallUnary(ctx, req)
}
