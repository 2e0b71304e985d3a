package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

type Order struct {
	ID                int64      `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"`
	Email             string     `json:"email,omitempty"`
	Note              string     `json:"note,omitempty"`
	Tags              string     `json:"tags,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	TotalPrice        string     `json:"total_price,omitempty"`
	SubtotalPrice     string     `json:"subtotal_price,omitempty"`
	TotalTax          string     `json:"total_tax,omitempty"`
	FinancialStatus   string     `json:"financial_status,omitempty"`
	FulfillmentStatus string     `json:"fulfillment_status,omitempty"`
	LineItems         []LineItem `json:"line_items,omitempty"`
	Customer          *Customer  `json:"customer,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
}

type LineItem struct {
	ID        int64  `json:"id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	Title     string `json:"title,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Price     string `json:"price,omitempty"`
}

var orderPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "orders"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "orders/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "orders/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "orders"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "orders/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "orders/{id}"},
}

func (o *Order) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Order", Singular: "order", Plural: "orders", Paths: orderPaths}
}

func (o *Order) PathParams() restpath.Params {
	return idParams("id", o.ID)
}

// Fulfillment is read through its order. Creation is accepted both on the
// order-scoped route and on the fulfillment-order based top-level route;
// the order-scoped one wins whenever order_id is known.
type Fulfillment struct {
	ID              int64      `json:"id,omitempty"`
	OrderID         int64      `json:"order_id,omitempty"`
	Status          string     `json:"status,omitempty"`
	TrackingCompany string     `json:"tracking_company,omitempty"`
	TrackingNumber  string     `json:"tracking_number,omitempty"`
	TrackingURL     string     `json:"tracking_url,omitempty"`
	LocationID      int64      `json:"location_id,omitempty"`
	NotifyCustomer  bool       `json:"notify_customer,omitempty"`
	LineItems       []LineItem `json:"line_items,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

var fulfillmentPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"order_id"}, Template: "orders/{order_id}/fulfillments"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Params: []string{"order_id"}, Template: "orders/{order_id}/fulfillments/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"order_id", "id"}, Template: "orders/{order_id}/fulfillments/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "fulfillments"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"order_id"}, Template: "orders/{order_id}/fulfillments"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"order_id", "id"}, Template: "orders/{order_id}/fulfillments/{id}"},
}

func (f *Fulfillment) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Fulfillment", Singular: "fulfillment", Plural: "fulfillments", Paths: fulfillmentPaths}
}

func (f *Fulfillment) PathParams() restpath.Params {
	return idParams("id", f.ID, "order_id", f.OrderID)
}
