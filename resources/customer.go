package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

type Customer struct {
	ID            int64             `json:"id,omitempty"`
	Email         string            `json:"email,omitempty"`
	FirstName     string            `json:"first_name,omitempty"`
	LastName      string            `json:"last_name,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	State         string            `json:"state,omitempty"`
	Note          string            `json:"note,omitempty"`
	Tags          string            `json:"tags,omitempty"`
	VerifiedEmail bool              `json:"verified_email,omitempty"`
	OrdersCount   int               `json:"orders_count,omitempty"`
	TotalSpent    string            `json:"total_spent,omitempty"`
	Addresses     []CustomerAddress `json:"addresses,omitempty"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

type CustomerAddress struct {
	ID          int64  `json:"id,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
	Zip         string `json:"zip,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

var customerPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "customers"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "customers/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "customers/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "customers"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "customers/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "customers/{id}"},
}

func (c *Customer) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Customer", Singular: "customer", Plural: "customers", Paths: customerPaths}
}

func (c *Customer) PathParams() restpath.Params {
	return idParams("id", c.ID)
}
