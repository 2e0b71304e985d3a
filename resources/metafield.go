package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

// Metafield attaches to an owner resource or, without one, to the shop.
// OwnerResource and OwnerID select the owner-scoped routes.
type Metafield struct {
	ID            int64      `json:"id,omitempty"`
	Namespace     string     `json:"namespace,omitempty"`
	Key           string     `json:"key,omitempty"`
	Value         string     `json:"value,omitempty"`
	Type          string     `json:"type,omitempty"`
	Description   string     `json:"description,omitempty"`
	OwnerID       int64      `json:"owner_id,omitempty"`
	OwnerResource string     `json:"owner_resource,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

var metafieldPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "metafields"},
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"product_id"}, Template: "products/{product_id}/metafields"},
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"customer_id"}, Template: "customers/{customer_id}/metafields"},
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"order_id"}, Template: "orders/{order_id}/metafields"},
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"blog_id", "article_id"}, Template: "blogs/{blog_id}/articles/{article_id}/metafields"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "metafields/count"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Params: []string{"product_id"}, Template: "products/{product_id}/metafields/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "metafields/{id}"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"product_id", "id"}, Template: "products/{product_id}/metafields/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "metafields"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"product_id"}, Template: "products/{product_id}/metafields"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"customer_id"}, Template: "customers/{customer_id}/metafields"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"order_id"}, Template: "orders/{order_id}/metafields"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "metafields/{id}"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"product_id", "id"}, Template: "products/{product_id}/metafields/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "metafields/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"product_id", "id"}, Template: "products/{product_id}/metafields/{id}"},
}

var metafieldOwnerParams = map[string]string{
	"product":  "product_id",
	"customer": "customer_id",
	"order":    "order_id",
	"article":  "article_id",
}

func (m *Metafield) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Metafield", Singular: "metafield", Plural: "metafields", Paths: metafieldPaths}
}

func (m *Metafield) PathParams() restpath.Params {
	params := idParams("id", m.ID)
	if name, ok := metafieldOwnerParams[m.OwnerResource]; ok {
		for key, value := range idParams(name, m.OwnerID) {
			params[key] = value
		}
	}
	return params
}
