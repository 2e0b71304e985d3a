package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

type Product struct {
	ID          int64           `json:"id,omitempty"`
	Title       string          `json:"title,omitempty"`
	BodyHTML    string          `json:"body_html,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	ProductType string          `json:"product_type,omitempty"`
	Handle      string          `json:"handle,omitempty"`
	Status      string          `json:"status,omitempty"`
	Tags        string          `json:"tags,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
	Options     []ProductOption `json:"options,omitempty"`
	Images      []ProductImage  `json:"images,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

type ProductOption struct {
	ID     int64    `json:"id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Values []string `json:"values,omitempty"`
}

type ProductImage struct {
	ID         int64   `json:"id,omitempty"`
	Src        string  `json:"src,omitempty"`
	Alt        string  `json:"alt,omitempty"`
	Position   int     `json:"position,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	VariantIDs []int64 `json:"variant_ids,omitempty"`
}

var productPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "products"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "products/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "products/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "products"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "products/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "products/{id}"},
}

func (p *Product) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Product", Singular: "product", Plural: "products", Paths: productPaths}
}

func (p *Product) PathParams() restpath.Params {
	return idParams("id", p.ID)
}

// Variant can be addressed on its own or through its product. Reads and
// updates work with the id alone; listing, creation and deletion need the
// product.
type Variant struct {
	ID                int64      `json:"id,omitempty"`
	ProductID         int64      `json:"product_id,omitempty"`
	Title             string     `json:"title,omitempty"`
	Price             string     `json:"price,omitempty"`
	CompareAtPrice    string     `json:"compare_at_price,omitempty"`
	SKU               string     `json:"sku,omitempty"`
	Barcode           string     `json:"barcode,omitempty"`
	Position          int        `json:"position,omitempty"`
	InventoryPolicy   string     `json:"inventory_policy,omitempty"`
	InventoryItemID   int64      `json:"inventory_item_id,omitempty"`
	InventoryQuantity int        `json:"inventory_quantity,omitempty"`
	Option1           string     `json:"option1,omitempty"`
	Option2           string     `json:"option2,omitempty"`
	Option3           string     `json:"option3,omitempty"`
	Taxable           bool       `json:"taxable,omitempty"`
	Weight            float64    `json:"weight,omitempty"`
	WeightUnit        string     `json:"weight_unit,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

var variantPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"product_id"}, Template: "products/{product_id}/variants"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Params: []string{"product_id"}, Template: "products/{product_id}/variants/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "variants/{id}"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"product_id", "id"}, Template: "products/{product_id}/variants/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"product_id"}, Template: "products/{product_id}/variants"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "variants/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"product_id", "id"}, Template: "products/{product_id}/variants/{id}"},
}

func (v *Variant) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Variant", Singular: "variant", Plural: "variants", Paths: variantPaths}
}

func (v *Variant) PathParams() restpath.Params {
	return idParams("id", v.ID, "product_id", v.ProductID)
}
