package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

type Webhook struct {
	ID                  int64      `json:"id,omitempty"`
	Topic               string     `json:"topic,omitempty"`
	Address             string     `json:"address,omitempty"`
	Format              string     `json:"format,omitempty"`
	Fields              []string   `json:"fields,omitempty"`
	MetafieldNamespaces []string   `json:"metafield_namespaces,omitempty"`
	APIVersion          string     `json:"api_version,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

var webhookPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "webhooks"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "webhooks/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "webhooks/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "webhooks"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "webhooks/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "webhooks/{id}"},
}

func (w *Webhook) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Webhook", Singular: "webhook", Plural: "webhooks", Paths: webhookPaths}
}

func (w *Webhook) PathParams() restpath.Params {
	return idParams("id", w.ID)
}
