package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

// Shop is the singleton store resource. It has no identifiers and can only
// be read.
type Shop struct {
	ID              int64      `json:"id,omitempty"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Domain          string     `json:"domain,omitempty"`
	MyshopifyDomain string     `json:"myshopify_domain,omitempty"`
	Currency        string     `json:"currency,omitempty"`
	IANATimezone    string     `json:"iana_timezone,omitempty"`
	PlanName        string     `json:"plan_name,omitempty"`
	CountryCode     string     `json:"country_code,omitempty"`
	PasswordEnabled bool       `json:"password_enabled,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

var shopPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationFind, Template: "shop"},
}

func (s *Shop) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Shop", Singular: "shop", Plural: "shops", Paths: shopPaths}
}

// PathParams is empty: the shop is addressed by the credentials in use.
func (s *Shop) PathParams() restpath.Params {
	return restpath.Params{}
}
