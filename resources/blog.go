package resources

import (
	"net/http"
	"time"

	"github.com/crmarques/shopctl/resource"
	"github.com/crmarques/shopctl/restpath"
)

type Blog struct {
	ID             int64      `json:"id,omitempty"`
	Title          string     `json:"title,omitempty"`
	Handle         string     `json:"handle,omitempty"`
	Commentable    string     `json:"commentable,omitempty"`
	Tags           string     `json:"tags,omitempty"`
	TemplateSuffix string     `json:"template_suffix,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

var blogPaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Template: "blogs"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Template: "blogs/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"id"}, Template: "blogs/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Template: "blogs"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"id"}, Template: "blogs/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"id"}, Template: "blogs/{id}"},
}

func (b *Blog) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Blog", Singular: "blog", Plural: "blogs", Paths: blogPaths}
}

func (b *Blog) PathParams() restpath.Params {
	return idParams("id", b.ID)
}

// Article only exists inside a blog; every route needs blog_id.
type Article struct {
	ID          int64         `json:"id,omitempty"`
	BlogID      int64         `json:"blog_id,omitempty"`
	Title       string        `json:"title,omitempty"`
	Author      string        `json:"author,omitempty"`
	BodyHTML    string        `json:"body_html,omitempty"`
	SummaryHTML string        `json:"summary_html,omitempty"`
	Handle      string        `json:"handle,omitempty"`
	Tags        string        `json:"tags,omitempty"`
	Published   *bool         `json:"published,omitempty"`
	Image       *ArticleImage `json:"image,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
}

type ArticleImage struct {
	Src    string `json:"src,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

var articlePaths = restpath.Table{
	{Method: http.MethodGet, Operation: restpath.OperationAll, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
	{Method: http.MethodGet, Operation: restpath.OperationCount, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles/count"},
	{Method: http.MethodGet, Operation: restpath.OperationFind, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
	{Method: http.MethodPost, Operation: restpath.OperationCreate, Params: []string{"blog_id"}, Template: "blogs/{blog_id}/articles"},
	{Method: http.MethodPut, Operation: restpath.OperationUpdate, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
	{Method: http.MethodDelete, Operation: restpath.OperationDelete, Params: []string{"blog_id", "id"}, Template: "blogs/{blog_id}/articles/{id}"},
}

func (a *Article) Descriptor() resource.Descriptor {
	return resource.Descriptor{Name: "Article", Singular: "article", Plural: "articles", Paths: articlePaths}
}

func (a *Article) PathParams() restpath.Params {
	return idParams("id", a.ID, "blog_id", a.BlogID)
}
