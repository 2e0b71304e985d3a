package resource

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListOptions controls a single page request.
type ListOptions struct {
	Limit    int
	PageInfo string
	Fields   []string
	Query    url.Values
	// JQ filters the decoded list before it is converted to typed values.
	JQ string
}

// Page is one page of a list call together with the cursors announced in
// the Link response header.
type Page[T any] struct {
	Items    []*T
	Next     string
	Previous string
}

func (o ListOptions) values() url.Values {
	values := url.Values{}
	// Filters are rejected by the API once a page_info cursor is present.
	if strings.TrimSpace(o.PageInfo) == "" {
		for key, items := range o.Query {
			values[key] = append([]string(nil), items...)
		}
	} else {
		values.Set("page_info", strings.TrimSpace(o.PageInfo))
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(o.Fields) > 0 {
		values.Set("fields", strings.Join(o.Fields, ","))
	}
	return values
}

// ParseLinkCursors extracts the page_info cursors of the rel="next" and
// rel="previous" links of a Link header.
func ParseLinkCursors(header http.Header) (string, string) {
	var next, previous string
	for _, value := range header.Values("Link") {
		for _, link := range splitLinks(value) {
			cursor := pageInfoFromURL(link.target)
			switch link.rel {
			case "next":
				next = cursor
			case "previous", "prev":
				previous = cursor
			}
		}
	}
	return next, previous
}

type link struct {
	target string
	rel    string
}

// splitLinks scans <target>; attr=value groups. Targets are delimited by
// angle brackets, so commas inside URLs are not treated as separators.
func splitLinks(value string) []link {
	var links []link
	rest := value
	for {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			return links
		}
		closeIdx := strings.IndexByte(rest[open:], '>')
		if closeIdx < 0 {
			return links
		}
		closeIdx += open

		target := rest[open+1 : closeIdx]
		rest = rest[closeIdx+1:]

		attributes := rest
		if nextOpen := strings.IndexByte(rest, '<'); nextOpen >= 0 {
			attributes = rest[:nextOpen]
			rest = rest[nextOpen:]
		} else {
			rest = ""
		}

		links = append(links, link{target: target, rel: linkRel(attributes)})
	}
}

func linkRel(attributes string) string {
	for _, attribute := range strings.FieldsFunc(attributes, func(r rune) bool { return r == ';' || r == ',' }) {
		key, value, found := strings.Cut(strings.TrimSpace(attribute), "=")
		if !found || strings.TrimSpace(key) != "rel" {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"`)
	}
	return ""
}

func pageInfoFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("page_info")
}
