// Package airtable lists Airtable bases and their tables.
package airtable

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/tidwall/gjson"
)

const (
	Name           = "airtable"
	AuthURL        = "https://airtable.com/oauth2/v1/authorize"
	TokenURL       = "https://airtable.com/oauth2/v1/token"
	DefaultBaseURL = "https://api.airtable.com"

	basesPath = "/v0/meta/bases"
)

// Scopes requested on the consent screen.
var Scopes = []string{
	"data.records:read",
	"data.records:write",
	"data.recordComments:read",
	"data.recordComments:write",
	"schema.bases:read",
	"schema.bases:write",
}

// Lister walks the metadata API.
type Lister struct {
	HTTP    *http.Client
	BaseURL string
}

// NewLister returns a lister against the public API.
func NewLister(hc *http.Client) *Lister {
	return &Lister{HTTP: hc, BaseURL: DefaultBaseURL}
}

type base struct {
	id   string
	name string
}

// ListItems returns every base followed by the tables of each base.
func (l *Lister) ListItems(ctx context.Context, accessToken string) ([]integration.Item, error) {
	client := integration.NewAPIClient(l.HTTP, Name, accessToken)
	root := strings.TrimRight(l.BaseURL, "/")

	var bases []base
	fetch := func(ctx context.Context, offset string) ([]byte, error) {
		u := root + basesPath
		if offset != "" {
			u += "?offset=" + url.QueryEscape(offset)
		}
		return client.Get(ctx, u)
	}
	err := integration.Paginate(ctx, fetch, "offset", func(page gjson.Result) error {
		page.Get("bases").ForEach(func(_, b gjson.Result) bool {
			bases = append(bases, base{id: b.Get("id").String(), name: b.Get("name").String()})
			return true
		})
		return nil
	})
	if err != nil {
		return nil, integration.FetchError(Name, err)
	}

	items := make([]integration.Item, 0, len(bases))
	for _, b := range bases {
		items = append(items, MapBase(b.id, b.name))
	}

	for _, b := range bases {
		body, err := client.Get(ctx, root+basesPath+"/"+url.PathEscape(b.id)+"/tables")
		if err != nil {
			return nil, err
		}
		gjson.GetBytes(body, "tables").ForEach(func(_, table gjson.Result) bool {
			items = append(items, MapTable(table, b.id, b.name))
			return true
		})
	}
	return items, nil
}

// MapBase converts a base listing entry.
func MapBase(id, name string) integration.Item {
	item := integration.NewItem(id, "Base", name)
	item.Directory = true
	return item
}

// MapTable converts a table schema entry belonging to the given base.
func MapTable(table gjson.Result, baseID, baseName string) integration.Item {
	item := integration.NewItem(table.Get("id").String(), "Table", table.Get("name").String())
	item.ParentID = integration.OptStr(baseID)
	item.ParentPathOrName = integration.OptStr(baseName)
	return item
}
