// Package notion lists the pages and databases shared with a Notion
// integration.
package notion

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/tidwall/gjson"
)

const (
	Name           = "notion"
	AuthURL        = "https://api.notion.com/v1/oauth/authorize"
	TokenURL       = "https://api.notion.com/v1/oauth/token"
	DefaultBaseURL = "https://api.notion.com"
	APIVersion     = "2022-06-28"

	searchPath   = "/v1/search"
	nameKey      = "content"
	fallbackName = "multi_select"
)

// AuthParams are added to the consent URL.
var AuthParams = map[string]string{"owner": "user"}

// Lister queries the search endpoint.
type Lister struct {
	HTTP    *http.Client
	BaseURL string
}

// NewLister returns a lister against the public API.
func NewLister(hc *http.Client) *Lister {
	return &Lister{HTTP: hc, BaseURL: DefaultBaseURL}
}

// ListItems issues a single search request. Notion paginates search with
// next_cursor; only the first page is read.
func (l *Lister) ListItems(ctx context.Context, accessToken string) ([]integration.Item, error) {
	client := integration.NewAPIClient(l.HTTP, Name, accessToken)
	client.Header.Set("Notion-Version", APIVersion)

	body, err := client.Post(ctx, strings.TrimRight(l.BaseURL, "/")+searchPath, []byte(`{}`))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, integration.ItemFetchFailed(Name, 0, errInvalidJSON)
	}

	var items []integration.Item
	gjson.GetBytes(body, "results").ForEach(func(_, obj gjson.Result) bool {
		items = append(items, MapObject(obj))
		return true
	})
	return items, nil
}

// MapObject converts one search result (a page or a database).
func MapObject(obj gjson.Result) integration.Item {
	name, ok := findKey(obj.Get("properties"), nameKey)
	if !ok {
		name, ok = findKey(obj, nameKey)
	}
	resolved := fallbackName
	if ok {
		resolved = name.String()
	}

	object := obj.Get("object").String()
	item := integration.NewItem(obj.Get("id").String(), object, object+" "+resolved)
	item.ParentID = parentID(obj.Get("parent"))
	item.CreationTime = optString(obj.Get("created_time"))
	item.LastModifiedTime = optString(obj.Get("last_edited_time"))
	return item
}

// parentID is nil for workspace-level objects, otherwise parent[parent.type].
func parentID(parent gjson.Result) *string {
	kind := parent.Get("type").String()
	if !parent.Exists() || kind == "" || kind == "workspace" {
		return nil
	}
	return optString(parent.Get(gjson.Escape(kind)))
}

// findKey searches node depth first in document order. A key at the current
// level wins over anything nested; a null value counts as absent for that
// subtree. Arrays are only searched through their object elements.
func findKey(node gjson.Result, key string) (gjson.Result, bool) {
	if !node.IsObject() {
		return gjson.Result{}, false
	}
	if v := node.Get(gjson.Escape(key)); v.Exists() {
		if v.Type == gjson.Null {
			return gjson.Result{}, false
		}
		return v, true
	}

	var (
		found gjson.Result
		ok    bool
	)
	node.ForEach(func(_, child gjson.Result) bool {
		switch {
		case child.IsObject():
			found, ok = findKey(child, key)
		case child.IsArray():
			child.ForEach(func(_, elem gjson.Result) bool {
				if elem.IsObject() {
					found, ok = findKey(elem, key)
				}
				return !ok
			})
		}
		return !ok
	})
	return found, ok
}

func optString(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return integration.Str(r.String())
}
