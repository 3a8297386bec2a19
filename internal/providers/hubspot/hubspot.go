// Package hubspot lists HubSpot CRM contacts as integration items.
package hubspot

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/tidwall/gjson"
)

const (
	Name           = "hubspot"
	AuthURL        = "https://app.hubspot.com/oauth/authorize"
	TokenURL       = "https://api.hubapi.com/oauth/v1/token"
	DefaultBaseURL = "https://api.hubapi.com"

	contactsPath   = "/crm/v3/objects/contacts"
	unknownContact = "Unknown Contact"
)

// Scopes requested on the consent screen.
var Scopes = []string{"crm.objects.contacts.read"}

// Lister pages through the contacts API.
type Lister struct {
	HTTP    *http.Client
	BaseURL string
}

// NewLister returns a lister against the public API.
func NewLister(hc *http.Client) *Lister {
	return &Lister{HTTP: hc, BaseURL: DefaultBaseURL}
}

// ListItems follows paging.next.link until it is absent.
func (l *Lister) ListItems(ctx context.Context, accessToken string) ([]integration.Item, error) {
	client := integration.NewAPIClient(l.HTTP, Name, accessToken)
	first := strings.TrimRight(l.BaseURL, "/") + contactsPath

	var items []integration.Item
	fetch := func(ctx context.Context, next string) ([]byte, error) {
		if next == "" {
			next = first
		}
		return client.Get(ctx, next)
	}
	err := integration.Paginate(ctx, fetch, "paging.next.link", func(page gjson.Result) error {
		page.Get("results").ForEach(func(_, contact gjson.Result) bool {
			items = append(items, MapContact(contact))
			return true
		})
		return nil
	})
	if err != nil {
		return nil, integration.FetchError(Name, err)
	}
	return items, nil
}

// MapContact converts one contacts API record.
func MapContact(contact gjson.Result) integration.Item {
	name := contact.Get("properties.email").String()
	if name == "" {
		name = unknownContact
	}
	item := integration.NewItem(contact.Get("id").String(), "Contact", name)
	item.CreationTime = optString(contact.Get("createdAt"))
	item.LastModifiedTime = optString(contact.Get("updatedAt"))
	return item
}

func optString(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return integration.Str(r.String())
}
