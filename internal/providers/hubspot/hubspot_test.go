package hubspot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrschumacher/integrationhub/internal/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMapContact(t *testing.T) {
	t.Run("email becomes the name", func(t *testing.T) {
		item := MapContact(gjson.Parse(`{"id":"7","properties":{"email":"a@b.com"}}`))
		assert.Equal(t, "Contact", *item.Type)
		assert.Equal(t, "a@b.com", *item.Name)
		assert.Equal(t, "7", *item.ID)
		assert.Nil(t, item.ParentID)
		assert.Nil(t, item.ParentPathOrName)
		assert.Nil(t, item.CreationTime)
		assert.False(t, item.Directory)
		assert.True(t, item.Visibility)
	})

	for name, raw := range map[string]string{
		"missing email": `{"id":"1","properties":{}}`,
		"null email":    `{"id":"1","properties":{"email":null}}`,
		"empty email":   `{"id":"1","properties":{"email":""}}`,
		"no properties": `{"id":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			item := MapContact(gjson.Parse(raw))
			assert.Equal(t, "Unknown Contact", *item.Name)
		})
	}

	t.Run("timestamps are passed through", func(t *testing.T) {
		item := MapContact(gjson.Parse(`{"id":"1","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-02-01T00:00:00.000Z","properties":{"email":"x@y.z"}}`))
		require.NotNil(t, item.CreationTime)
		require.NotNil(t, item.LastModifiedTime)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", *item.CreationTime)
		assert.Equal(t, "2024-02-01T00:00:00.000Z", *item.LastModifiedTime)
	})
}

func TestListItemsFollowsPaging(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)

		switch r.URL.Query().Get("after") {
		case "":
			fmt.Fprintf(w, `{"results":[{"id":"1","properties":{"email":"a@b.com"}},{"id":"2","properties":{}}],
				"paging":{"next":{"after":"2","link":"%s/crm/v3/objects/contacts?after=2"}}}`, srv.URL)
		case "2":
			fmt.Fprintf(w, `{"results":[{"id":"3","properties":{"email":"c@d.com"}}],
				"paging":{"next":{"after":"3","link":"%s/crm/v3/objects/contacts?after=3"}}}`, srv.URL)
		case "3":
			fmt.Fprint(w, `{"results":[{"id":"4","properties":{"email":"e@f.com"}}]}`)
		}
	}))
	defer srv.Close()

	l := &Lister{HTTP: srv.Client(), BaseURL: srv.URL}
	items, err := l.ListItems(context.Background(), "tok")
	require.NoError(t, err)

	var ids, names []string
	for _, it := range items {
		ids = append(ids, *it.ID)
		names = append(names, *it.Name)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
	assert.Equal(t, []string{"a@b.com", "Unknown Contact", "c@d.com", "e@f.com"}, names)
}

func TestListItemsPropagatesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	l := &Lister{HTTP: srv.Client(), BaseURL: srv.URL}
	_, err := l.ListItems(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, integration.ErrItemFetchFailed))
	assert.Equal(t, http.StatusUnauthorized, integration.AsError(err).HTTPStatus())
	assert.Equal(t, "Failed to fetch hubspot items", integration.AsError(err).PublicMessage())
}
