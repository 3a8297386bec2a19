package airtable

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
)

func newMetaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0/meta/bases", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("offset") {
		case "":
			fmt.Fprint(w, `{"bases":[{"id":"appA","name":"Sales","permissionLevel":"create"}],"offset":"itrB"}`)
		case "itrB":
			fmt.Fprint(w, `{"bases":[{"id":"appB","name":"Ops","permissionLevel":"read"}]}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})
	mux.HandleFunc("GET /v0/meta/bases/{id}/tables", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "appA":
			fmt.Fprint(w, `{"tables":[{"id":"tbl1","name":"Leads"},{"id":"tbl2","name":"Deals"}]}`)
		case "appB":
			fmt.Fprint(w, `{"tables":[{"id":"tbl3","name":"Tasks"}]}`)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListItemsBasesThenTables(t *testing.T) {
	srv := newMetaServer(t)

	l := &Lister{HTTP: srv.Client(), BaseURL: srv.URL}
	items, err := l.ListItems(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, items, 5)

	var got []string
	for _, it := range items {
		got = append(got, *it.Type+":"+*it.ID)
	}
	assert.Equal(t, []string{"Base:appA", "Base:appB", "Table:tbl1", "Table:tbl2", "Table:tbl3"}, got)

	assert.True(t, items[0].Directory)
	assert.Equal(t, "Sales", *items[0].Name)
	assert.Nil(t, items[0].ParentID)

	leads := items[2]
	assert.False(t, leads.Directory)
	assert.Equal(t, "Leads", *leads.Name)
	assert.Equal(t, "appA", *leads.ParentID)
	assert.Equal(t, "Sales", *leads.ParentPathOrName)

	assert.Equal(t, "appB", *items[4].ParentID)
}

func TestListItemsTableFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0/meta/bases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bases":[{"id":"appA","name":"Sales"}]}`)
	})
	mux.HandleFunc("GET /v0/meta/bases/{id}/tables", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := &Lister{HTTP: srv.Client(), BaseURL: srv.URL}
	items, err := l.ListItems(context.Background(), "tok")
	assert.Nil(t, items, "no partial results")
	require.Error(t, err)
	assert.True(t, errors.Is(err, integration.ErrItemFetchFailed))
	assert.Equal(t, http.StatusForbidden, integration.AsError(err).HTTPStatus())
}
