package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

func TestFetchCards(t *testing.T) {
	var gotPath, gotQuery, gotUA, gotKey, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("X-Api-Key")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"data":[
			{"id":"base1-4","name":"Charizard","number":"4","set":{"id":"base1","name":"Base"},"images":{"small":"https://img/4.png","large":"https://img/4_hires.png"}},
			{"id":"base1-58","name":"Pikachu","number":"58","set":{"id":"base1","name":"Base"}}
		],"page":1,"pageSize":10,"count":2,"totalCount":2}`)
	}, Config{APIKey: "secret"})

	items, err := client.FetchCards(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "/cards", gotPath)
	assert.Contains(t, gotQuery, "pageSize=10")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "select=id%2Cname%2Cset%2Cnumber%2Cimages")
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotAccept)

	first := items[0]
	assert.Equal(t, "base1-4", first.ID)
	require.NotNil(t, first.Set)
	assert.Equal(t, "Base", first.Set.Name)
	require.NotNil(t, first.Images)
	assert.Equal(t, "https://img/4.png", first.Images.Small)
	require.NotNil(t, first.Number)
	assert.Equal(t, "4", *first.Number)

	assert.Nil(t, items[1].Images, "absent images stay nil")
}

func TestFetchCards_MissingNestedObjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"x","name":"No Set"}]}`)
	}, Config{})

	items, err := client.FetchCards(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Set)
	assert.Nil(t, items[0].Number)
}

func TestFetchCards_Pagination(t *testing.T) {
	var pages []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			fmt.Fprint(w, `{"data":[{"id":"a","name":"A"},{"id":"b","name":"B"}]}`)
		default:
			fmt.Fprint(w, `{"data":[{"id":"c","name":"C"}]}`)
		}
	}, Config{PageSize: 2, MaxPages: 5})

	items, err := client.FetchCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []string{"1", "2"}, pages, "stops after a short page")
}

func TestFetchCards_MaxPages(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"data":[{"id":"a","name":"A"}]}`)
	}, Config{PageSize: 1, MaxPages: 3})

	items, err := client.FetchCards(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3, calls)
}

func TestFetchCards_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusServiceUnavailable, se.Code)
				assert.Contains(t, err.Error(), "API returned status 503")
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>oops</html>`)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidPayload)
			},
		},
		{
			name: "missing data key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"error":"nope"}`)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingData)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, Config{})
			items, err := client.FetchCards(context.Background())
			require.Error(t, err)
			assert.Nil(t, items)
			tt.check(t, err)
		})
	}
}

func TestFetchCards_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, Config{Timeout: 20 * time.Millisecond})

	_, err := client.FetchCards(context.Background())
	assert.ErrorIs(t, err, core.ErrCatalogUnavailable)
	assert.Equal(t, "CAT001", core.MapError(err).Code)
}

func TestFetchCards_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	_, err := NewClient(Config{BaseURL: baseURL}).FetchCards(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCatalogUnavailable)
	assert.Equal(t, "CAT001", core.MapError(err).Code)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://example.test/v2/"})
	assert.Equal(t, "https://example.test/v2", c.baseURL)
	assert.Equal(t, DefaultPageSize, c.pageSize)
	assert.Equal(t, DefaultMaxPages, c.maxPages)
	assert.Equal(t, DefaultTimeout, c.timeout)
}
