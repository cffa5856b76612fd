package shodan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func makeMatches(n, offset int) []Match {
	out := make([]Match, n)
	for i := range out {
		out[i] = Match{
			IPStr: fmt.Sprintf("198.51.100.%d", offset+i),
			Port:  80,
			Location: &Location{
				Latitude:  ptr(1.5),
				Longitude: ptr(2.5),
			},
		}
	}
	return out
}

func TestClient_Search_SinglePage(t *testing.T) {
	var gotQuery, gotKey, gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("key")
		gotPage = r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 3,
			"matches": [
				{"ip_str": "203.0.113.1", "port": 8080, "org": "ISP", "product": "Axis",
				 "location": {"latitude": 48.85, "longitude": 2.35, "country_name": "France", "city": "Paris"}},
				{"ip_str": "203.0.113.2", "port": 80, "location": {"latitude": null, "longitude": 2.35}},
				{"ip_str": "203.0.113.3", "port": 81}
			]
		}`))
	}))
	defer srv.Close()

	c := New("secret", WithBaseURL(srv.URL))
	res, err := c.Search(context.Background(), `title:"IP Camera"`, 100)
	require.NoError(t, err)

	assert.Equal(t, `title:"IP Camera"`, gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "1", gotPage)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, 3, res.Total)

	first := res.Matches[0]
	assert.True(t, first.HasCoordinates())
	assert.Equal(t, "France", *first.Location.CountryName)
	assert.Equal(t, "Axis", *first.Product)
	assert.False(t, res.Matches[1].HasCoordinates(), "null latitude")
	assert.False(t, res.Matches[2].HasCoordinates(), "no location block")
}

func TestClient_Search_PagesUntilLimit(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		n, _ := strconv.Atoi(page)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResult{Total: 1000, Matches: makeMatches(PageSize, (n-1)*PageSize)})
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	res, err := c.Search(context.Background(), "camera", 150)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 150)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestClient_Search_ShortPageStops(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResult{Total: 7, Matches: makeMatches(7, 0)})
	}))
	defer srv.Close()

	res, err := New("k", WithBaseURL(srv.URL)).Search(context.Background(), "webcam", 300)
	require.NoError(t, err)
	assert.Len(t, res.Matches, 7)
	assert.Equal(t, 1, calls)
}

func TestClient_Search_ZeroLimitMakesNoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("unexpected request")
	}))
	defer srv.Close()

	res, err := New("k", WithBaseURL(srv.URL)).Search(context.Background(), "webcam", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
}

func TestClient_Search_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{name: "json error envelope", status: http.StatusUnauthorized, contentType: "application/json", body: `{"error": "Invalid API key"}`, wantMsg: "Invalid API key"},
		{name: "plain body", status: http.StatusServiceUnavailable, contentType: "text/plain", body: `down`, wantMsg: "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", WithBaseURL(srv.URL)).Search(context.Background(), "camera", 10)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_Search_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New("top-secret", WithBaseURL(url)).Search(context.Background(), "camera", 10)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "top-secret")
}
