package courtlistener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"docketlabeler/pkg/errors"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Options{
		Endpoint:  server.URL + "/api/rest/v4/docket-entries/",
		APIToken:  "secret",
		UserAgent: "docketlabeler-test",
		Timeout:   5 * time.Second,
	}, logger.NewTestLogger())
	return client, server
}

func TestFetchPageFirstPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/v4/docket-entries/", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get(CursorParam))
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "docketlabeler-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"next": "abc",
			"results": [
				{"id": 1, "description": "Summons Returned Executed", "recap_documents": []},
				{"id": 2, "description": "", "recap_documents": [{"id": 20, "description": "Exhibit"}]},
				{"id": 3, "description": null}
			]
		}`))
	})

	page, err := client.FetchPage(context.Background(), nil)
	require.NoError(t, err)

	require.NotNil(t, page.Next)
	assert.Equal(t, "abc", *page.Next)
	require.Len(t, page.Items, 3)

	assert.Equal(t, int64(1), *page.Items[0].ID)
	assert.Equal(t, "Summons Returned Executed", *page.Items[0].Description)
	assert.Equal(t, int64(20), *page.Items[1].RecapDocuments[0].ID)
	assert.Nil(t, page.Items[2].Description)
	assert.Empty(t, page.Items[2].RecapDocuments)
}

func TestFetchPageSendsCursor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get(CursorParam))
		w.Write([]byte(`{"next": null, "results": []}`))
	})

	cursor := "abc"
	page, err := client.FetchPage(context.Background(), &cursor)
	require.NoError(t, err)
	assert.Nil(t, page.Next)
	assert.Empty(t, page.Items)
}

func TestFetchPageAbsoluteCursor(t *testing.T) {
	var hits atomic.Int32
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/elsewhere/", r.URL.Path)
		assert.Equal(t, "xyz", r.URL.Query().Get(CursorParam))
		w.Write([]byte(`{"next": "", "results": []}`))
	})

	cursor := server.URL + "/elsewhere/?cursor=xyz"
	page, err := client.FetchPage(context.Background(), &cursor)
	require.NoError(t, err)
	assert.Nil(t, page.Next, "an empty next is treated as exhausted")
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchPageErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType errors.ErrorType
		wantCode int
	}{
		{name: "server error", status: http.StatusBadGateway, body: "bad gateway", wantType: errors.ErrorTypeRemote, wantCode: 502},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail":"Invalid token."}`, wantType: errors.ErrorTypeRemote, wantCode: 401},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "", wantType: errors.ErrorTypeRemote, wantCode: 429},
		{name: "not json", status: http.StatusOK, body: "<html>", wantType: errors.ErrorTypeProtocol, wantCode: 200},
		{name: "missing results", status: http.StatusOK, body: `{"next": null}`, wantType: errors.ErrorTypeProtocol, wantCode: 200},
		{name: "item without id", status: http.StatusOK, body: `{"results": [{"description": "x"}]}`, wantType: errors.ErrorTypeProtocol, wantCode: 200},
		{name: "document without id", status: http.StatusOK, body: `{"results": [{"id": 1, "recap_documents": [{"description": "x"}]}]}`, wantType: errors.ErrorTypeProtocol, wantCode: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			page, err := client.FetchPage(context.Background(), nil)
			require.Error(t, err)
			assert.Nil(t, page)

			var typed *errors.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, tt.wantType, typed.Type)
			assert.Equal(t, tt.wantCode, typed.Code)
			assert.True(t, errors.IsFetchFailure(err))
		})
	}
}

func TestFetchPageTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/"
	server.Close()

	client := NewClient(Options{Endpoint: endpoint, Timeout: time.Second}, logger.NewTestLogger())
	_, err := client.FetchPage(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsRemote(err))
}

func TestFetchPageCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchPageWaitsOnLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(Options{
		Endpoint: server.URL,
		Limiter:  ratelimit.NewTokenBucket(time.Hour, 1),
	}, logger.NewNopLogger())

	_, err := client.FetchPage(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = client.FetchPage(ctx, nil)
	assert.Error(t, err, "second request should block on the limiter until the context expires")
}

func TestFetchPageLogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := NewClient(Options{Endpoint: server.URL}, log)

	_, err := client.FetchPage(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, log.HasError())
	assert.Equal(t, "courtlistener", log.GetMessagesByLevel("ERROR")[0].Fields["component"])
}
