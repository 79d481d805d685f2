package node

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler, detailTTL time.Duration, listTTL time.Duration) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Log:       zap.NewNop().Sugar(),
		URL:       srv.URL,
		Client:    srv.Client(),
		DetailTTL: detailTTL,
		ListTTL:   listTTL,
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestBlocksPagination(t *testing.T) {
	var gotQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/blocks", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery

		// A 30 item collection paged by 25 yields a 25 item first page.
		blocks := make([]Block, 25)
		for i := range blocks {
			blocks[i] = Block{ID: fmt.Sprintf("block-%d", i), Height: int64(30 - i)}
		}
		writeJSON(t, w, Page[Block]{
			Meta: Meta{Count: 25, PageCount: 2, TotalCount: 30},
			Data: blocks,
		})
	})

	c := testClient(t, mux, 0, 0)

	page, err := c.Blocks(context.Background(), 1, 25)
	require.NoError(t, err)

	assert.Equal(t, "limit=25&page=1", gotQuery)
	assert.Len(t, page.Data, 25)
	assert.Equal(t, 2, page.Meta.PageCount)
	assert.Equal(t, 30, page.Meta.TotalCount)
}

func TestPageCoercion(t *testing.T) {
	var gotQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, Page[Transaction]{})
	})

	c := testClient(t, mux, 0, 0)

	// Page and limit below 1 are coerced to 1, not rejected: the node is
	// the authority on valid ranges.
	_, err := c.Transactions(context.Background(), 0, -3)
	require.NoError(t, err)
	assert.Equal(t, "limit=1&page=1", gotQuery)
}

func TestNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/blocks/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Not Found"}`, http.StatusNotFound)
	})

	c := testClient(t, mux, 0, 0)

	_, err := c.Block(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallets/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := testClient(t, mux, 0, 0)

	_, err := c.Wallet(context.Background(), "XfF5wPcDHuSkRHM2XN1xOXQbNRGQXsAy3Z")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBlockByHeight(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/blocks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("height") == "1" {
			writeJSON(t, w, Page[Block]{
				Meta: Meta{Count: 1, PageCount: 1, TotalCount: 1},
				Data: []Block{{ID: "genesis", Height: 1}},
			})
			return
		}
		writeJSON(t, w, Page[Block]{})
	})

	c := testClient(t, mux, 0, 0)

	blk, err := c.BlockByHeight(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "genesis", blk.ID)

	// An empty filtered result is a not-found, not a transport failure.
	_, err = c.BlockByHeight(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResponseCache(t *testing.T) {
	var calls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/node/status", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		writeJSON(t, w, single[NodeStatus]{Data: NodeStatus{Synced: true}})
	})

	c := testClient(t, mux, 0, 25*time.Millisecond)

	for i := 0; i < 3; i++ {
		status, err := c.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Synced)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "fresh entries must be served from cache")

	// A stale entry is silently replaced on next access.
	time.Sleep(50 * time.Millisecond)

	_, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCacheDisabled(t *testing.T) {
	var calls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/blockchain", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		writeJSON(t, w, single[BlockchainInfo]{})
	})

	c := testClient(t, mux, 0, 0)

	for i := 0; i < 2; i++ {
		_, err := c.Blockchain(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}
