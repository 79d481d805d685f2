package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qredit/explorer/business/explorer/node"
)

const (
	genesisID = "9cc2229e7d9621622bdb4846d290a4b98efe35a5c73d4c2f6a17c88f45b6b72a"
	testAddr  = "XfF5wPcDHuSkRHM2XN1xOXQbNRGQXsAy3Z"
	hexID     = "f39a1c6075c64f2899168dfc61cb45f62a827ad6a8c1b2f6a1ac43d60e4cc4f9"
)

// fakeNode serves just enough of the upstream API for resolver probes.
type fakeNode struct {
	mux *http.ServeMux
}

func newFakeNode() *fakeNode {
	return &fakeNode{mux: http.NewServeMux()}
}

func (f *fakeNode) handle(pattern string, status int, body any) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	})
}

func newTestResolver(t *testing.T, f *fakeNode) *Resolver {
	t.Helper()

	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)

	client := node.NewClient(node.Config{
		Log:    zap.NewNop().Sugar(),
		URL:    srv.URL,
		Client: srv.Client(),
	})

	return NewResolver(zap.NewNop().Sugar(), client)
}

type envelope struct {
	Data any `json:"data"`
}

func TestResolveHeight(t *testing.T) {
	f := newFakeNode()
	f.handle("/blocks", http.StatusOK, node.Page[node.Block]{
		Meta: node.Meta{Count: 1, PageCount: 1, TotalCount: 1},
		Data: []node.Block{{ID: genesisID, Height: 1}},
	})

	r := newTestResolver(t, f)

	result, err := r.Resolve(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, Result{Type: TypeBlock, ID: genesisID}, result)
}

func TestResolveAddress(t *testing.T) {
	f := newFakeNode()
	f.handle("/wallets/"+testAddr, http.StatusOK, envelope{Data: node.Wallet{Address: testAddr}})

	r := newTestResolver(t, f)

	result, err := r.Resolve(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, Result{Type: TypeWallet, ID: testAddr}, result)
}

func TestResolveHexPrefersTransaction(t *testing.T) {
	// Both a transaction and a block answer for the same id; the
	// transaction probe runs first and must win.
	f := newFakeNode()
	f.handle("/transactions/"+hexID, http.StatusOK, envelope{Data: node.Transaction{ID: hexID}})
	f.handle("/blocks/"+hexID, http.StatusOK, envelope{Data: node.Block{ID: hexID}})

	r := newTestResolver(t, f)

	result, err := r.Resolve(context.Background(), hexID)
	require.NoError(t, err)
	assert.Equal(t, Result{Type: TypeTransaction, ID: hexID}, result)
}

func TestResolveHexFallsBackToBlock(t *testing.T) {
	f := newFakeNode()
	f.handle("/transactions/"+hexID, http.StatusNotFound, nil)
	f.handle("/blocks/"+hexID, http.StatusOK, envelope{Data: node.Block{ID: hexID}})

	r := newTestResolver(t, f)

	result, err := r.Resolve(context.Background(), hexID)
	require.NoError(t, err)
	assert.Equal(t, Result{Type: TypeBlock, ID: hexID}, result)
}

func TestResolveDelegateUsername(t *testing.T) {
	f := newFakeNode()
	f.handle("/delegates/slothbag", http.StatusOK, envelope{Data: node.Delegate{
		Username: "slothbag",
		Address:  testAddr,
	}})

	r := newTestResolver(t, f)

	// The canonical result is the delegate's wallet address.
	result, err := r.Resolve(context.Background(), "slothbag")
	require.NoError(t, err)
	assert.Equal(t, Result{Type: TypeWallet, ID: testAddr}, result)
}

func TestResolveNoMatch(t *testing.T) {
	// Nothing registered: every probe sees a 404.
	r := newTestResolver(t, newFakeNode())

	_, err := r.Resolve(context.Background(), "not-a-real-id")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveTransportErrorPropagates(t *testing.T) {
	f := newFakeNode()
	f.handle("/delegates/ghost", http.StatusInternalServerError, nil)

	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "ghost")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestClassifierPatterns(t *testing.T) {
	// A pure-digit query is always a height candidate, never an address.
	assert.True(t, heightRx.MatchString("12345"))
	assert.False(t, addressRx.MatchString("12345"))

	// Addresses start with the network prefix, a non-digit, so the
	// digits-first priority cannot shadow a real address.
	assert.True(t, addressRx.MatchString(testAddr))
	assert.False(t, heightRx.MatchString(testAddr))
	assert.Len(t, testAddr, 34)

	// Hex ids are case-insensitive and exactly 64 characters.
	assert.True(t, hexIDRx.MatchString(hexID))
	assert.True(t, hexIDRx.MatchString("F39A1C6075C64F2899168DFC61CB45F62A827AD6A8C1B2F6A1AC43D60E4CC4F9"))
	assert.False(t, hexIDRx.MatchString(hexID[:63]))
}
