// Package public maintains the group of handlers for the explorer views.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qredit/explorer/business/explorer/node"
	"github.com/qredit/explorer/business/explorer/search"
	v1 "github.com/qredit/explorer/business/web/v1"
	"github.com/qredit/explorer/foundation/format"
	"github.com/qredit/explorer/foundation/web"
)

// Handlers manages the set of explorer endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Node   *node.Client
	Searcher *search.Resolver
}

// Dashboard returns the chain overview: aggregate statistics plus the latest
// blocks and transactions. The upstream fetches are independent so they run
// concurrently; any single failure fails the page.
func (h Handlers) Dashboard(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var (
		chain     node.BlockchainInfo
		status    node.NodeStatus
		blocks    node.Page[node.Block]
		txs       node.Page[node.Transaction]
		delegates node.Page[node.Delegate]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		chain, err = h.Node.Blockchain(gctx)
		return err
	})
	g.Go(func() (err error) {
		status, err = h.Node.Status(gctx)
		return err
	})
	g.Go(func() (err error) {
		blocks, err = h.Node.Blocks(gctx, 1, 10)
		return err
	})
	g.Go(func() (err error) {
		txs, err = h.Node.Transactions(gctx, 1, 10)
		return err
	})
	g.Go(func() (err error) {
		delegates, err = h.Node.Delegates(gctx, 1, 51)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("dashboard fetch: %w", err)
	}

	supply, err := format.AmountAbbrev(chain.Supply)
	if err != nil {
		return err
	}

	now := time.Now()

	latestBlocks, err := toBlocks(blocks.Data, now)
	if err != nil {
		return err
	}
	latestTxs, err := toTxs(txs.Data, now)
	if err != nil {
		return err
	}

	active := 0
	for _, d := range delegates.Data {
		if !d.IsResigned {
			active++
		}
	}

	db := dashboard{
		Height:             chain.Block.Height,
		Synced:             status.Synced,
		Supply:             supply,
		TotalTransactions:  txs.Meta.TotalCount,
		ActiveDelegates:    active,
		LatestBlocks:       latestBlocks,
		LatestTransactions: latestTxs,
	}

	return web.Respond(ctx, w, db, http.StatusOK)
}

// Blocks returns one page of blocks.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pp, err := paging(r, 25)
	if err != nil {
		return err
	}

	page, err := h.Node.Blocks(ctx, pp.Page, pp.Limit)
	if err != nil {
		return fmt.Errorf("blocks[%d:%d]: %w", pp.Page, pp.Limit, err)
	}

	items, err := toBlocks(page.Data, time.Now())
	if err != nil {
		return err
	}

	resp := list[block]{
		Meta: toMeta(page.Meta, pp.Page, maxBlockPages),
		Data: items,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlockByID returns a single block and one page of its transactions.
func (h Handlers) BlockByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	pp, err := paging(r, 25)
	if err != nil {
		return err
	}

	blk, err := h.Node.Block(ctx, id)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return v1.NewRequestError(fmt.Errorf("block %s not found", id), http.StatusNotFound)
		}
		return fmt.Errorf("block[%s]: %w", id, err)
	}

	txPage, err := h.Node.BlockTransactions(ctx, id, pp.Page, pp.Limit)
	if err != nil {
		return fmt.Errorf("block[%s] transactions: %w", id, err)
	}

	now := time.Now()

	blockView, err := toBlock(blk, now)
	if err != nil {
		return err
	}
	txs, err := toTxs(txPage.Data, now)
	if err != nil {
		return err
	}

	resp := blockDetail{
		Block: blockView,
		Transactions: list[tx]{
			Meta: toMeta(txPage.Meta, pp.Page, maxTxPages),
			Data: txs,
		},
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Transactions returns one page of transactions.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pp, err := paging(r, 25)
	if err != nil {
		return err
	}

	page, err := h.Node.Transactions(ctx, pp.Page, pp.Limit)
	if err != nil {
		return fmt.Errorf("transactions[%d:%d]: %w", pp.Page, pp.Limit, err)
	}

	items, err := toTxs(page.Data, time.Now())
	if err != nil {
		return err
	}

	resp := list[tx]{
		Meta: toMeta(page.Meta, pp.Page, maxTxPages),
		Data: items,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// TransactionByID returns a single transaction.
func (h Handlers) TransactionByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	txn, err := h.Node.Transaction(ctx, id)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return v1.NewRequestError(fmt.Errorf("transaction %s not found", id), http.StatusNotFound)
		}
		return fmt.Errorf("transaction[%s]: %w", id, err)
	}

	txView, err := toTx(txn, time.Now())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, txView, http.StatusOK)
}

// Wallets returns one page of wallets ordered by balance descending.
func (h Handlers) Wallets(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pp, err := paging(r, 25)
	if err != nil {
		return err
	}

	page, err := h.Node.Wallets(ctx, pp.Page, pp.Limit)
	if err != nil {
		return fmt.Errorf("wallets[%d:%d]: %w", pp.Page, pp.Limit, err)
	}

	items := make([]wallet, 0, len(page.Data))
	for _, wlt := range page.Data {
		wv, err := toWallet(wlt)
		if err != nil {
			return err
		}
		items = append(items, wv)
	}

	resp := list[wallet]{
		Meta: toMeta(page.Meta, pp.Page, maxWalletPages),
		Data: items,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// WalletByAddress returns a single wallet and one page of its transaction
// history. Each transaction is tagged sent or received relative to the
// wallet.
func (h Handlers) WalletByAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	pp, err := paging(r, 25)
	if err != nil {
		return err
	}

	wlt, err := h.Node.Wallet(ctx, address)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return v1.NewRequestError(fmt.Errorf("wallet %s not found", address), http.StatusNotFound)
		}
		return fmt.Errorf("wallet[%s]: %w", address, err)
	}

	txPage, err := h.Node.WalletTransactions(ctx, address, pp.Page, pp.Limit)
	if err != nil {
		return fmt.Errorf("wallet[%s] transactions: %w", address, err)
	}

	now := time.Now()

	txs, err := toTxs(txPage.Data, now)
	if err != nil {
		return err
	}
	for i := range txs {
		if txs[i].Sender == wlt.Address {
			txs[i].Direction = "sent"
		} else {
			txs[i].Direction = "received"
		}
	}

	walletView, err := toWallet(wlt)
	if err != nil {
		return err
	}

	resp := walletDetail{
		Wallet: walletView,
		Transactions: list[tx]{
			Meta: toMeta(txPage.Meta, pp.Page, maxWalletPages),
			Data: txs,
		},
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Delegates returns the registered delegates partitioned into the active
// forging set, standby and resigned. The registry is larger than one node
// page, so two pages are fetched concurrently and merged.
func (h Handlers) Delegates(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var page1, page2 node.Page[node.Delegate]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page1, err = h.Node.Delegates(gctx, 1, 100)
		return err
	})
	g.Go(func() (err error) {
		page2, err = h.Node.Delegates(gctx, 2, 100)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("delegates fetch: %w", err)
	}

	now := time.Now()

	view := delegatesView{
		Registered: page1.Meta.TotalCount,
		Active:     []delegate{},
		Standby:    []delegate{},
		Resigned:   []delegate{},
	}

	for _, d := range append(page1.Data, page2.Data...) {
		dv, err := toDelegate(d, now)
		if err != nil {
			return err
		}

		switch dv.Status {
		case "active":
			view.Active = append(view.Active, dv)
			if dv.Online {
				view.Online++
			}
		case "resigned":
			view.Resigned = append(view.Resigned, dv)
		default:
			view.Standby = append(view.Standby, dv)
		}
	}

	return web.Respond(ctx, w, view, http.StatusOK)
}

// Peers returns the node's peer list along with its own sync state.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pp, err := paging(r, 100)
	if err != nil {
		return err
	}

	var page node.Page[node.Peer]
	var status node.NodeStatus

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page, err = h.Node.Peers(gctx, pp.Page, pp.Limit)
		return err
	})
	g.Go(func() (err error) {
		status, err = h.Node.Status(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("peers fetch: %w", err)
	}

	peers := make([]peer, 0, len(page.Data))
	for _, p := range page.Data {
		peers = append(peers, toPeer(p))
	}

	resp := peersView{
		Synced: status.Synced,
		Meta:   toMeta(page.Meta, pp.Page, maxPeerPages),
		Peers:  peers,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Search resolves a free-text query to an entity reference. An empty query
// is a caller error, an unresolved query is a not-found outcome and only a
// transport failure surfaces as a server error.
func (h Handlers) Search(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return v1.NewRequestError(errors.New("missing query"), http.StatusBadRequest)
	}

	result, err := h.Searcher.Resolve(ctx, q)
	if err != nil {
		if errors.Is(err, search.ErrNoMatch) {
			return v1.NewRequestError(errors.New("not found"), http.StatusNotFound)
		}
		return fmt.Errorf("search[%s]: %w", q, err)
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}
