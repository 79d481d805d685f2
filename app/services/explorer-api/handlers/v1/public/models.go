package public

import (
	"net/http"
	"strconv"
	"time"

	"github.com/qredit/explorer/business/explorer/node"
	"github.com/qredit/explorer/foundation/format"
	"github.com/qredit/explorer/foundation/validate"
)

// Deep pagination against the node is capped per collection so the page
// chrome can't walk the upstream service unbounded.
const (
	maxBlockPages  = 400
	maxTxPages     = 400
	maxWalletPages = 100
	maxPeerPages   = 10
)

// activeRank is the cutoff for the forging set and offlineAfter how long a
// delegate may go without forging before being shown as offline.
const (
	activeRank   = 51
	offlineAfter = 15 * time.Minute
)

// pageParams are the pagination values accepted by the list endpoints.
type pageParams struct {
	Page  int `json:"page" validate:"gte=1,lte=1000"`
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}

// paging parses and validates the page/limit query parameters. Invalid input
// is rejected here, before any upstream call is made.
func paging(r *http.Request, defaultLimit int) (pageParams, error) {
	pp := pageParams{
		Page:  1,
		Limit: defaultLimit,
	}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pageParams{}, validate.FieldErrors{{Field: "page", Err: "must be an integer"}}
		}
		pp.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pageParams{}, validate.FieldErrors{{Field: "limit", Err: "must be an integer"}}
		}
		pp.Limit = n
	}

	if err := validate.Check(pp); err != nil {
		return pageParams{}, err
	}

	return pp, nil
}

// meta is the pagination metadata returned to the client. The page count is
// capped per collection.
type meta struct {
	Count      int `json:"count"`
	Page       int `json:"page"`
	PageCount  int `json:"pageCount"`
	TotalCount int `json:"totalCount"`
}

func toMeta(m node.Meta, page int, maxPages int) meta {
	pageCount := m.PageCount
	if pageCount > maxPages {
		pageCount = maxPages
	}

	return meta{
		Count:      m.Count,
		Page:       page,
		PageCount:  pageCount,
		TotalCount: m.TotalCount,
	}
}

// list is the envelope for the collection endpoints.
type list[T any] struct {
	Meta meta `json:"meta"`
	Data []T  `json:"data"`
}

// block is the view of a block with amounts and times rendered for display.
type block struct {
	ID               string `json:"id"`
	Height           int64  `json:"height"`
	Previous         string `json:"previous,omitempty"`
	Generator        string `json:"generator"`
	GeneratorAddress string `json:"generatorAddress"`
	Transactions     int    `json:"transactions"`
	Reward           string `json:"reward"`
	Fee              string `json:"fee"`
	Total            string `json:"total"`
	Amount           string `json:"amount"`
	Confirmations    int64  `json:"confirmations"`
	Timestamp        int64  `json:"timestamp"`
	Age              string `json:"age"`
	Date             string `json:"date"`
}

func toBlock(b node.Block, now time.Time) (block, error) {
	reward, err := format.Amount(b.Forged.Reward)
	if err != nil {
		return block{}, err
	}
	fee, err := format.Amount(b.Forged.Fee)
	if err != nil {
		return block{}, err
	}
	total, err := format.Amount(b.Forged.Total)
	if err != nil {
		return block{}, err
	}
	amount, err := format.Amount(b.Forged.Amount)
	if err != nil {
		return block{}, err
	}

	generator := b.Generator.Username
	if generator == "" {
		generator = format.TruncateHash(b.Generator.Address, 8, 8)
	}

	return block{
		ID:               b.ID,
		Height:           b.Height,
		Previous:         b.Previous,
		Generator:        generator,
		GeneratorAddress: b.Generator.Address,
		Transactions:     b.Transactions,
		Reward:           reward,
		Fee:              fee,
		Total:            total,
		Amount:           amount,
		Confirmations:    b.Confirmations,
		Timestamp:        b.Timestamp.Unix,
		Age:              format.TimeAgo(b.Timestamp.Unix, now),
		Date:             format.Date(b.Timestamp.Unix),
	}, nil
}

func toBlocks(bs []node.Block, now time.Time) ([]block, error) {
	out := make([]block, 0, len(bs))
	for _, b := range bs {
		blk, err := toBlock(b, now)
		if err != nil {
			return nil, err
		}
		out = append(out, blk)
	}
	return out, nil
}

// tx is the view of a transaction. Direction is only set for wallet-scoped
// history, relative to the wallet being viewed.
type tx struct {
	ID            string `json:"id"`
	BlockID       string `json:"blockId"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
	Sender        string `json:"sender"`
	Recipient     string `json:"recipient,omitempty"`
	VendorField   string `json:"vendorField,omitempty"`
	Nonce         string `json:"nonce"`
	Confirmations int64  `json:"confirmations"`
	Timestamp     int64  `json:"timestamp"`
	Age           string `json:"age"`
	Date          string `json:"date"`
	Direction     string `json:"direction,omitempty"`
}

func toTx(t node.Transaction, now time.Time) (tx, error) {
	amount, err := format.Amount(t.Amount)
	if err != nil {
		return tx{}, err
	}
	fee, err := format.Amount(t.Fee)
	if err != nil {
		return tx{}, err
	}

	return tx{
		ID:            t.ID,
		BlockID:       t.BlockID,
		Type:          format.TxTypeLabel(t.Type, t.TypeGroup),
		Amount:        amount,
		Fee:           fee,
		Sender:        t.Sender,
		Recipient:     t.Recipient,
		VendorField:   t.VendorField,
		Nonce:         t.Nonce,
		Confirmations: t.Confirmations,
		Timestamp:     t.Timestamp.Unix,
		Age:           format.TimeAgo(t.Timestamp.Unix, now),
		Date:          format.Date(t.Timestamp.Unix),
	}, nil
}

func toTxs(ts []node.Transaction, now time.Time) ([]tx, error) {
	out := make([]tx, 0, len(ts))
	for _, t := range ts {
		txv, err := toTx(t, now)
		if err != nil {
			return nil, err
		}
		out = append(out, txv)
	}
	return out, nil
}

// wallet is the view of a wallet.
type wallet struct {
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey,omitempty"`
	Username   string `json:"username,omitempty"`
	Balance    string `json:"balance"`
	Nonce      string `json:"nonce"`
	IsDelegate bool   `json:"isDelegate"`
	IsResigned bool   `json:"isResigned"`
	Vote       string `json:"vote,omitempty"`
}

func toWallet(w node.Wallet) (wallet, error) {
	balance, err := format.Amount(w.Balance)
	if err != nil {
		return wallet{}, err
	}

	return wallet{
		Address:    w.Address,
		PublicKey:  w.PublicKey,
		Username:   w.Username,
		Balance:    balance,
		Nonce:      w.Nonce,
		IsDelegate: w.IsDelegate,
		IsResigned: w.IsResigned,
		Vote:       w.Vote,
	}, nil
}

// delegate is the view of a delegate with its forging status derived.
type delegate struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	Address     string `json:"address"`
	Votes       string `json:"votes"`
	Approval    string `json:"approval"`
	Produced    int    `json:"produced"`
	TotalForged string `json:"totalForged"`
	LastBlock   string `json:"lastBlock,omitempty"`
	Online      bool   `json:"online"`
	Status      string `json:"status"`
}

func toDelegate(d node.Delegate, now time.Time) (delegate, error) {
	votes, err := format.AmountWhole(d.Votes)
	if err != nil {
		return delegate{}, err
	}
	forged, err := format.AmountWhole(d.Forged.Total)
	if err != nil {
		return delegate{}, err
	}

	var lastBlock string
	var online bool
	if d.Blocks.Last != nil {
		lastBlock = format.TimeAgo(d.Blocks.Last.Timestamp.Unix, now)
		online = now.Unix()-d.Blocks.Last.Timestamp.Unix < int64(offlineAfter.Seconds())
	}

	status := "standby"
	switch {
	case d.IsResigned:
		status = "resigned"
	case d.Rank <= activeRank:
		status = "active"
	}

	return delegate{
		Rank:        d.Rank,
		Username:    d.Username,
		Address:     d.Address,
		Votes:       votes,
		Approval:    strconv.FormatFloat(d.Production.Approval, 'f', 2, 64) + "%",
		Produced:    d.Blocks.Produced,
		TotalForged: forged,
		LastBlock:   lastBlock,
		Online:      online,
		Status:      status,
	}, nil
}

// peer is the view of a peer node.
type peer struct {
	IP      string `json:"ip"`
	Port    int    `json:"port"`
	Version string `json:"version"`
	Height  int64  `json:"height"`
	Latency int    `json:"latency"`
}

func toPeer(p node.Peer) peer {
	return peer{
		IP:      p.IP,
		Port:    p.Port,
		Version: p.Version,
		Height:  p.Height,
		Latency: p.Latency,
	}
}

// dashboard aggregates the overview page statistics and latest activity.
type dashboard struct {
	Height             int64   `json:"height"`
	Synced             bool    `json:"synced"`
	Supply             string  `json:"supply"`
	TotalTransactions  int     `json:"totalTransactions"`
	ActiveDelegates    int     `json:"activeDelegates"`
	LatestBlocks       []block `json:"latestBlocks"`
	LatestTransactions []tx    `json:"latestTransactions"`
}

// blockDetail pairs a block with one page of its transactions.
type blockDetail struct {
	Block        block    `json:"block"`
	Transactions list[tx] `json:"transactions"`
}

// walletDetail pairs a wallet with one page of its transaction history.
type walletDetail struct {
	Wallet       wallet   `json:"wallet"`
	Transactions list[tx] `json:"transactions"`
}

// delegatesView partitions the registered delegates into the active forging
// set, standby and resigned, with summary counts.
type delegatesView struct {
	Registered int        `json:"registered"`
	Online     int        `json:"online"`
	Active     []delegate `json:"active"`
	Standby    []delegate `json:"standby"`
	Resigned   []delegate `json:"resigned"`
}

// peersView pairs the peer list with the node's own sync state.
type peersView struct {
	Synced bool   `json:"synced"`
	Meta   meta   `json:"meta"`
	Peers  []peer `json:"peers"`
}
