package node

// Meta is the pagination metadata the node attaches to every collection
// response.
type Meta struct {
	Count      int `json:"count"`
	PageCount  int `json:"pageCount"`
	TotalCount int `json:"totalCount"`
}

// Page is the envelope for a paginated collection response.
type Page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// single is the envelope for a single-entity response.
type single[T any] struct {
	Data T `json:"data"`
}

// Timestamp carries the node's three timestamp representations. The unix
// field is the one this service derives display values from.
type Timestamp struct {
	Epoch int64  `json:"epoch"`
	Unix  int64  `json:"unix"`
	Human string `json:"human"`
}

// Block represents a block as reported by the node.
type Block struct {
	ID            string    `json:"id"`
	Version       int       `json:"version"`
	Height        int64     `json:"height"`
	Previous      string    `json:"previous"`
	Forged        Forged    `json:"forged"`
	Generator     Generator `json:"generator"`
	Confirmations int64     `json:"confirmations"`
	Transactions  int       `json:"transactions"`
	Timestamp     Timestamp `json:"timestamp"`
}

// Forged holds a block's forged totals as base-unit integer strings.
type Forged struct {
	Reward string `json:"reward"`
	Fee    string `json:"fee"`
	Total  string `json:"total"`
	Amount string `json:"amount"`
}

// Generator identifies the delegate that forged a block.
type Generator struct {
	Username  string `json:"username"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// Transaction represents a transaction as reported by the node. Amount and
// fee are base-unit integer strings, nonce is a per-sender monotonic counter.
type Transaction struct {
	ID            string    `json:"id"`
	BlockID       string    `json:"blockId"`
	Version       int       `json:"version"`
	Type          int       `json:"type"`
	TypeGroup     int       `json:"typeGroup"`
	Amount        string    `json:"amount"`
	Fee           string    `json:"fee"`
	Sender        string    `json:"sender"`
	Recipient     string    `json:"recipient,omitempty"`
	VendorField   string    `json:"vendorField,omitempty"`
	Confirmations int64     `json:"confirmations"`
	Timestamp     Timestamp `json:"timestamp"`
	Nonce         string    `json:"nonce"`
}

// Wallet represents a wallet as reported by the node.
type Wallet struct {
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey,omitempty"`
	Nonce      string `json:"nonce"`
	Balance    string `json:"balance"`
	IsDelegate bool   `json:"isDelegate"`
	IsResigned bool   `json:"isResigned"`
	Vote       string `json:"vote,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Delegate represents a registered delegate wallet.
type Delegate struct {
	Username   string         `json:"username"`
	Address    string         `json:"address"`
	PublicKey  string         `json:"publicKey"`
	Votes      string         `json:"votes"`
	Rank       int            `json:"rank"`
	IsResigned bool           `json:"isResigned"`
	Blocks     DelegateBlocks `json:"blocks"`
	Production Production     `json:"production"`
	Forged     DelegateForged `json:"forged"`
}

// DelegateBlocks holds a delegate's block production statistics.
type DelegateBlocks struct {
	Produced int        `json:"produced"`
	Last     *LastBlock `json:"last,omitempty"`
}

// LastBlock summarizes the last block a delegate produced.
type LastBlock struct {
	ID        string    `json:"id"`
	Height    int64     `json:"height"`
	Timestamp Timestamp `json:"timestamp"`
}

// Production holds a delegate's production statistics.
type Production struct {
	Approval float64 `json:"approval"`
}

// DelegateForged holds a delegate's cumulative forged totals.
type DelegateForged struct {
	Fees    string `json:"fees"`
	Rewards string `json:"rewards"`
	Total   string `json:"total"`
}

// Peer represents a peer node.
type Peer struct {
	IP      string `json:"ip"`
	Port    int    `json:"port"`
	Version string `json:"version"`
	Height  int64  `json:"height"`
	Latency int    `json:"latency"`
}

// BlockchainInfo is the aggregate chain snapshot.
type BlockchainInfo struct {
	Block struct {
		Height int64  `json:"height"`
		ID     string `json:"id"`
	} `json:"block"`
	Supply string `json:"supply"`
}

// NodeStatus is the node's sync state snapshot.
type NodeStatus struct {
	Synced      bool  `json:"synced"`
	Now         int64 `json:"now"`
	BlocksCount int64 `json:"blocksCount"`
	Timestamp   int64 `json:"timestamp"`
}
