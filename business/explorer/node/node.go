// Package node provides a typed read-only client for the upstream node's
// REST API. The node is the authority on chain state; this client only
// shapes requests, decodes the pagination envelope and classifies failures.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the node reports the requested entity does
// not exist.
var ErrNotFound = errors.New("not found")

// Config holds the settings for constructing a Client.
type Config struct {
	Log *zap.SugaredLogger

	// URL is the base URL of the node API, e.g. http://host:5103/api/v2.
	URL string

	// Client is the HTTP client used for upstream calls. A default with a
	// 10 second timeout is used when nil.
	Client *http.Client

	// DetailTTL and ListTTL bound how long single-entity and collection
	// responses are served from cache. Zero disables caching for that
	// category.
	DetailTTL time.Duration
	ListTTL   time.Duration

	// MaxRPS caps outbound requests to the node. Zero means no limit.
	MaxRPS int
}

// Client is the read-only client for the upstream node API.
type Client struct {
	log     *zap.SugaredLogger
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache

	detailTTL time.Duration
	listTTL   time.Duration
}

// NewClient constructs a Client for the given node endpoint.
func NewClient(cfg Config) *Client {
	c := cfg.Client
	if c == nil {
		c = &http.Client{
			Timeout: time.Second * 10,
		}
	}

	limit := rate.Inf
	if cfg.MaxRPS > 0 {
		limit = rate.Limit(cfg.MaxRPS)
	}

	return &Client{
		log:       cfg.Log,
		baseURL:   cfg.URL,
		http:      c,
		limiter:   rate.NewLimiter(limit, max(cfg.MaxRPS, 1)),
		cache:     newCache(),
		detailTTL: cfg.DetailTTL,
		listTTL:   cfg.ListTTL,
	}
}

// Blockchain returns the aggregate chain snapshot.
func (c *Client) Blockchain(ctx context.Context) (BlockchainInfo, error) {
	var resp single[BlockchainInfo]
	if err := c.get(ctx, "/blockchain", c.listTTL, &resp); err != nil {
		return BlockchainInfo{}, err
	}
	return resp.Data, nil
}

// Status returns the node's sync state.
func (c *Client) Status(ctx context.Context) (NodeStatus, error) {
	var resp single[NodeStatus]
	if err := c.get(ctx, "/node/status", c.listTTL, &resp); err != nil {
		return NodeStatus{}, err
	}
	return resp.Data, nil
}

// Blocks returns one page of blocks ordered by height descending.
func (c *Client) Blocks(ctx context.Context, page int, limit int) (Page[Block], error) {
	var resp Page[Block]
	err := c.get(ctx, "/blocks?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// Block returns a single block by its identifier.
func (c *Client) Block(ctx context.Context, id string) (Block, error) {
	var resp single[Block]
	if err := c.get(ctx, "/blocks/"+url.PathEscape(id), c.detailTTL, &resp); err != nil {
		return Block{}, err
	}
	return resp.Data, nil
}

// BlockByHeight looks up the block at the given height. The node exposes
// this as a filtered collection query rather than a path parameter.
func (c *Client) BlockByHeight(ctx context.Context, height string) (Block, error) {
	q := url.Values{}
	q.Set("height", height)
	q.Set("limit", "1")

	var resp Page[Block]
	if err := c.get(ctx, "/blocks?"+q.Encode(), c.detailTTL, &resp); err != nil {
		return Block{}, err
	}
	if len(resp.Data) == 0 {
		return Block{}, ErrNotFound
	}
	return resp.Data[0], nil
}

// BlockTransactions returns one page of a block's transactions.
func (c *Client) BlockTransactions(ctx context.Context, id string, page int, limit int) (Page[Transaction], error) {
	var resp Page[Transaction]
	err := c.get(ctx, "/blocks/"+url.PathEscape(id)+"/transactions?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// Transactions returns one page of transactions ordered by recency.
func (c *Client) Transactions(ctx context.Context, page int, limit int) (Page[Transaction], error) {
	var resp Page[Transaction]
	err := c.get(ctx, "/transactions?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// Transaction returns a single transaction by its identifier.
func (c *Client) Transaction(ctx context.Context, id string) (Transaction, error) {
	var resp single[Transaction]
	if err := c.get(ctx, "/transactions/"+url.PathEscape(id), c.detailTTL, &resp); err != nil {
		return Transaction{}, err
	}
	return resp.Data, nil
}

// Wallets returns one page of wallets ordered by balance descending.
func (c *Client) Wallets(ctx context.Context, page int, limit int) (Page[Wallet], error) {
	q := pageQuery(page, limit)
	q.Set("orderBy", "balance:desc")

	var resp Page[Wallet]
	err := c.get(ctx, "/wallets?"+q.Encode(), c.listTTL, &resp)
	return resp, err
}

// Wallet returns a single wallet by its address.
func (c *Client) Wallet(ctx context.Context, address string) (Wallet, error) {
	var resp single[Wallet]
	if err := c.get(ctx, "/wallets/"+url.PathEscape(address), c.detailTTL, &resp); err != nil {
		return Wallet{}, err
	}
	return resp.Data, nil
}

// WalletTransactions returns one page of a wallet's transaction history.
func (c *Client) WalletTransactions(ctx context.Context, address string, page int, limit int) (Page[Transaction], error) {
	var resp Page[Transaction]
	err := c.get(ctx, "/wallets/"+url.PathEscape(address)+"/transactions?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// Delegates returns one page of delegates ordered by rank ascending.
func (c *Client) Delegates(ctx context.Context, page int, limit int) (Page[Delegate], error) {
	var resp Page[Delegate]
	err := c.get(ctx, "/delegates?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// Delegate returns a single delegate by username or address.
func (c *Client) Delegate(ctx context.Context, nameOrAddress string) (Delegate, error) {
	var resp single[Delegate]
	if err := c.get(ctx, "/delegates/"+url.PathEscape(nameOrAddress), c.detailTTL, &resp); err != nil {
		return Delegate{}, err
	}
	return resp.Data, nil
}

// Peers returns one page of known peers.
func (c *Client) Peers(ctx context.Context, page int, limit int) (Page[Peer], error) {
	var resp Page[Peer]
	err := c.get(ctx, "/peers?"+pageQuery(page, limit).Encode(), c.listTTL, &resp)
	return resp, err
}

// pageQuery builds the page/limit parameters. Values are coerced to a
// minimum of 1 and otherwise passed through; the node is the authority on
// valid ranges.
func pageQuery(page int, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	return q
}

// get performs a GET against the node and decodes the JSON response into v.
// A 4xx status maps to ErrNotFound, anything else non-200 is a transport
// level failure. Successful bodies are cached for ttl.
func (c *Client) get(ctx context.Context, path string, ttl time.Duration, v any) error {
	now := time.Now()

	if body, ok := c.cache.get(path, now); ok {
		return json.Unmarshal(body, v)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("node: rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("node: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("node: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("node: %s: read body: %w", path, err)
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("node: %s: decode: %w", path, err)
		}
		c.cache.set(path, body, ttl, now)
		return nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrNotFound

	default:
		c.log.Infow("node upstream failure", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("node: %s: status %d", path, resp.StatusCode)
	}
}
