// Package search classifies a free-text query into candidate entity types
// and resolves it against the node by sequential probing.
package search

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/qredit/explorer/business/explorer/node"
)

// ErrNoMatch is returned when no probe resolves the query. It is an ordinary
// outcome, not a failure.
var ErrNoMatch = errors.New("no matching entity")

// EntityType tags what kind of entity a query resolved to.
type EntityType string

// The set of entity types a query can resolve to. A delegate username
// resolves to its underlying wallet.
const (
	TypeBlock       EntityType = "block"
	TypeTransaction EntityType = "transaction"
	TypeWallet      EntityType = "wallet"
)

// Result is the resolved entity for a search query.
type Result struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}

// Query classification patterns. Wallet addresses always begin with the
// network prefix X, a non-digit, so the all-digits height check can never
// shadow an address.
var (
	heightRx  = regexp.MustCompile(`^[0-9]+$`)
	addressRx = regexp.MustCompile(`^X[A-Za-z0-9]{33}$`)
	hexIDRx   = regexp.MustCompile(`^[A-Fa-f0-9]{64}$`)
)

// probe pairs a classification predicate with the lookup to attempt when it
// matches. Probes run in declaration order and the first success wins.
type probe struct {
	match  func(query string) bool
	lookup func(ctx context.Context, query string) (Result, error)
}

// Resolver resolves free-text queries to chain entities.
type Resolver struct {
	log    *zap.SugaredLogger
	probes []probe
}

// NewResolver constructs a Resolver backed by the given node client.
func NewResolver(log *zap.SugaredLogger, client *node.Client) *Resolver {
	matchAny := func(string) bool { return true }

	probes := []probe{

		// A pure-digit query is a block height first, regardless of what
		// else it might look like.
		{
			match: func(q string) bool { return heightRx.MatchString(q) },
			lookup: func(ctx context.Context, q string) (Result, error) {
				block, err := client.BlockByHeight(ctx, q)
				if err != nil {
					return Result{}, err
				}
				return Result{Type: TypeBlock, ID: block.ID}, nil
			},
		},

		// Network prefix plus 33 alphanumerics is a wallet address.
		{
			match: func(q string) bool { return addressRx.MatchString(q) },
			lookup: func(ctx context.Context, q string) (Result, error) {
				wallet, err := client.Wallet(ctx, q)
				if err != nil {
					return Result{}, err
				}
				return Result{Type: TypeWallet, ID: wallet.Address}, nil
			},
		},

		// 64 hex characters: a transaction id wins over a block id when the
		// node somehow knows both.
		{
			match: func(q string) bool { return hexIDRx.MatchString(q) },
			lookup: func(ctx context.Context, q string) (Result, error) {
				tx, err := client.Transaction(ctx, q)
				if err != nil {
					return Result{}, err
				}
				return Result{Type: TypeTransaction, ID: tx.ID}, nil
			},
		},
		{
			match: func(q string) bool { return hexIDRx.MatchString(q) },
			lookup: func(ctx context.Context, q string) (Result, error) {
				block, err := client.Block(ctx, q)
				if err != nil {
					return Result{}, err
				}
				return Result{Type: TypeBlock, ID: block.ID}, nil
			},
		},

		// Anything else may be a delegate username. The canonical result is
		// the delegate's wallet address, not the username.
		{
			match: matchAny,
			lookup: func(ctx context.Context, q string) (Result, error) {
				delegate, err := client.Delegate(ctx, q)
				if err != nil {
					return Result{}, err
				}
				return Result{Type: TypeWallet, ID: delegate.Address}, nil
			},
		},
	}

	return &Resolver{
		log:    log,
		probes: probes,
	}
}

// Resolve runs the applicable probes in priority order and short-circuits on
// the first success. A failed probe, whether not-found or transport, falls
// through to the next candidate. Only a transport failure on the final
// applicable probe propagates as an error; otherwise an unresolved query
// yields ErrNoMatch.
func (r *Resolver) Resolve(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, ErrNoMatch
	}

	var lastErr error

	for _, p := range r.probes {
		if !p.match(q) {
			continue
		}

		result, err := p.lookup(ctx, q)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, node.ErrNotFound) {
			r.log.Infow("search probe failed", "query", q, "ERROR", err)
		}
		lastErr = err
	}

	if lastErr != nil && !errors.Is(lastErr, node.ErrNotFound) {
		return Result{}, lastErr
	}

	return Result{}, ErrNoMatch
}
