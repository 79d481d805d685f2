// Package handlers manages the different versions of the API.
package handlers

import (
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/qredit/explorer/app/services/explorer-api/handlers/debug/checkgrp"
	"github.com/qredit/explorer/app/services/explorer-api/handlers/v1/public"
	"github.com/qredit/explorer/business/explorer/node"
	"github.com/qredit/explorer/business/explorer/search"
	"github.com/qredit/explorer/business/web/v1/mid"
	"github.com/qredit/explorer/foundation/web"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	Node     *node.Client
	Search   *search.Resolver
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Panics(),
	)

	pbl := public.Handlers{
		Log:      cfg.Log,
		Node:     cfg.Node,
		Searcher: cfg.Search,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/dashboard", pbl.Dashboard)
	app.Handle(http.MethodGet, version, "/blocks", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/:id", pbl.BlockByID)
	app.Handle(http.MethodGet, version, "/transactions", pbl.Transactions)
	app.Handle(http.MethodGet, version, "/transactions/:id", pbl.TransactionByID)
	app.Handle(http.MethodGet, version, "/wallets", pbl.Wallets)
	app.Handle(http.MethodGet, version, "/wallets/:address", pbl.WalletByAddress)
	app.Handle(http.MethodGet, version, "/delegates", pbl.Delegates)
	app.Handle(http.MethodGet, version, "/peers", pbl.Peers)
	app.Handle(http.MethodGet, version, "/search", pbl.Search)

	// The explorer frontend is served from a different origin.
	return cors.AllowAll().Handler(app)
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger, client *node.Client) http.Handler {
	mux := DebugStandardLibraryMux()

	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
		Node:  client,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
