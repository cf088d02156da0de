// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/ledgergrp"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *zap.SugaredLogger
	Ledger      *ledger.Ledger
	Evts        *events.Events
	MineTimeout time.Duration
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	lgh := ledgergrp.Handlers{
		Log:         cfg.Log,
		Ledger:      cfg.Ledger,
		Evts:        cfg.Evts,
		WS:          websocket.Upgrader{},
		MineTimeout: cfg.MineTimeout,
	}

	app.Handle(http.MethodGet, version, "/events", lgh.Events)
	app.Handle(http.MethodPost, version, "/blocks/mine", lgh.Mine)
	app.Handle(http.MethodGet, version, "/blocks/list", lgh.List)
	app.Handle(http.MethodGet, version, "/blocks/latest", lgh.Latest)
	app.Handle(http.MethodGet, version, "/blocks/validate", lgh.Validate)
	app.Handle(http.MethodPost, version, "/blocks/validate", lgh.ValidateChain)
}
