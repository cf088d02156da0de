// Package ledgergrp maintains the group of handlers for ledger access.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/validate"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	Ledger      *ledger.Ledger
	Evts        *events.Events
	WS          websocket.Upgrader
	MineTimeout time.Duration
}

// Mine performs the proof of work against the latest block and appends the
// new block to the chain.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	if h.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.MineTimeout)
		defer cancel()
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "status", "started", "difficulty", h.Ledger.Difficulty())

	blk, err := h.Ledger.Mine(ctx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.Is(err, ledger.ErrSearchExhausted):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		default:
			return fmt.Errorf("mine: %w", err)
		}
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "status", "completed", "index", blk.Index, "proof", blk.Proof, "since", time.Since(v.Now))

	resp := mined{
		Message: "block mined",
		Block:   toBlock(blk),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// List returns the full chain.
func (h Handlers) List(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.Ledger.Blocks()

	resp := chain{
		Length: len(blocks),
		Chain:  toBlocks(blocks),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Latest returns the last block in the chain.
func (h Handlers) Latest(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.Ledger.LatestBlock()
	if err != nil {
		return fmt.Errorf("latest: %w", err)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Validate reports whether the node's chain is valid.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validity{
		Valid:  true,
		Length: h.Ledger.Length(),
	}

	if err := h.Ledger.Validate(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ValidateChain reports whether a chain submitted by the client is valid.
// The node's difficulty is used unless the request provides one.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var sc submitChain
	if err := web.Decode(r, &sc); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	difficulty := sc.Difficulty
	if difficulty == 0 {
		difficulty = h.Ledger.Difficulty()
	}

	resp := validity{
		Valid:  true,
		Length: len(sc.Chain),
	}

	if err := ledger.ValidateChain(sc.toLedgerChain(), difficulty); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("websocket open", "path", "/v1/events", "traceid", v.TraceID)

	// The trace id is unique per request so it identifies this subscriber.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
