package implementors

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registrar consumes a published index.
type Registrar func(Index)

// Host is where an index is published. It holds an optional registration
// hook, and a pending slot for an index published before the hook exists.
type Host struct {
	mu        sync.Mutex
	registrar Registrar
	pending   Index
}

// NewHost returns a host with no registrar.
func NewHost() *Host {
	return &Host{}
}

// SetRegistrar installs r as the registration hook. A pending index is
// handed to r before SetRegistrar returns. Passing nil removes the hook.
func (h *Host) SetRegistrar(r Registrar) {
	h.mu.Lock()
	h.registrar = r
	pending := h.pending
	if r != nil {
		h.pending = nil
	}
	h.mu.Unlock()

	if r != nil && pending != nil {
		log.Debug().Int("layers", len(pending)).Msg("implementors: drain pending index")
		r(pending)
	}
}

// Pending returns the index waiting for a registrar.
func (h *Host) Pending() (Index, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending, h.pending != nil
}

// Publish hands ix to the host's registrar, or parks it in the pending
// slot when the host has none yet. A later Publish replaces a parked index.
func Publish(h *Host, ix Index) {
	h.mu.Lock()
	r := h.registrar
	if r == nil {
		h.pending = ix
	}
	h.mu.Unlock()

	if r == nil {
		log.Debug().Int("layers", len(ix)).Msg("implementors: no registrar, index pending")
		return
	}
	r(ix)
}
