package hooks

import (
	"context"
	"errors"
	"github.com/sinder-app/sinder/apiclient"
	"github.com/sinder-app/sinder/log"
	"sort"
	"sync"
)

// Absolved is the set of sin ids the connected wallet holds.
type Absolved struct {
	src AbsolvedSource

	mu      sync.Mutex
	address string
	ids     map[uint64]struct{}
}

func NewAbsolved(src AbsolvedSource) *Absolved {
	return &Absolved{src: src, ids: map[uint64]struct{}{}}
}

// SetAddress switches wallets and loads the new wallet's set. Clearing the
// address keeps the last set.
func (a *Absolved) SetAddress(ctx context.Context, address string) error {
	a.mu.Lock()
	changed := address != a.address
	a.address = address
	a.mu.Unlock()
	if !changed || address == "" {
		return nil
	}
	return a.Load(ctx)
}

func (a *Absolved) Address() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.address
}

// Load rebuilds the set from the api. A non-2xx answer carries no sins and
// empties the set; any other failure is logged and leaves the set unchanged.
func (a *Absolved) Load(ctx context.Context) error {
	address := a.Address()
	if address == "" {
		return nil
	}
	resp, err := a.src.Absolved(ctx, address)
	ids := map[uint64]struct{}{}
	if err != nil {
		log.Clnt.Errorf("load absolved sins of %s: %v", address, err)
		var respErr *apiclient.ResponseError
		if !errors.As(err, &respErr) {
			return err
		}
	} else {
		for _, abs := range resp.AbsolvedSins {
			ids[abs.SinId] = struct{}{}
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.address == address {
		a.ids = ids
	}
	return err
}

func (a *Absolved) Has(id uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.ids[id]
	return ok
}

// Add records an optimistic local update.
func (a *Absolved) Add(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids[id] = struct{}{}
}

// Set replaces the whole set.
func (a *Absolved) Set(ids ...uint64) {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = set
}

// IDs returns the set in ascending order.
func (a *Absolved) IDs() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]uint64, 0, len(a.ids))
	for id := range a.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
