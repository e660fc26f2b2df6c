package hooks

import (
	"context"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/sin"
	"sync"
)

// Profile is the absolution list of the connected wallet.
type Profile struct {
	src AbsolvedSource

	mu          sync.Mutex
	address     string
	absolutions []*sin.Absolution
	loading     bool
	err         error
}

func NewProfile(src AbsolvedSource) *Profile {
	return &Profile{src: src, absolutions: []*sin.Absolution{}}
}

func (p *Profile) SetAddress(ctx context.Context, address string) error {
	p.mu.Lock()
	changed := address != p.address
	p.address = address
	p.mu.Unlock()
	if !changed || address == "" {
		return nil
	}
	return p.Refresh(ctx)
}

// Refresh reloads the list. Without an address it does nothing.
func (p *Profile) Refresh(ctx context.Context) error {
	p.mu.Lock()
	address := p.address
	if address == "" {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.err = nil
	p.mu.Unlock()

	resp, err := p.src.Absolved(ctx, address)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		log.Clnt.Errorf("load absolutions of %s: %v", address, err)
		p.err = &LoadError{Msg: MsgLoadAbsolutions, Err: err}
		return p.err
	}
	p.absolutions = resp.AbsolvedSins
	if p.absolutions == nil {
		p.absolutions = []*sin.Absolution{}
	}
	return nil
}

func (p *Profile) Absolutions() []*sin.Absolution {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*sin.Absolution, len(p.absolutions))
	copy(out, p.absolutions)
	return out
}

func (p *Profile) Contains(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, abs := range p.absolutions {
		if abs.SinId == id {
			return true
		}
	}
	return false
}

func (p *Profile) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Profile) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
