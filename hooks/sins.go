package hooks

import (
	"context"
	"github.com/sinder-app/sinder/apiclient"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/sin"
	"math/rand"
	"sync"
	"time"
)

type SinsOptions struct {
	rand    Rand
	shuffle bool
	limit   int
}

type SinsOption func(*SinsOptions)

// WithRand returns a SinsOption that sets the source used by the shuffle.
func WithRand(r Rand) SinsOption {
	return func(options *SinsOptions) {
		options.rand = r
	}
}

// WithoutShuffle keeps the api order.
func WithoutShuffle() SinsOption {
	return func(options *SinsOptions) {
		options.shuffle = false
	}
}

// WithLimit returns a SinsOption that sets the number of sins requested.
func WithLimit(limit int) SinsOption {
	return func(options *SinsOptions) {
		options.limit = limit
	}
}

// Sins is the swipe deck.
type Sins struct {
	options *SinsOptions
	src     SinSource

	mu      sync.Mutex
	sins    []*sin.Sin
	loading bool
	err     error
}

// NewSins starts in the loading state, as nothing has been fetched yet.
func NewSins(src SinSource, opts ...SinsOption) *Sins {
	s := &Sins{src: src, loading: true}
	s.options = &SinsOptions{shuffle: true, limit: constants.DefaultPageLimit}
	for _, opt := range opts {
		opt(s.options)
	}
	if s.options.rand == nil {
		s.options.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Load fetches the deck and replaces it. On failure the previous deck is
// kept and Err reports MsgLoadSins.
func (s *Sins) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	resp, err := s.src.Sins(ctx, apiclient.SinsQuery{Limit: s.options.limit})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Clnt.Errorf("load sins: %v", err)
		s.err = &LoadError{Msg: MsgLoadSins, Err: err}
		return s.err
	}
	sins := resp.Sins
	if sins == nil {
		sins = []*sin.Sin{}
	}
	if s.options.shuffle {
		sins = Shuffle(sins, s.options.rand)
	}
	s.sins = sins
	return nil
}

// Sins returns a copy of the deck, top card first.
func (s *Sins) Sins() []*sin.Sin {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*sin.Sin, len(s.sins))
	copy(out, s.sins)
	return out
}

func (s *Sins) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Sins) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Set replaces the deck with fn applied to the current one.
func (s *Sins) Set(fn func(prev []*sin.Sin) []*sin.Sin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := make([]*sin.Sin, len(s.sins))
	copy(prev, s.sins)
	s.sins = fn(prev)
}

// Remove drops the card with id and reports whether it was in the deck.
func (s *Sins) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.sins {
		if v.Id == id {
			s.sins = append(s.sins[:i:i], s.sins[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Sins) Find(id uint64) (*sin.Sin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.sins {
		if v.Id == id {
			return v, true
		}
	}
	return nil, false
}

// Top returns the card currently shown.
func (s *Sins) Top() (*sin.Sin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sins) == 0 {
		return nil, false
	}
	return s.sins[0], true
}
