package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/sinder-app/sinder/hooks"
	"github.com/sinder-app/sinder/internal/sentry"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/swipe"
	"math/big"
	"sync"
	"time"
)

const (
	DefaultRefreshInterval    = 2 * time.Second
	DefaultMaxRefreshAttempts = 5
)

var (
	ErrBusy        = errors.New("a transaction is already in flight")
	ErrNoWallet    = errors.New("wallet not connected")
	ErrSinNotFound = errors.New("sin not found")
)

// Transactor sends absolve transactions from the connected wallet.
type Transactor interface {
	Address() common.Address
	Absolve(ctx context.Context, sinContract common.Address, value *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusConfirming
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirming:
		return "confirming"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	}
	return "idle"
}

type Options struct {
	transactor         Transactor
	newTicker          func(time.Duration) ticker.Ticker
	refreshInterval    time.Duration
	maxRefreshAttempts int
	onStatus           func(Status, *sin.Sin)
}

type Option func(*Options)

// WithTransactor connects a wallet. Without one the session is read only.
func WithTransactor(t Transactor) Option {
	return func(options *Options) {
		options.transactor = t
	}
}

// WithNewTicker returns an Option that sets the ticker factory used by the
// post-absolution refresh.
func WithNewTicker(fn func(time.Duration) ticker.Ticker) Option {
	return func(options *Options) {
		options.newTicker = fn
	}
}

// WithRefreshInterval returns an Option that sets the delay between refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(options *Options) {
		options.refreshInterval = d
	}
}

// WithMaxRefreshAttempts returns an Option that caps the refreshes after an absolution.
func WithMaxRefreshAttempts(n int) Option {
	return func(options *Options) {
		options.maxRefreshAttempts = n
	}
}

// WithStatusHook is called on every status change with the sin being absolved.
func WithStatusHook(fn func(Status, *sin.Sin)) Option {
	return func(options *Options) {
		options.onStatus = fn
	}
}

// Session sequences absolve transactions against the deck, the owned set
// and the profile of one wallet.
type Session struct {
	options  *Options
	sins     *hooks.Sins
	absolved *hooks.Absolved
	profile  *hooks.Profile

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	status    Status
	absolving *sin.Sin
	lastErr   error
	lastTx    common.Hash
}

func New(sins *hooks.Sins, absolved *hooks.Absolved, profile *hooks.Profile, opts ...Option) *Session {
	s := &Session{sins: sins, absolved: absolved, profile: profile}
	s.options = &Options{}
	for _, opt := range opts {
		opt(s.options)
	}
	if s.options.newTicker == nil {
		s.options.newTicker = func(d time.Duration) ticker.Ticker {
			return ticker.New(d)
		}
	}
	if s.options.refreshInterval <= 0 {
		s.options.refreshInterval = DefaultRefreshInterval
	}
	if s.options.maxRefreshAttempts <= 0 {
		s.options.maxRefreshAttempts = DefaultMaxRefreshAttempts
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Account is the connected wallet address, empty when read only.
func (s *Session) Account() string {
	if s.options.transactor == nil {
		return ""
	}
	return s.options.transactor.Address().Hex()
}

func (s *Session) Sins() *hooks.Sins {
	return s.sins
}

func (s *Session) Absolved() *hooks.Absolved {
	return s.absolved
}

func (s *Session) Profile() *hooks.Profile {
	return s.profile
}

// Start loads the deck and, with a wallet, the owned set and the profile.
func (s *Session) Start(ctx context.Context) error {
	if err := s.sins.Load(ctx); err != nil {
		return err
	}
	account := s.Account()
	if account == "" {
		return nil
	}
	if err := s.absolved.SetAddress(ctx, account); err != nil {
		log.Clnt.Warnf("owned set not loaded: %v", err)
	}
	if err := s.profile.SetAddress(ctx, account); err != nil {
		log.Clnt.Warnf("profile not loaded: %v", err)
	}
	return nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Disabled reports whether cards must ignore input.
func (s *Session) Disabled() bool {
	st := s.Status()
	return st == StatusPending || st == StatusConfirming
}

// Absolving returns the sin whose transaction is in flight.
func (s *Session) Absolving() *sin.Sin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.absolving
}

// LastError is the error of the last failed transaction until dismissed.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) LastTx() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTx
}

// Dismiss clears a failed transaction.
func (s *Session) Dismiss() {
	s.mu.Lock()
	if s.status == StatusFailed {
		s.status = StatusIdle
	}
	s.lastErr = nil
	s.mu.Unlock()
}

// HandleSwipe applies a committed swipe. A right swipe on a sin the wallet
// does not own yet sends absolve() with the sin price and blocks until the
// receipt; local state changes only after confirmation.
func (s *Session) HandleSwipe(ctx context.Context, id uint64, dir swipe.Direction) error {
	if s.Disabled() {
		return ErrBusy
	}
	switch dir {
	case swipe.Left:
		s.sins.Remove(id)
		return nil
	case swipe.Right:
	default:
		return nil
	}

	target, ok := s.sins.Find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrSinNotFound, id)
	}
	if s.options.transactor == nil {
		return ErrNoWallet
	}
	if s.absolved.Has(id) {
		log.Clnt.Infof("sin %d already absolved, skipping transaction", id)
		s.sins.Remove(id)
		return nil
	}

	s.mu.Lock()
	if s.status == StatusPending || s.status == StatusConfirming {
		s.mu.Unlock()
		return ErrBusy
	}
	s.absolving = target
	s.lastErr = nil
	s.status = StatusPending
	s.mu.Unlock()
	s.notify(StatusPending, target)

	tx, err := s.options.transactor.Absolve(ctx, target.Contract, target.PriceWei)
	if err != nil {
		return s.fail(target, fmt.Errorf("absolve sin %d: %w", id, err))
	}
	s.mu.Lock()
	s.lastTx = tx.Hash()
	s.status = StatusConfirming
	s.mu.Unlock()
	s.notify(StatusConfirming, target)

	if _, err := s.options.transactor.WaitMined(ctx, tx); err != nil {
		return s.fail(target, fmt.Errorf("confirm absolve of sin %d: %w", id, err))
	}

	s.sins.Remove(id)
	s.absolved.Add(id)
	s.mu.Lock()
	s.absolving = nil
	s.status = StatusConfirmed
	s.mu.Unlock()
	s.notify(StatusConfirmed, target)
	log.Clnt.Infof("sin %d absolved in %s", id, tx.Hash().Hex())

	s.wg.Add(1)
	go s.refreshUntilVisible(id)
	return nil
}

// refreshUntilVisible polls the profile until it lists id or the attempts
// run out.
func (s *Session) refreshUntilVisible(id uint64) {
	defer s.wg.Done()
	defer sentry.RecoverPanic()
	t := s.options.newTicker(s.options.refreshInterval)
	t.Resume()
	defer t.Stop()

	for attempt := 1; attempt <= s.options.maxRefreshAttempts; attempt++ {
		select {
		case <-t.Ticks():
		case <-s.ctx.Done():
			return
		}
		if err := s.profile.Refresh(s.ctx); err != nil {
			continue
		}
		if s.profile.Contains(id) {
			return
		}
	}
	log.Clnt.Warnf("sin %d not visible in profile after %d refreshes", id, s.options.maxRefreshAttempts)
}

// SinDeployed reloads the deck and the profile after a new sin was deployed.
func (s *Session) SinDeployed(ctx context.Context) error {
	if err := s.sins.Load(ctx); err != nil {
		return err
	}
	return s.profile.Refresh(ctx)
}

// Wait blocks until background profile refreshes finish.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close stops background refreshes.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) fail(target *sin.Sin, err error) error {
	log.Clnt.Errorf("%v", err)
	s.mu.Lock()
	s.absolving = nil
	s.lastErr = err
	s.status = StatusFailed
	s.mu.Unlock()
	s.notify(StatusFailed, target)
	return err
}

func (s *Session) notify(st Status, target *sin.Sin) {
	if s.options.onStatus != nil {
		s.options.onStatus(st, target)
	}
}
