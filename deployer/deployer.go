package deployer

import (
	"context"
	"errors"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sinder-app/sinder/log"
	"math/big"
	"sync"
)

var (
	ErrNoWallet = errors.New("wallet not connected")
	ErrBusy     = errors.New("a deployment is already in flight")
)

// SinDeployer sends deploySin transactions. *wallet.Wallet implements it.
type SinDeployer interface {
	DeploySin(ctx context.Context, name, description string, priceWei *big.Int, active bool) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Options struct {
	sender     SinDeployer
	onDeployed []func(context.Context) error
}

type Option func(*Options)

// WithSinDeployer returns an Option that sends deployments through sender.
func WithSinDeployer(sender SinDeployer) Option {
	return func(options *Options) {
		options.sender = sender
	}
}

// WithOnDeployed registers a callback run after every confirmed deployment.
func WithOnDeployed(fn func(context.Context) error) Option {
	return func(options *Options) {
		options.onDeployed = append(options.onDeployed, fn)
	}
}

// Deployer holds the deploy form and submits it.
type Deployer struct {
	options *Options

	mu        sync.Mutex
	open      bool
	form      Form
	deploying bool
	err       error
	lastTx    *types.Transaction
}

func New(opts ...Option) *Deployer {
	d := &Deployer{form: NewForm()}
	d.options = &Options{}
	for _, opt := range opts {
		opt(d.options)
	}
	return d
}

func (d *Deployer) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
}

func (d *Deployer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

func (d *Deployer) Toggle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = !d.open
	return d.open
}

func (d *Deployer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Deployer) Form() Form {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

func (d *Deployer) SetForm(f Form) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = f
}

func (d *Deployer) Deploying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deploying
}

func (d *Deployer) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Deployer) LastTx() *types.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastTx
}

// Submit validates f, sends deploySin and waits for the receipt. On success
// the form is reset and closed and the OnDeployed callbacks run; on failure
// the form stays open with the error kept for display.
func (d *Deployer) Submit(ctx context.Context, f Form) error {
	if d.options.sender == nil {
		return ErrNoWallet
	}
	if err := f.Validate(); err != nil {
		return d.failed(f, err, false)
	}
	priceWei, err := f.PriceWei()
	if err != nil {
		return d.failed(f, err, false)
	}

	d.mu.Lock()
	if d.deploying {
		d.mu.Unlock()
		return ErrBusy
	}
	d.deploying = true
	d.form = f
	d.err = nil
	d.mu.Unlock()

	tx, err := d.options.sender.DeploySin(ctx, f.Name, f.Description, priceWei, f.Active)
	if err != nil {
		return d.failed(f, err, true)
	}
	d.mu.Lock()
	d.lastTx = tx
	d.mu.Unlock()

	if _, err := d.options.sender.WaitMined(ctx, tx); err != nil {
		return d.failed(f, err, true)
	}
	log.Wllt.Infof("deployed sin %q at %s wei in %s", f.Name, priceWei, tx.Hash().Hex())

	d.mu.Lock()
	d.deploying = false
	d.open = false
	d.form = NewForm()
	d.mu.Unlock()

	for _, fn := range d.options.onDeployed {
		if err := fn(ctx); err != nil {
			log.Wllt.Warnf("after deploy: %v", err)
		}
	}
	return nil
}

func (d *Deployer) failed(f Form, err error, sent bool) error {
	if sent {
		log.Wllt.Errorf("deploy sin %q: %v", f.Name, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if sent {
		d.deploying = false
	}
	d.form = f
	d.err = err
	return err
}
