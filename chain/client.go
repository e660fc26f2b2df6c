package chain

import (
	"context"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"math/big"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrReadOnly       = errors.New("chain client has no transaction backend")
	ErrReverted       = errors.New("transaction reverted")
)

// Caller runs read-only contract calls against the latest block.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Backend is everything needed to send and confirm transactions.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// SinInfo is the raw getSinInfo tuple.
type SinInfo struct {
	Contract    common.Address
	Name        string
	Description string
	PriceWei    *big.Int
	Active      bool
}

type Options struct {
	rpc      string
	deployer common.Address
	chainID  *big.Int
	caller   Caller
	backend  Backend
}

type Option func(*Options)

// WithRPC returns an Option that sets the rpc url the client dials.
func WithRPC(rpc string) func(*Options) {
	return func(options *Options) {
		options.rpc = rpc
	}
}

// WithDeployer returns an Option that sets the sin deployer contract address.
func WithDeployer(addr common.Address) func(*Options) {
	return func(options *Options) {
		options.deployer = addr
	}
}

// WithChainID returns an Option that sets the chain id used to sign transactions.
func WithChainID(id int64) func(*Options) {
	return func(options *Options) {
		options.chainID = big.NewInt(id)
	}
}

// WithCaller replaces the read path, mostly for tests.
func WithCaller(caller Caller) func(*Options) {
	return func(options *Options) {
		options.caller = caller
	}
}

// WithBackend returns an Option that uses backend for reads and transactions
// instead of dialing the rpc url.
func WithBackend(backend Backend) func(*Options) {
	return func(options *Options) {
		options.backend = backend
	}
}

type Client struct {
	options *Options
}

// NewClient dials the rpc endpoint unless a caller or backend was supplied.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}
	c.options = &Options{}
	for _, opt := range opts {
		opt(c.options)
	}
	if c.options.rpc == "" {
		c.options.rpc = constants.DefaultRPCURL
	}
	if c.options.deployer == (common.Address{}) {
		c.options.deployer = common.HexToAddress(constants.DefaultDeployerAddress)
	}
	if c.options.chainID == nil {
		c.options.chainID = big.NewInt(constants.BaseSepoliaChainID)
	}
	if c.options.caller == nil && c.options.backend == nil {
		ec, err := ethclient.Dial(c.options.rpc)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", c.options.rpc, err)
		}
		c.options.backend = ec
	}
	if c.options.caller == nil {
		c.options.caller = c.options.backend
	}
	return c, nil
}

func (c *Client) Deployer() common.Address {
	return c.options.deployer
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.options.chainID)
}

func (c *Client) RPC() string {
	return c.options.rpc
}

// NextSinId returns the deployer's counter; ids 0..n-1 have been issued.
func (c *Client) NextSinId(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, c.options.deployer, DeployerABI, "nextSinId")
	if err != nil {
		return 0, err
	}
	n, ok := out[0].(*big.Int)
	if !ok || !n.IsUint64() {
		return 0, fmt.Errorf("nextSinId: unexpected result %v", out[0])
	}
	return n.Uint64(), nil
}

func (c *Client) GetSinInfo(ctx context.Context, id uint64) (*SinInfo, error) {
	out, err := c.call(ctx, c.options.deployer, DeployerABI, "getSinInfo", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	if len(out) != 5 {
		return nil, fmt.Errorf("getSinInfo(%d): got %d values", id, len(out))
	}
	info := &SinInfo{}
	var ok [5]bool
	info.Contract, ok[0] = out[0].(common.Address)
	info.Name, ok[1] = out[1].(string)
	info.Description, ok[2] = out[2].(string)
	info.PriceWei, ok[3] = out[3].(*big.Int)
	info.Active, ok[4] = out[4].(bool)
	for i := range ok {
		if !ok[i] {
			return nil, fmt.Errorf("getSinInfo(%d): unexpected type at %d", id, i)
		}
	}
	return info, nil
}

// SinContract looks up the contract address recorded for id.
func (c *Client) SinContract(ctx context.Context, id uint64) (common.Address, error) {
	out, err := c.call(ctx, c.options.deployer, DeployerABI, "sinContracts", new(big.Int).SetUint64(id))
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("sinContracts(%d): unexpected result %v", id, out[0])
	}
	return addr, nil
}

// BalanceOf reads balanceOf(account, tokenId) on a sin contract. The account
// is taken as a string so malformed input fails here rather than being
// silently zeroed by common.HexToAddress.
func (c *Client) BalanceOf(ctx context.Context, sinContract common.Address, account string, tokenId int64) (*big.Int, error) {
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, account)
	}
	out, err := c.call(ctx, sinContract, SinABI, "balanceOf", common.HexToAddress(account), big.NewInt(tokenId))
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf: unexpected result %v", out[0])
	}
	return balance, nil
}

// Absolve sends absolve() to the sin contract with value attached.
func (c *Client) Absolve(ctx context.Context, opts *bind.TransactOpts, sinContract common.Address, value *big.Int) (*types.Transaction, error) {
	o := *opts
	o.Context = ctx
	o.Value = value
	return c.transact(&o, sinContract, SinABI, "absolve")
}

func (c *Client) DeploySin(ctx context.Context, opts *bind.TransactOpts, name, description string, priceWei *big.Int, active bool) (*types.Transaction, error) {
	o := *opts
	o.Context = ctx
	return c.transact(&o, c.options.deployer, DeployerABI, "deploySin", name, description, priceWei, active)
}

// WaitMined blocks until tx has a receipt and reports a failed status as ErrReverted.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if c.options.backend == nil {
		return nil, ErrReadOnly
	}
	receipt, err := bind.WaitMined(ctx, c.options.backend, tx)
	observe("waitMined", err)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrReverted, tx.Hash().Hex())
	}
	log.Chan.Infof("tx %s mined in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	return receipt, nil
}

func (c *Client) call(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...interface{}) (out []interface{}, err error) {
	defer func() {
		observe(method, err)
	}()
	input, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	output, err := c.options.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, to.Hex(), err)
	}
	out, err = contract.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s from %s: %w", method, to.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

func (c *Client) transact(opts *bind.TransactOpts, to common.Address, contract abi.ABI, method string, args ...interface{}) (*types.Transaction, error) {
	if c.options.backend == nil {
		return nil, ErrReadOnly
	}
	b := c.options.backend
	bound := bind.NewBoundContract(to, contract, b, b, b)
	tx, err := bound.Transact(opts, method, args...)
	observe(method, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	log.Chan.Infof("sent %s to %s: %s", method, to.Hex(), tx.Hash().Hex())
	return tx, nil
}
