package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/config"
	"github.com/sinder-app/sinder/log"
	"math/big"
	"os"
)

// Wallet signs sinder transactions with a single key.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	client  *chain.Client
}

func New(client *chain.Client, key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		client:  client,
	}
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) transactOpts() (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.client.ChainID())
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	return opts, nil
}

// Absolve pays value to the sin contract's absolve().
func (w *Wallet) Absolve(ctx context.Context, sinContract common.Address, value *big.Int) (*types.Transaction, error) {
	opts, err := w.transactOpts()
	if err != nil {
		return nil, err
	}
	return w.client.Absolve(ctx, opts, sinContract, value)
}

func (w *Wallet) DeploySin(ctx context.Context, name, description string, priceWei *big.Int, active bool) (*types.Transaction, error) {
	opts, err := w.transactOpts()
	if err != nil {
		return nil, err
	}
	return w.client.DeploySin(ctx, opts, name, description, priceWei, active)
}

func (w *Wallet) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return w.client.WaitMined(ctx, tx)
}

// Dial connects to the chain described by c, after applying the environment
// and defaults, and signs with key.
func Dial(c config.Chain, key *ecdsa.PrivateKey) (*Wallet, error) {
	c.ApplyEnv(os.LookupEnv)
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	client, err := chain.NewClient(
		chain.WithRPC(c.RPC),
		chain.WithDeployer(common.HexToAddress(c.Deployer)),
		chain.WithChainID(c.ChainID),
	)
	if err != nil {
		return nil, err
	}
	w := New(client, key)
	log.Wllt.Infof("wallet %s on chain %d via %s", w.Address().Hex(), c.ChainID, c.RPC)
	return w, nil
}
