package chain_test

import (
	"context"
	"errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/chain/chaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func newClient(t *testing.T, reg *chaintest.Registry) *chain.Client {
	t.Helper()
	c, err := chain.NewClient(
		chain.WithCaller(reg),
		chain.WithDeployer(reg.Deployer),
	)
	require.NoError(t, err)
	return c
}

func TestNewClientDefaults(t *testing.T) {
	c := newClient(t, chaintest.NewRegistry())
	assert.Equal(t, "https://sepolia.base.org", c.RPC())
	assert.Equal(t, int64(84532), c.ChainID().Int64())
}

func TestNextSinIdAndInfo(t *testing.T) {
	reg := chaintest.NewRegistry()
	reg.Add("Gluttony", "Ate the whole pizza", big.NewInt(1000000000000000), true)
	reg.Add("Sloth", "Snoozed nine times", big.NewInt(0), false)
	c := newClient(t, reg)
	ctx := context.Background()

	n, err := c.NextSinId(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	info, err := c.GetSinInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, chaintest.ContractAddress(1), info.Contract)
	assert.Equal(t, "Sloth", info.Name)
	assert.Equal(t, "Snoozed nine times", info.Description)
	assert.Equal(t, int64(0), info.PriceWei.Int64())
	assert.False(t, info.Active)

	addr, err := c.SinContract(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, chaintest.ContractAddress(0), addr)

	_, err = c.GetSinInfo(ctx, 7)
	assert.Error(t, err)
}

func TestNextSinIdFailure(t *testing.T) {
	reg := chaintest.NewRegistry()
	reg.FailNextSinId(errors.New("connection refused"))
	_, err := newClient(t, reg).NextSinId(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestBalanceOf(t *testing.T) {
	reg := chaintest.NewRegistry()
	id := reg.Add("Pride", "", big.NewInt(5), true)
	user := common.HexToAddress("0x1111111111111111111111111111111111111111")
	reg.Mint(id, user, 2)
	c := newClient(t, reg)
	ctx := context.Background()

	b, err := c.BalanceOf(ctx, chaintest.ContractAddress(id), user.Hex(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.Int64())

	other := "0x2222222222222222222222222222222222222222"
	b, err = c.BalanceOf(ctx, chaintest.ContractAddress(id), other, 0)
	require.NoError(t, err)
	assert.Zero(t, b.Sign())

	_, err = c.BalanceOf(ctx, chaintest.ContractAddress(id), "not-an-address", 0)
	assert.ErrorIs(t, err, chain.ErrInvalidAddress)

	// no code at the address: empty return data cannot be decoded
	_, err = c.BalanceOf(ctx, common.HexToAddress("0xdead"), user.Hex(), 0)
	assert.Error(t, err)
}

func TestTransactionsNeedBackend(t *testing.T) {
	c := newClient(t, chaintest.NewRegistry())
	opts := &bind.TransactOpts{}

	_, err := c.Absolve(context.Background(), opts, chaintest.ContractAddress(0), big.NewInt(1))
	assert.ErrorIs(t, err, chain.ErrReadOnly)

	_, err = c.DeploySin(context.Background(), opts, "Envy", "", big.NewInt(1), true)
	assert.ErrorIs(t, err, chain.ErrReadOnly)
}
