package sin_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/chain/chaintest"
	"github.com/sinder-app/sinder/sin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
	"time"
)

var fixedNow = time.UnixMilli(1700000000000)

func newRegistry(t *testing.T, reg *chaintest.Registry) *sin.Registry {
	t.Helper()
	c, err := chain.NewClient(chain.WithCaller(reg), chain.WithDeployer(reg.Deployer))
	require.NoError(t, err)
	return sin.NewRegistry(c, sin.WithClock(func() time.Time { return fixedNow }))
}

func seed(reg *chaintest.Registry, n int) {
	for i := 0; i < n; i++ {
		reg.Add(fmt.Sprintf("sin-%d", i), "", big.NewInt(int64(i)*1000), i%2 == 0)
	}
}

func TestLoadAllReturnsEveryItemInOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		reg := chaintest.NewRegistry()
		seed(reg, n)
		sins, skipped, err := newRegistry(t, reg).LoadAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, skipped)
		require.Len(t, sins, n)
		for i, s := range sins {
			assert.Equal(t, uint64(i), s.Id)
			assert.Equal(t, chaintest.ContractAddress(uint64(i)), s.Contract)
			assert.Equal(t, fixedNow.UnixMilli(), s.CreatedAt)
		}
		assert.Equal(t, n, reg.Calls("getSinInfo"))
	}
}

func TestLoadAllSkipsFailedItem(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 4)
	boom := errors.New("execution reverted")
	reg.FailInfo(2, boom)

	results, err := newRegistry(t, reg).Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.NotNil(t, results[2].Skip)
	assert.Nil(t, results[2].Sin)
	assert.Equal(t, uint64(2), results[2].Skip.Id)
	assert.Equal(t, sin.StageInfo, results[2].Skip.Stage)
	assert.ErrorIs(t, results[2].Skip, boom)

	sins, skipped, err := newRegistry(t, reg).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sins, 3)
	assert.Equal(t, []uint64{0, 1, 3}, []uint64{sins[0].Id, sins[1].Id, sins[2].Id})
	require.Len(t, skipped, 1)
	assert.Equal(t, uint64(2), skipped[0].Id)
}

func TestLoadAllCounterFailure(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 2)
	reg.FailNextSinId(errors.New("dial tcp: connection refused"))

	sins, _, err := newRegistry(t, reg).LoadAll(context.Background())
	assert.Nil(t, sins)
	assert.ErrorContains(t, err, "connection refused")
	assert.Zero(t, reg.Calls("getSinInfo"))
}

func TestAbsolvedIsOwnedSubset(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 4)
	user := common.HexToAddress("0xabcabcabcabcabcabcabcabcabcabcabcabcabca")
	reg.Mint(1, user, 1)
	reg.Mint(3, user, 4)
	reg.FailBalance(0, errors.New("timeout"))

	r := newRegistry(t, reg)
	absolutions, skipped, err := r.UserAbsolutions(context.Background(), user.Hex())
	require.NoError(t, err)
	require.Len(t, absolutions, 2)
	assert.Equal(t, uint64(1), absolutions[0].SinId)
	assert.Equal(t, "sin-1", absolutions[0].SinName)
	assert.Equal(t, "1000", absolutions[0].PriceWei)
	assert.Equal(t, "0.000000000000001", absolutions[0].PriceEth)
	assert.Equal(t, fixedNow.UnixMilli(), absolutions[0].Timestamp)
	assert.Equal(t, uint64(3), absolutions[1].SinId)
	require.Len(t, skipped, 1)
	assert.Equal(t, sin.StageBalance, skipped[0].Stage)
	assert.Equal(t, uint64(0), skipped[0].Id)
}

func TestAbsolvedInvalidAddressSkipsEverySin(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 3)
	absolutions, skipped, err := newRegistry(t, reg).UserAbsolutions(context.Background(), "satoshi")
	require.NoError(t, err)
	assert.Empty(t, absolutions)
	assert.Len(t, skipped, 3)
	assert.Zero(t, reg.Calls("balanceOf"))
}

func TestSinJSON(t *testing.T) {
	s := &sin.Sin{
		Id:          7,
		Contract:    common.HexToAddress("0xC1952E19E01F570eF2A0B3711AdDEF9E78500182"),
		Name:        "Wrath",
		Description: "Yelled at the printer",
		PriceWei:    big.NewInt(1500000000000000000),
		Active:      true,
		CreatedAt:   42,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"contract": "0xC1952E19E01F570eF2A0B3711AdDEF9E78500182",
		"name": "Wrath",
		"description": "Yelled at the printer",
		"priceWei": "1500000000000000000",
		"priceEth": "1.5",
		"active": true,
		"createdAt": 42
	}`, string(data))

	back := &sin.Sin{}
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, s, back)
}
