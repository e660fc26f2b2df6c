package deployer

import (
	"context"
	"errors"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

type deployCall struct {
	name        string
	description string
	priceWei    *big.Int
	active      bool
}

type fakeSender struct {
	calls   []deployCall
	sendErr error
	waitErr error
}

func (f *fakeSender) DeploySin(_ context.Context, name, description string, priceWei *big.Int, active bool) (*types.Transaction, error) {
	f.calls = append(f.calls, deployCall{name, description, priceWei, active})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.calls))}), nil
}

func (f *fakeSender) WaitMined(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}, nil
}

func validForm() Form {
	return Form{Name: "Procrastination", Description: "Put it off till tomorrow", PriceEth: "0.001", Active: true}
}

func TestFormValidate(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())

	f = Form{Name: "  ", Description: "x", PriceEth: "0.01"}
	assert.EqualError(t, f.Validate(), "invalid sin: name is required")

	f = Form{Name: "x", PriceEth: "0.01"}
	assert.EqualError(t, f.Validate(), "invalid sin: description is required")

	f = Form{Name: "x", Description: "y", PriceEth: "cheap"}
	assert.EqualError(t, f.Validate(), "invalid sin: price must be a number")

	f = Form{Name: "x", Description: "y", PriceEth: "0.0000009"}
	assert.EqualError(t, f.Validate(), "invalid sin: price must be at least "+MinPriceEth+" ETH")

	f = Form{Name: "x", Description: "y", PriceEth: MinPriceEth}
	assert.NoError(t, f.Validate())

	f = Form{}
	assert.EqualError(t, f.Validate(), "invalid sin: name is required, description is required, priceeth is required")
}

func TestFormPriceWei(t *testing.T) {
	for price, wei := range map[string]string{
		"0.001":                  "1000000000000000",
		"0.000001":               "1000000000000",
		"1.5":                    "1500000000000000000",
		"0.0000000000000000019":  "1",
		"2.00000000000000000099": "2000000000000000000",
	} {
		f := Form{PriceEth: price}
		got, err := f.PriceWei()
		require.NoError(t, err, price)
		assert.Equal(t, wei, got.String(), price)
	}
}

func TestSubmit(t *testing.T) {
	sender := &fakeSender{}
	var deployed int
	d := New(
		WithSinDeployer(sender),
		WithOnDeployed(func(context.Context) error {
			deployed++
			return nil
		}),
		WithOnDeployed(func(context.Context) error {
			deployed++
			return errors.New("reload failed")
		}),
	)
	assert.True(t, d.Toggle())
	assert.True(t, d.IsOpen())

	require.NoError(t, d.Submit(context.Background(), validForm()))
	require.Len(t, sender.calls, 1)
	assert.Equal(t, deployCall{"Procrastination", "Put it off till tomorrow", big.NewInt(1e15), true}, sender.calls[0])
	assert.Equal(t, 2, deployed)
	assert.False(t, d.IsOpen())
	assert.False(t, d.Deploying())
	assert.Equal(t, NewForm(), d.Form())
	assert.NoError(t, d.Err())
	assert.NotNil(t, d.LastTx())
}

func TestSubmitWithoutWallet(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.Submit(context.Background(), validForm()), ErrNoWallet)
}

func TestSubmitInvalid(t *testing.T) {
	sender := &fakeSender{}
	d := New(WithSinDeployer(sender))
	d.Open()

	f := validForm()
	f.PriceEth = "0"
	assert.Error(t, d.Submit(context.Background(), f))
	assert.Empty(t, sender.calls)
	assert.True(t, d.IsOpen())
	assert.Equal(t, "0", d.Form().PriceEth)
	assert.Error(t, d.Err())
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	for name, sender := range map[string]*fakeSender{
		"send": {sendErr: errors.New("user rejected")},
		"wait": {waitErr: errors.New("reverted")},
	} {
		t.Run(name, func(t *testing.T) {
			var deployed bool
			d := New(WithSinDeployer(sender), WithOnDeployed(func(context.Context) error {
				deployed = true
				return nil
			}))
			d.Open()

			err := d.Submit(context.Background(), validForm())
			require.Error(t, err)
			assert.Equal(t, err, d.Err())
			assert.True(t, d.IsOpen())
			assert.False(t, d.Deploying())
			assert.Equal(t, validForm(), d.Form())
			assert.False(t, deployed)
		})
	}
}
