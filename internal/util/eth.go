package util

import (
	"fmt"
	"github.com/shopspring/decimal"
	"github.com/sinder-app/sinder/constants"
	"math/big"
	"strings"
)

var weiPerEther = decimal.New(1, constants.EtherDecimals)

// FormatEther renders a wei amount as ether without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -constants.EtherDecimals).String()
}

// ParseEther converts an ether amount to wei, flooring anything below one wei.
func ParseEther(eth string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(eth))
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount %q: %w", eth, err)
	}
	return d.Mul(weiPerEther).Floor().BigInt(), nil
}

// ParseWei parses a base-10 wei string as produced by the read API.
func ParseWei(wei string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", wei)
	}
	return v, nil
}
