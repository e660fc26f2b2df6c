package sin

import (
	"encoding/json"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sinder-app/sinder/internal/util"
	"math/big"
)

// Sin is one item of the deployer registry as served by the read API.
type Sin struct {
	Id          uint64
	Contract    common.Address
	Name        string
	Description string
	PriceWei    *big.Int
	Active      bool

	// CreatedAt is the capture time in milliseconds, not an on-chain value.
	CreatedAt int64
}

type sinJSON struct {
	Id          uint64 `json:"id"`
	Contract    string `json:"contract"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceWei    string `json:"priceWei"`
	PriceEth    string `json:"priceEth"`
	Active      bool   `json:"active"`
	CreatedAt   int64  `json:"createdAt"`
}

func (s *Sin) PriceEth() string {
	return util.FormatEther(s.PriceWei)
}

func (s *Sin) MarshalJSON() ([]byte, error) {
	priceWei := "0"
	if s.PriceWei != nil {
		priceWei = s.PriceWei.String()
	}
	return json.Marshal(&sinJSON{
		Id:          s.Id,
		Contract:    s.Contract.Hex(),
		Name:        s.Name,
		Description: s.Description,
		PriceWei:    priceWei,
		PriceEth:    s.PriceEth(),
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
	})
}

func (s *Sin) UnmarshalJSON(data []byte) error {
	v := &sinJSON{}
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	priceWei, err := util.ParseWei(v.PriceWei)
	if err != nil {
		return fmt.Errorf("sin %d priceWei: %w", v.Id, err)
	}
	*s = Sin{
		Id:          v.Id,
		Contract:    common.HexToAddress(v.Contract),
		Name:        v.Name,
		Description: v.Description,
		PriceWei:    priceWei,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
	}
	return nil
}

// Absolution records that a user holds a sin's token.
type Absolution struct {
	SinId          uint64 `json:"sinId"`
	SinName        string `json:"sinName"`
	SinDescription string `json:"sinDescription"`
	PriceWei       string `json:"priceWei"`
	PriceEth       string `json:"priceEth"`

	// Timestamp is when the balance was observed, in milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Stage names the chain read that failed for a skipped item.
type Stage string

const (
	StageInfo    Stage = "getSinInfo"
	StageBalance Stage = "balanceOf"
)

// Skip is an item left out of a result because its read failed.
type Skip struct {
	Id    uint64
	Stage Stage
	Err   error
}

func (s Skip) Error() string {
	return fmt.Sprintf("sin %d: %s: %v", s.Id, s.Stage, s.Err)
}

func (s Skip) Unwrap() error {
	return s.Err
}

// ReadResult is the outcome of reading one registry index: exactly one of
// Sin or Skip is set.
type ReadResult struct {
	Sin  *Sin
	Skip *Skip
}
