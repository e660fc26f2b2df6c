// Package chaintest provides an in-memory deployer and sin contracts that
// answer eth_call the same way the deployed contracts do.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sinder-app/sinder/chain"
	"math/big"
	"strings"
	"sync"
)

type Sin struct {
	Contract    common.Address
	Name        string
	Description string
	PriceWei    *big.Int
	Active      bool
}

// Registry is a fake chain holding one deployer and its sin contracts.
type Registry struct {
	mu        sync.Mutex
	Deployer  common.Address
	sins      []Sin
	balances  map[common.Address]map[common.Address]*big.Int
	failInfo  map[uint64]error
	failOwner map[common.Address]error
	failNext  error
	calls     map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		Deployer:  common.HexToAddress("0x00000000000000000000000000000000000d3910"),
		balances:  map[common.Address]map[common.Address]*big.Int{},
		failInfo:  map[uint64]error{},
		failOwner: map[common.Address]error{},
		calls:     map[string]int{},
	}
}

// ContractAddress is the deterministic address of sin id.
func ContractAddress(id uint64) common.Address {
	return common.BigToAddress(new(big.Int).SetUint64(0x5150000 + id))
}

// Add appends a sin and returns its id.
func (r *Registry) Add(name, description string, priceWei *big.Int, active bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uint64(len(r.sins))
	r.sins = append(r.sins, Sin{
		Contract:    ContractAddress(id),
		Name:        name,
		Description: description,
		PriceWei:    new(big.Int).Set(priceWei),
		Active:      active,
	})
	return id
}

// Mint gives owner amount tokens of sin id.
func (r *Registry) Mint(id uint64, owner common.Address, amount int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract := ContractAddress(id)
	if r.balances[contract] == nil {
		r.balances[contract] = map[common.Address]*big.Int{}
	}
	b := r.balances[contract][owner]
	if b == nil {
		b = new(big.Int)
	}
	r.balances[contract][owner] = b.Add(b, big.NewInt(amount))
}

func (r *Registry) FailInfo(id uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failInfo[id] = err
}

// FailBalance makes every balanceOf on sin id fail.
func (r *Registry) FailBalance(id uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOwner[ContractAddress(id)] = err
}

func (r *Registry) FailNextSinId(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

// Calls returns how many times method was called.
func (r *Registry) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func (r *Registry) CallContract(ctx context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if call.To == nil || len(call.Data) < 4 {
		return nil, errors.New("malformed call")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if *call.To == r.Deployer {
		return r.deployerCall(call.Data)
	}
	for id := range r.sins {
		if *call.To == r.sins[id].Contract {
			return r.sinCall(*call.To, call.Data)
		}
	}
	// an address without code answers with empty return data
	return nil, nil
}

func (r *Registry) deployerCall(data []byte) ([]byte, error) {
	method, args, err := unpackInput(chain.DeployerABI, data)
	if err != nil {
		return nil, err
	}
	r.calls[method.Name]++
	switch method.Name {
	case "nextSinId":
		if r.failNext != nil {
			return nil, r.failNext
		}
		return method.Outputs.Pack(big.NewInt(int64(len(r.sins))))
	case "getSinInfo", "sinContracts":
		id := args[0].(*big.Int).Uint64()
		if err := r.failInfo[id]; err != nil {
			return nil, err
		}
		if id >= uint64(len(r.sins)) {
			return nil, fmt.Errorf("execution reverted: sin %d does not exist", id)
		}
		s := r.sins[id]
		if method.Name == "sinContracts" {
			return method.Outputs.Pack(s.Contract)
		}
		return method.Outputs.Pack(s.Contract, s.Name, s.Description, s.PriceWei, s.Active)
	}
	return nil, fmt.Errorf("unsupported deployer method %s", method.Name)
}

func (r *Registry) sinCall(contract common.Address, data []byte) ([]byte, error) {
	method, args, err := unpackInput(chain.SinABI, data)
	if err != nil {
		return nil, err
	}
	r.calls[method.Name]++
	switch method.Name {
	case "balanceOf":
		if err := r.failOwner[contract]; err != nil {
			return nil, err
		}
		owner := args[0].(common.Address)
		b := r.balances[contract][owner]
		if b == nil {
			b = new(big.Int)
		}
		return method.Outputs.Pack(b)
	case "uri":
		return method.Outputs.Pack("ipfs://" + strings.ToLower(contract.Hex()))
	}
	return nil, fmt.Errorf("unsupported sin method %s", method.Name)
}

func unpackInput(contract abi.ABI, data []byte) (*abi.Method, []interface{}, error) {
	method, err := contract.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}
