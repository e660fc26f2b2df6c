package sin

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"math/big"
	"time"
)

// Reader is the read side of the chain client.
type Reader interface {
	NextSinId(ctx context.Context) (uint64, error)
	GetSinInfo(ctx context.Context, id uint64) (*chain.SinInfo, error)
	BalanceOf(ctx context.Context, sinContract common.Address, account string, tokenId int64) (*big.Int, error)
}

type Options struct {
	now func() time.Time
}

type Option func(*Options)

// WithClock sets the clock used for createdAt and timestamp fields.
func WithClock(now func() time.Time) func(*Options) {
	return func(options *Options) {
		options.now = now
	}
}

// Registry enumerates the sins of one deployer contract. Every call reads
// the chain from scratch.
type Registry struct {
	options *Options
	reader  Reader
}

func NewRegistry(reader Reader, opts ...Option) *Registry {
	r := &Registry{reader: reader}
	r.options = &Options{}
	for _, opt := range opts {
		opt(r.options)
	}
	if r.options.now == nil {
		r.options.now = time.Now
	}
	return r
}

// Count reads the deployer's nextSinId counter.
func (r *Registry) Count(ctx context.Context) (uint64, error) {
	n, err := r.reader.NextSinId(ctx)
	if err != nil {
		return 0, fmt.Errorf("read sin count: %w", err)
	}
	return n, nil
}

// Enumerate reads every index in [0, nextSinId) one at a time and returns
// one result per index. Only a failed counter read is an error.
func (r *Registry) Enumerate(ctx context.Context) ([]ReadResult, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]ReadResult, 0, n)
	for i := uint64(0); i < n; i++ {
		info, err := r.reader.GetSinInfo(ctx, i)
		if err != nil {
			skip := r.skip(i, StageInfo, err)
			results = append(results, ReadResult{Skip: &skip})
			continue
		}
		results = append(results, ReadResult{Sin: &Sin{
			Id:          i,
			Contract:    info.Contract,
			Name:        info.Name,
			Description: info.Description,
			PriceWei:    info.PriceWei,
			Active:      info.Active,
			CreatedAt:   r.options.now().UnixMilli(),
		}})
	}
	return results, nil
}

// LoadAll returns the readable sins in ascending id order and the indexes
// that were skipped.
func (r *Registry) LoadAll(ctx context.Context) ([]*Sin, []Skip, error) {
	results, err := r.Enumerate(ctx)
	if err != nil {
		return nil, nil, err
	}
	sins := make([]*Sin, 0, len(results))
	var skipped []Skip
	for _, res := range results {
		if res.Skip != nil {
			skipped = append(skipped, *res.Skip)
			continue
		}
		sins = append(sins, res.Sin)
	}
	return sins, skipped, nil
}

// Absolved reads balanceOf(user, 0) on each sin's own contract, in list
// order, and returns the sins the user holds.
func (r *Registry) Absolved(ctx context.Context, sins []*Sin, user string) ([]*Absolution, []Skip) {
	absolutions := make([]*Absolution, 0)
	var skipped []Skip
	for _, s := range sins {
		balance, err := r.reader.BalanceOf(ctx, s.Contract, user, constants.SinTokenId)
		if err != nil {
			skipped = append(skipped, r.skip(s.Id, StageBalance, err))
			continue
		}
		if balance.Sign() <= 0 {
			continue
		}
		absolutions = append(absolutions, &Absolution{
			SinId:          s.Id,
			SinName:        s.Name,
			SinDescription: s.Description,
			PriceWei:       s.PriceWei.String(),
			PriceEth:       s.PriceEth(),
			Timestamp:      r.options.now().UnixMilli(),
		})
	}
	return absolutions, skipped
}

// UserAbsolutions runs LoadAll then Absolved.
func (r *Registry) UserAbsolutions(ctx context.Context, user string) ([]*Absolution, []Skip, error) {
	sins, skipped, err := r.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	absolutions, balanceSkipped := r.Absolved(ctx, sins, user)
	return absolutions, append(skipped, balanceSkipped...), nil
}

func (r *Registry) skip(id uint64, stage Stage, err error) Skip {
	s := Skip{Id: id, Stage: stage, Err: err}
	skippedTotal.WithLabelValues(string(stage)).Inc()
	log.Sins.Warnf("skipping %v", s)
	return s
}
