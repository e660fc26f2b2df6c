// Package hooks holds the client-side state of the swipe front end: the
// shuffled sin deck, the set of sins the wallet already absolved and the
// profile list. Each state object is owned by its caller and safe for
// concurrent use.
package hooks

import (
	"context"
	"github.com/sinder-app/sinder/apiclient"
	"github.com/sinder-app/sinder/server/handle/api"
)

const (
	MsgLoadSins        = "Failed to load sins"
	MsgLoadAbsolutions = "Failed to load absolutions"
)

// SinSource lists sins. *apiclient.Client implements it.
type SinSource interface {
	Sins(ctx context.Context, q apiclient.SinsQuery) (*api.SinsResp, error)
}

// AbsolvedSource lists a user's absolutions. *apiclient.Client implements it.
type AbsolvedSource interface {
	Absolved(ctx context.Context, address string) (*api.AbsolvedResp, error)
}

// LoadError is the user facing message of a failed load.
type LoadError struct {
	Msg string
	Err error
}

func (e *LoadError) Error() string {
	return e.Msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
