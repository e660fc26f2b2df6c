package api

import "github.com/sinder-app/sinder/sin"

const (
	StatusHealthy = "healthy"
	StatusError   = "error"

	MsgInternalError   = "Internal server error"
	MsgAddressRequired = "User address is required"
)

type HealthResp struct {
	Status          string `json:"status"`
	SinsLoaded      uint64 `json:"sinsLoaded"`
	DeployerAddress string `json:"deployerAddress"`
	LastKnownSinId  uint64 `json:"lastKnownSinId"`
	Timestamp       int64  `json:"timestamp"`
}

type HealthErrResp struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type SinsResp struct {
	Sins    []*sin.Sin `json:"sins"`
	Total   int        `json:"total"`
	HasMore bool       `json:"hasMore"`
}

type AbsolvedResp struct {
	AbsolvedSins []*sin.Absolution `json:"absolvedSins"`
}

// ErrResp is the body of every non-health error response.
type ErrResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func RespHealthErr(err error) HealthErrResp {
	return HealthErrResp{
		Status: StatusError,
		Error:  err.Error(),
	}
}

func RespInternalErr(err error) ErrResp {
	return ErrResp{
		Error:   MsgInternalError,
		Message: err.Error(),
	}
}

func RespErr(msg string) ErrResp {
	return ErrResp{Error: msg}
}
