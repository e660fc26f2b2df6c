package handle

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/tables"
	"net/http"
	"time"
)

// StatisticRecorder keeps request counters. *dao.DB implements it.
type StatisticRecorder interface {
	IncrementStatistic(name tables.StatisticType, count uint64) error
}

type Options struct {
	addr             string
	engine           *gin.Engine
	registry         *sin.Registry
	deployer         string
	recorder         StatisticRecorder
	enablePProf      bool
	enablePrometheus bool
	origins          []string
	now              func() time.Time
}

type Option func(*Options)

// WithAddr returns an Option that sets the address the api listens on.
func WithAddr(addr string) func(*Options) {
	return func(options *Options) {
		options.addr = addr
	}
}

// WithEngine returns an Option that serves routes on g instead of a new gin engine.
func WithEngine(g *gin.Engine) func(*Options) {
	return func(options *Options) {
		options.engine = g
	}
}

// WithRegistry returns an Option that sets the registry the routes read sins from.
func WithRegistry(r *sin.Registry) func(*Options) {
	return func(options *Options) {
		options.registry = r
	}
}

// WithDeployerAddress sets the address reported by the health check.
func WithDeployerAddress(addr string) func(*Options) {
	return func(options *Options) {
		options.deployer = addr
	}
}

// WithStatisticRecorder returns an Option that records request counters in r.
func WithStatisticRecorder(r StatisticRecorder) func(*Options) {
	return func(options *Options) {
		options.recorder = r
	}
}

// WithEnablePProf returns an Option that mounts the pprof routes.
func WithEnablePProf(enable bool) func(*Options) {
	return func(options *Options) {
		options.enablePProf = enable
	}
}

// WithEnablePrometheus returns an Option that serves prometheus metrics on /metrics.
func WithEnablePrometheus(enable bool) func(*Options) {
	return func(options *Options) {
		options.enablePrometheus = enable
	}
}

// WithOrigins sets the CORS allow-list. "*" allows any origin.
func WithOrigins(origins ...string) func(*Options) {
	return func(options *Options) {
		options.origins = origins
	}
}

// WithClock returns an Option that sets the clock used for health check times.
func WithClock(now func() time.Time) func(*Options) {
	return func(options *Options) {
		options.now = now
	}
}

type Handler struct {
	options *Options
	srv     *http.Server
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	h.options = &Options{}
	for _, opt := range opts {
		opt(h.options)
	}
	if h.options.registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if h.options.addr == "" {
		h.options.addr = constants.DefaultListen
	}
	if h.options.deployer == "" {
		h.options.deployer = constants.DefaultDeployerAddress
	}
	if h.options.engine == nil {
		h.options.engine = gin.New()
	}
	if h.options.now == nil {
		h.options.now = time.Now
	}
	h.InitRouter()
	h.srv = &http.Server{
		Addr:              h.options.addr,
		Handler:           h.options.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h, nil
}

func (h *Handler) Engine() *gin.Engine {
	return h.options.engine
}

func (h *Handler) Registry() *sin.Registry {
	return h.options.registry
}

func (h *Handler) DeployerAddress() string {
	return h.options.deployer
}

func (h *Handler) Addr() string {
	return h.options.addr
}

// Run serves until Shutdown is called.
func (h *Handler) Run() error {
	log.Srv.Infof("read api listening on %s", h.options.addr)
	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.srv.Shutdown(ctx)
}

// record bumps a statistic counter. Failures are logged only.
func (h *Handler) record(name tables.StatisticType, count uint64) {
	if h.options.recorder == nil || count == 0 {
		return
	}
	if err := h.options.recorder.IncrementStatistic(name, count); err != nil {
		log.Srv.Warnf("increment statistic %s: %v", name, err)
	}
}

func (h *Handler) recordSkips(skipped []sin.Skip) {
	var reads, checks uint64
	for _, s := range skipped {
		switch s.Stage {
		case sin.StageInfo:
			reads++
		case sin.StageBalance:
			checks++
		}
	}
	h.record(tables.StatisticSinReadsSkipped, reads)
	h.record(tables.StatisticBalanceChecksSkipped, checks)
}
