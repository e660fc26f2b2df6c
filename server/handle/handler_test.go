package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/chain/chaintest"
	"github.com/sinder-app/sinder/server/handle/api"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var now = time.UnixMilli(1718000000000)

type fakeRecorder struct {
	mu     sync.Mutex
	counts map[tables.StatisticType]uint64
	err    error
}

func (f *fakeRecorder) IncrementStatistic(name tables.StatisticType, count uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.counts == nil {
		f.counts = map[tables.StatisticType]uint64{}
	}
	f.counts[name] += count
	return nil
}

func newTestHandler(t *testing.T, reg *chaintest.Registry, opts ...Option) *Handler {
	t.Helper()
	c, err := chain.NewClient(chain.WithCaller(reg), chain.WithDeployer(reg.Deployer))
	require.NoError(t, err)
	opts = append([]Option{
		WithRegistry(sin.NewRegistry(c, sin.WithClock(func() time.Time { return now }))),
		WithDeployerAddress(reg.Deployer.Hex()),
		WithClock(func() time.Time { return now }),
	}, opts...)
	h, err := New(opts...)
	require.NoError(t, err)
	return h
}

func get(t *testing.T, h *Handler, target string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

// seed adds n sins; the ids listed in inactive are deployed inactive.
func seed(reg *chaintest.Registry, n int, inactive ...int) {
	off := map[int]bool{}
	for _, i := range inactive {
		off[i] = true
	}
	for i := 0; i < n; i++ {
		reg.Add(fmt.Sprintf("sin-%d", i), fmt.Sprintf("confession %d", i), big.NewInt(1000000000000000), !off[i])
	}
}

func ids(sins []*sin.Sin) []uint64 {
	out := make([]uint64, 0, len(sins))
	for _, s := range sins {
		out = append(out, s.Id)
	}
	return out
}

func TestNewRequiresRegistry(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 3)
	rec := &fakeRecorder{}
	h := newTestHandler(t, reg, WithStatisticRecorder(rec))

	resp := api.HealthResp{}
	w := get(t, h, "/api/health", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.HealthResp{
		Status:          "healthy",
		SinsLoaded:      3,
		DeployerAddress: reg.Deployer.Hex(),
		LastKnownSinId:  3,
		Timestamp:       now.UnixMilli(),
	}, resp)
	assert.Equal(t, uint64(1), rec.counts[tables.StatisticHealthChecks])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealthError(t *testing.T) {
	reg := chaintest.NewRegistry()
	reg.FailNextSinId(errors.New("rpc unavailable"))
	h := newTestHandler(t, reg)

	resp := api.HealthErrResp{}
	w := get(t, h, "/api/health", &resp)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "rpc unavailable")
}

func TestSinsDefaults(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 4, 1)
	h := newTestHandler(t, reg)

	resp := api.SinsResp{}
	w := get(t, h, "/api/sins", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{0, 2, 3}, ids(resp.Sins))
	assert.Equal(t, 4, resp.Total)
	assert.False(t, resp.HasMore)
	assert.Equal(t, "0.001", resp.Sins[0].PriceEth())
	assert.Equal(t, now.UnixMilli(), resp.Sins[0].CreatedAt)
}

func TestSinsActiveFalseReturnsAll(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 4, 1, 3)
	h := newTestHandler(t, reg)

	resp := api.SinsResp{}
	get(t, h, "/api/sins?active=false", &resp)
	assert.Equal(t, []uint64{0, 1, 2, 3}, ids(resp.Sins))

	// anything but the literal "true" disables the filter
	resp = api.SinsResp{}
	get(t, h, "/api/sins?active=TRUE", &resp)
	assert.Len(t, resp.Sins, 4)
}

func TestSinsPagination(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 5)
	h := newTestHandler(t, reg)

	resp := api.SinsResp{}
	get(t, h, "/api/sins?limit=2&offset=1", &resp)
	assert.Equal(t, []uint64{1, 2}, ids(resp.Sins))
	assert.Equal(t, 5, resp.Total)
	assert.True(t, resp.HasMore)

	resp = api.SinsResp{}
	get(t, h, "/api/sins?limit=2&offset=3", &resp)
	assert.Equal(t, []uint64{3, 4}, ids(resp.Sins))
	assert.False(t, resp.HasMore)

	resp = api.SinsResp{}
	get(t, h, "/api/sins?offset=9", &resp)
	assert.NotNil(t, resp.Sins)
	assert.Empty(t, resp.Sins)
	assert.False(t, resp.HasMore)
}

// hasMore is computed against the unfiltered total: with two inactive sins
// the second page of active sins is already the last one, yet hasMore stays
// true.
func TestSinsHasMoreUsesUnfilteredTotal(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 5, 3, 4)
	h := newTestHandler(t, reg)

	resp := api.SinsResp{}
	get(t, h, "/api/sins?limit=2&offset=1", &resp)
	assert.Equal(t, []uint64{1, 2}, ids(resp.Sins))
	assert.Equal(t, 5, resp.Total)
	assert.True(t, resp.HasMore)

	resp = api.SinsResp{}
	get(t, h, "/api/sins?limit=2&offset=3", &resp)
	assert.Empty(t, resp.Sins)
	assert.True(t, resp.HasMore)
}

func TestSinsQueryCoercion(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 3)
	h := newTestHandler(t, reg)

	resp := api.SinsResp{}
	get(t, h, "/api/sins?limit=abc", &resp)
	assert.Empty(t, resp.Sins)

	resp = api.SinsResp{}
	get(t, h, "/api/sins?offset=-4&limit=", &resp)
	assert.Equal(t, []uint64{0, 1, 2}, ids(resp.Sins))
}

func TestSinsSkipsUnreadableSin(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 3)
	reg.FailInfo(1, errors.New("execution reverted"))
	rec := &fakeRecorder{}
	h := newTestHandler(t, reg, WithStatisticRecorder(rec))

	resp := api.SinsResp{}
	w := get(t, h, "/api/sins", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{0, 2}, ids(resp.Sins))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, uint64(2), rec.counts[tables.StatisticSinsEnumerated])
	assert.Equal(t, uint64(1), rec.counts[tables.StatisticSinReadsSkipped])
}

func TestSinsError(t *testing.T) {
	reg := chaintest.NewRegistry()
	reg.FailNextSinId(errors.New("rpc unavailable"))
	h := newTestHandler(t, reg)

	resp := api.ErrResp{}
	w := get(t, h, "/api/sins", &resp)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Contains(t, resp.Message, "rpc unavailable")
}

func TestAbsolved(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 3)
	user := common.HexToAddress("0x1234567890123456789012345678901234567890")
	reg.Mint(2, user, 1)
	rec := &fakeRecorder{}
	h := newTestHandler(t, reg, WithStatisticRecorder(rec))

	resp := api.AbsolvedResp{}
	w := get(t, h, "/api/user/"+user.Hex()+"/absolved", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.AbsolvedSins, 1)
	assert.Equal(t, sin.Absolution{
		SinId:          2,
		SinName:        "sin-2",
		SinDescription: "confession 2",
		PriceWei:       "1000000000000000",
		PriceEth:       "0.001",
		Timestamp:      now.UnixMilli(),
	}, *resp.AbsolvedSins[0])
	assert.Equal(t, uint64(1), rec.counts[tables.StatisticAbsolvedQueries])
}

func TestAbsolvedBlankAddress(t *testing.T) {
	h := newTestHandler(t, chaintest.NewRegistry())

	resp := api.ErrResp{}
	w := get(t, h, "/api/user/%20/absolved", &resp)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.ErrResp{Error: "User address is required"}, resp)
}

func TestAbsolvedInvalidAddressIsEmpty(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 2)
	rec := &fakeRecorder{}
	h := newTestHandler(t, reg, WithStatisticRecorder(rec))

	resp := api.AbsolvedResp{}
	w := get(t, h, "/api/user/not-an-address/absolved", &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, resp.AbsolvedSins)
	assert.Empty(t, resp.AbsolvedSins)
	assert.Equal(t, uint64(2), rec.counts[tables.StatisticBalanceChecksSkipped])
}

func TestAbsolvedError(t *testing.T) {
	reg := chaintest.NewRegistry()
	reg.FailNextSinId(errors.New("rpc unavailable"))
	h := newTestHandler(t, reg)

	resp := api.ErrResp{}
	w := get(t, h, "/api/user/0x1234567890123456789012345678901234567890/absolved", &resp)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Contains(t, resp.Message, "rpc unavailable")
}

func TestStatisticFailureDoesNotFailRequest(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 1)
	h := newTestHandler(t, reg, WithStatisticRecorder(&fakeRecorder{err: errors.New("mysql gone")}))

	w := get(t, h, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	reg := chaintest.NewRegistry()
	seed(reg, 1)
	h := newTestHandler(t, reg, WithEnablePrometheus(true))
	get(t, h, "/api/sins", nil)

	w := get(t, h, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sinder_chain_calls_total")

	w = get(t, newTestHandler(t, reg), "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
