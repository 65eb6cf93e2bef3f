package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mittwald/redistatus/internal/config"
	"github.com/mittwald/redistatus/pkg/redisstatus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, probes map[string]Probe) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(probes).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getResult(t *testing.T, url string) (int, ProbeResult) {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var result ProbeResult
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	return res.StatusCode, result
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, map[string]Probe{
		"cache1": ProbeFunc(func(ctx context.Context) error { return nil }),
		"cache2": ProbeFunc(func(ctx context.Context) error {
			return &redisstatus.UnhealthyError{Reason: "cache2 instance is not responsive."}
		}),
		"pubsub1": ProbeFunc(func(ctx context.Context) error {
			return errors.Wrap(redisstatus.ErrMalformedInfo, "reply has no second line")
		}),
	})

	tests := []struct {
		instance string
		status   int
		result   ProbeResult
	}{
		{"cache1", http.StatusOK, ProbeResult{Name: "cache1", OK: true}},
		{"cache2", http.StatusServiceUnavailable, ProbeResult{Name: "cache2", Message: "cache2 instance is not responsive."}},
		{"pubsub1", http.StatusInternalServerError, ProbeResult{Name: "pubsub1", Message: "reply has no second line: malformed memory info reply"}},
		{"unknown", http.StatusNotFound, ProbeResult{Name: "unknown", Message: `instance "unknown" is not configured`}},
	}

	for _, tt := range tests {
		t.Run(tt.instance, func(t *testing.T) {
			status, result := getResult(t, srv.URL+"/v1/instance/"+tt.instance+"/status")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestHandleStatusRunsFreshCheckPerRequest(t *testing.T) {
	var calls int32
	srv := newTestServer(t, map[string]Probe{
		"cache1": ProbeFunc(func(ctx context.Context) error {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil
			}
			return &redisstatus.UnhealthyError{Reason: "cache1 instance is using abnormally high memory."}
		}),
	})

	status, _ := getResult(t, srv.URL+"/v1/instance/cache1/status")
	assert.Equal(t, http.StatusOK, status)

	status, result := getResult(t, srv.URL+"/v1/instance/cache1/status")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "cache1 instance is using abnormally high memory.", result.Message)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHandleInstances(t *testing.T) {
	srv := newTestServer(t, map[string]Probe{
		"pubsub1": ProbeFunc(func(ctx context.Context) error { return nil }),
		"cache1":  ProbeFunc(func(ctx context.Context) error { return nil }),
	})

	res, err := http.Get(srv.URL + "/v1/instances")
	require.NoError(t, err)
	defer res.Body.Close()

	var body InstancesResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"cache1", "pubsub1"}, body.Instances)
}

func TestHandleStatusRejectsOtherMethods(t *testing.T) {
	srv := newTestServer(t, map[string]Probe{
		"cache1": ProbeFunc(func(ctx context.Context) error { return nil }),
	})

	res, err := http.Post(srv.URL+"/v1/instance/cache1/status", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestNewProbeHandler(t *testing.T) {
	cfg := &config.Ignition{Instances: []config.Instance{
		{Name: "cache1", Host: config.Host{Hostname: "127.0.0.1"}},
	}}

	h, err := NewProbeHandler(cfg)
	require.NoError(t, err)
	assert.Contains(t, h.probes, "cache1")

	cfg.Instances = append(cfg.Instances, config.Instance{Name: "broken"})
	_, err = NewProbeHandler(cfg)
	assert.Error(t, err)
}
