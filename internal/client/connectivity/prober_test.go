package connectivity

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHTTPProber(t *testing.T) {
	var code atomic.Int32
	code.Store(http.StatusOK)
	var path atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.WriteHeader(int(code.Load()))
	}))
	defer srv.Close()

	api, err := client.NewAPIClient(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	p := NewHTTPProber(api, "")
	require.NoError(t, p.Probe(context.Background()))
	assert.Equal(t, "/", path.Load())

	code.Store(http.StatusNoContent)
	require.NoError(t, p.Probe(context.Background()), "any 2xx is reachable")

	code.Store(http.StatusBadGateway)
	require.ErrorIs(t, p.Probe(context.Background()), client.ErrUnavailable)

	hp := NewHTTPProber(api, "/healthz")
	code.Store(http.StatusOK)
	require.NoError(t, hp.Probe(context.Background()))
	assert.Equal(t, "/healthz", path.Load())
}

func TestHTTPProber_DrivesMonitorOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	api, err := client.NewAPIClient(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	m := NewMonitor(NewHTTPProber(api, "/"), Options{}, nil)
	defer m.Close()

	st, err := m.CheckNow(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, st.Status)
}

func startHealthServer(t *testing.T) (*health.Server, string) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	hs := health.NewServer()
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return hs, lis.Addr().String()
}

func TestGRPCHealthProber(t *testing.T) {
	hs, addr := startHealthServer(t)

	p, err := NewGRPCHealthProber(addr, "")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Probe(context.Background()))

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	require.ErrorIs(t, p.Probe(context.Background()), ErrNotServing)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	m := NewMonitor(p, Options{}, nil)
	defer m.Close()
	st, err := m.CheckNow(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, StatusOnline, st.Status)
}

func TestGRPCHealthProber_UnknownServiceIsUnreachable(t *testing.T) {
	_, addr := startHealthServer(t)

	p, err := NewGRPCHealthProber(addr, "credits.v1.Credits")
	require.NoError(t, err)
	defer p.Close()

	require.ErrorIs(t, p.Probe(context.Background()), client.ErrUnavailable)
}

func TestGRPCHealthProber_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	p, err := NewGRPCHealthProber(addr, "")
	require.NoError(t, err)
	defer p.Close()

	m := NewMonitor(p, Options{}, nil)
	defer m.Close()
	st, err := m.CheckNow(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, st.Status)
}
