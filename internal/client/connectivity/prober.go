package connectivity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var ErrNotServing = errors.New("backend health is not SERVING")

// Pinger is the part of the API client the HTTP prober needs.
type Pinger interface {
	Ping(ctx context.Context, path string) error
}

// HTTPProber checks liveness with a GET on the health path through the
// shared authenticated client. Any 2xx is reachable.
type HTTPProber struct {
	pinger Pinger
	path   string
}

func NewHTTPProber(p Pinger, path string) *HTTPProber {
	if path == "" {
		path = "/"
	}
	return &HTTPProber{pinger: p, path: path}
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	return p.pinger.Ping(ctx, p.path)
}

// GRPCHealthProber calls grpc.health.v1.Health/Check on a backend that
// exposes the standard health service.
type GRPCHealthProber struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

// NewGRPCHealthProber creates a lazily connecting prober for addr. Extra dial
// options (the auth interceptor, a custom dialer in tests) are appended to
// the insecure transport credentials.
func NewGRPCHealthProber(addr, service string, opts ...grpc.DialOption) (*GRPCHealthProber, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc health client: %w", err)
	}

	return &GRPCHealthProber{conn: conn, client: healthpb.NewHealthClient(conn), service: service}, nil
}

func (p *GRPCHealthProber) Probe(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return fmt.Errorf("%w: %w", client.ErrUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

func (p *GRPCHealthProber) Close() error {
	return p.conn.Close()
}
