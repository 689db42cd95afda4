package healthprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"experience-bottler/internal/config"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error {
	return f.err
}

func status(t *testing.T, srv *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestPerformHealthCheck(t *testing.T) {
	srv := health.NewServer()
	mongo := &fakePinger{}
	kafka := &fakePinger{err: errors.New("connection refused")}
	c := &checker{srv: srv, repo: mongo, kafka: kafka}

	c.performHealthCheck(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, config.MongoServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, config.KafkaServiceName))

	mongo.err = errors.New("timeout")
	kafka.err = nil
	c.performHealthCheck(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, config.MongoServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, config.KafkaServiceName))
}
