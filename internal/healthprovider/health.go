package healthprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"experience-bottler/internal/config"
	"experience-bottler/internal/repository"
)

const checkInterval = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type checker struct {
	srv *health.Server

	repo  pinger
	kafka pinger
}

func Create(ctx context.Context, repo repository.Repository, kafkaCfg *config.KafkaConfig) *health.Server {
	srv := health.NewServer()

	for _, service := range config.AllServices {
		srv.SetServingStatus(service, healthpb.HealthCheckResponse_UNKNOWN)
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	c := &checker{
		srv:   srv,
		repo:  repo,
		kafka: &kafkaPinger{addr: fmt.Sprintf("%s:%d", kafkaCfg.Host, kafkaCfg.Port)},
	}

	c.startHealthChecks(ctx)

	return srv
}

func (c *checker) startHealthChecks(ctx context.Context) {
	go func() {
		t := time.NewTicker(checkInterval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				c.performHealthCheck(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *checker) performHealthCheck(ctx context.Context) {
	c.setStatus(config.MongoServiceName, c.repo.Ping(ctx))
	c.setStatus(config.KafkaServiceName, c.kafka.Ping(ctx))
}

func (c *checker) setStatus(service string, err error) {
	if err != nil {
		c.srv.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	} else {
		c.srv.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
	}
}

type kafkaPinger struct {
	addr string
}

func (k *kafkaPinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", k.addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
