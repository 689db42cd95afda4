package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"

	grpczap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"experience-bottler/internal/config"
	"experience-bottler/internal/healthprovider"
	"experience-bottler/internal/repository"
)

func RunServices(ctx context.Context, log *zap.SugaredLogger, wg *sync.WaitGroup, cfg *config.Config,
	repo repository.Repository) error {

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := newServer(log, cfg.Development)

	healthSrv := healthprovider.Create(ctx, repo, cfg.Kafka)
	grpc_health_v1.RegisterHealthServer(s, healthSrv)
	log.Infow("listening for gRPC requests", "port", cfg.Port)

	go func() {
		if err := s.Serve(lis); err != nil {
			log.Errorw("failed to serve", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.GracefulStop()
	}()

	return nil
}

func newServer(log *zap.SugaredLogger, development bool) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(func(p any) error {
			log.Errorw("panic in gRPC handler", "panic", p)
			return status.Error(codes.Internal, "internal error")
		})),
		grpczap.UnaryServerInterceptor(log.Desugar(), grpczap.WithLevels(func(code codes.Code) zapcore.Level {
			if code != codes.Internal && code != codes.Unavailable && code != codes.Unknown {
				return zapcore.DebugLevel
			} else {
				return zapcore.ErrorLevel
			}
		})),
	))

	if development {
		reflection.Register(s)
	}

	return s
}
