package grpc

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/logging"
	pb "github.com/dmitrijs2005/fintrack/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Ledger is the business surface the gRPC handlers delegate to.
type Ledger interface {
	Login(ctx context.Context, deviceID string) (string, time.Time, error)
	Create(ctx context.Context, userID, kind string, payload []byte) (json.RawMessage, error)
	Update(ctx context.Context, userID, kind, id string, patch []byte) (json.RawMessage, error)
	Delete(ctx context.Context, userID, kind, id string) error
	List(ctx context.Context, userID, kind string) ([]json.RawMessage, error)
	BulkCreate(ctx context.Context, userID, kind string, payloads []json.RawMessage) ([]json.RawMessage, error)
}

type GRPCServer struct {
	pb.UnimplementedLedgerServer
	address   string
	ledger    Ledger
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ledger Ledger, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		ledger:    ledger,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	// registers services
	pb.RegisterLedgerServer(srv, s)
	hs := health.NewServer()
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
