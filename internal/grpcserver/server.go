package grpcserver

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"citizenhub/internal/legislator"
	"citizenhub/internal/officials"
	"citizenhub/pkg/models"
)

type Server struct {
	Service *officials.Service
	Repo    *legislator.Repo
}

func NewServer(svc *officials.Service, repo *legislator.Repo) *Server {
	return &Server{Service: svc, Repo: repo}
}

func (s *Server) Lookup(ctx context.Context, req *LookupRequest) (*LegislatorsReply, error) {
	if req == nil || strings.TrimSpace(req.Address) == "" {
		return nil, status.Error(codes.InvalidArgument, "address required")
	}
	ls, err := s.Service.Lookup(ctx, req.Address)
	if err != nil {
		return nil, lookupStatus(err, true)
	}
	return &LegislatorsReply{Items: models.FlattenAll(ls)}, nil
}

func (s *Server) LookupLocal(ctx context.Context, req *LookupLocalRequest) (*LegislatorsReply, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	ls, err := s.Service.LookupLocal(ctx, req.City)
	if err != nil {
		return nil, lookupStatus(err, false)
	}
	return &LegislatorsReply{Items: models.FlattenAll(ls)}, nil
}

func (s *Server) Get(ctx context.Context, req *GetRequest) (*GetReply, error) {
	if req == nil || req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	l, err := s.Repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, status.Error(codes.Internal, "get failed")
	}
	if l == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &GetReply{Legislator: *l}, nil
}

func lookupStatus(err error, remote bool) error {
	switch {
	case errors.Is(err, officials.ErrInvalidAddress):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, officials.ErrRemoteDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case remote:
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// New builds a *grpc.Server with the legislator service and the standard
// health service registered. The returned health server reports SERVING.
func New(srv LegislatorServiceServer, logger *log.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = log.Default()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary(logger)))
	gs := grpc.NewServer(opts...)
	RegisterLegislatorServiceServer(gs, srv)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return gs, hs
}

func logUnary(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Printf("[grpc] %s %s: %v", info.FullMethod, time.Since(start), err)
		} else {
			logger.Printf("[grpc] %s %s", info.FullMethod, time.Since(start))
		}
		return resp, err
	}
}
