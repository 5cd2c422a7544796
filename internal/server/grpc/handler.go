package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fintrack/internal/common"
	pb "github.com/dmitrijs2005/fintrack/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	token, expires, err := s.ledger.Login(ctx, req.DeviceID)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}

	s.logger.Info(ctx, "Device logged in", "device", req.DeviceID)
	return &pb.LoginResponse{AccessToken: token, ExpiresAt: expires}, nil
}

func (s *GRPCServer) Create(ctx context.Context, req *pb.CreateRequest) (*pb.RecordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.ledger.Create(ctx, userID, req.Kind, req.Record)
	if err != nil {
		return nil, s.toStatus(ctx, "create", err)
	}
	return &pb.RecordResponse{Record: rec}, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *pb.UpdateRequest) (*pb.RecordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.ledger.Update(ctx, userID, req.Kind, req.ID, req.Patch)
	if err != nil {
		return nil, s.toStatus(ctx, "update", err)
	}
	return &pb.RecordResponse{Record: rec}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *pb.DeleteRequest) (*pb.DeleteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Delete(ctx, userID, req.Kind, req.ID); err != nil {
		return nil, s.toStatus(ctx, "delete", err)
	}
	return &pb.DeleteResponse{}, nil
}

func (s *GRPCServer) List(ctx context.Context, req *pb.ListRequest) (*pb.RecordsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.ledger.List(ctx, userID, req.Kind)
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}
	return &pb.RecordsResponse{Records: recs}, nil
}

func (s *GRPCServer) BulkCreate(ctx context.Context, req *pb.BulkCreateRequest) (*pb.RecordsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.ledger.BulkCreate(ctx, userID, req.Kind, req.Records)
	if err != nil {
		return nil, s.toStatus(ctx, "bulk create", err)
	}
	s.logger.Info(ctx, "Bulk create", "kind", req.Kind, "count", len(recs))
	return &pb.RecordsResponse{Records: recs}, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrUnknownEntity), errors.Is(err, common.ErrInvalidPayload):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
