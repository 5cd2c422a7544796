package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
	pb "github.com/dmitrijs2005/fintrack/internal/proto"
)

// DefaultCallTimeout bounds a single RPC issued without a deadline.
const DefaultCallTimeout = 15 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.LedgerClient

	mu          sync.RWMutex
	deviceID    string
	accessToken string
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewLedgerClient(conn)
	return nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// accessTokenInterceptor attaches the access token. When the backend rejects
// it the device signs in again and the call is retried once.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	err := invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
	if err == nil || method == pb.MethodLogin {
		return err
	}

	if status.Code(err) != codes.Unauthenticated {
		return err
	}

	s.mu.RLock()
	deviceID := s.deviceID
	s.mu.RUnlock()
	if deviceID == "" {
		return err
	}

	if err := s.Login(ctx, deviceID); err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Login opens a session for deviceID and remembers it for later re-login.
func (s *GRPCClient) Login(ctx context.Context, deviceID string) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &pb.LoginRequest{DeviceID: deviceID})
	if err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	s.deviceID = deviceID
	s.accessToken = resp.AccessToken
	s.mu.Unlock()
	return nil
}

func (s *GRPCClient) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", rec.Kind(), err)
	}
	resp, err := s.client.Create(ctx, &pb.CreateRequest{Kind: rec.Kind().String(), Record: body})
	if err != nil {
		return nil, s.mapError(err)
	}
	return models.DecodeRecord(rec.Kind(), resp.Record)
}

func (s *GRPCClient) Update(ctx context.Context, kind models.EntityKind, id models.ID, patch models.Patch) (models.Record, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode %s patch: %w", kind, err)
	}
	resp, err := s.client.Update(ctx, &pb.UpdateRequest{Kind: kind.String(), ID: id.String(), Patch: body})
	if err != nil {
		return nil, s.mapError(err)
	}
	return models.DecodeRecord(kind, resp.Record)
}

func (s *GRPCClient) Delete(ctx context.Context, kind models.EntityKind, id models.ID) error {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	_, err := s.client.Delete(ctx, &pb.DeleteRequest{Kind: kind.String(), ID: id.String()})
	return s.mapError(err)
}

func (s *GRPCClient) List(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	resp, err := s.client.List(ctx, &pb.ListRequest{Kind: kind.String()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return decodeAll(kind, resp.Records)
}

func (s *GRPCClient) BulkCreate(ctx context.Context, kind models.EntityKind, recs []models.Record) ([]models.Record, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	bodies := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", kind, err)
		}
		bodies = append(bodies, b)
	}

	resp, err := s.client.BulkCreate(ctx, &pb.BulkCreateRequest{Kind: kind.String(), Records: bodies})
	if err != nil {
		return nil, s.mapError(err)
	}
	if len(resp.Records) != len(recs) {
		return nil, fmt.Errorf("bulk create %s: sent %d records, got %d back", kind, len(recs), len(resp.Records))
	}
	return decodeAll(kind, resp.Records)
}

func decodeAll(kind models.EntityKind, bodies []json.RawMessage) ([]models.Record, error) {
	out := make([]models.Record, 0, len(bodies))
	for _, b := range bodies {
		rec, err := models.DecodeRecord(kind, b)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultCallTimeout)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
