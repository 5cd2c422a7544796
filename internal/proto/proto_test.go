package proto

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestPackUnpack(t *testing.T) {
	in := &BulkCreateRequest{
		Kind: "transactions",
		Records: []json.RawMessage{
			json.RawMessage(`{"amount":"12.50","accountId":"4","sortOrder":3}`),
		},
	}
	s, err := Pack(in)
	require.NoError(t, err)
	assert.Equal(t, "transactions", s.GetFields()["kind"].GetStringValue())

	var out BulkCreateRequest
	require.NoError(t, Unpack(s, &out))
	assert.Equal(t, in.Kind, out.Kind)
	require.Len(t, out.Records, 1)
	assert.JSONEq(t, string(in.Records[0]), string(out.Records[0]))
}

func TestUnpack_NilStruct(t *testing.T) {
	var out DeleteResponse
	require.NoError(t, Unpack(nil, &out))
}

type echoServer struct {
	UnimplementedLedgerServer
}

func (echoServer) Ping(ctx context.Context, _ *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (echoServer) Create(ctx context.Context, in *CreateRequest) (*RecordResponse, error) {
	var body map[string]any
	if err := json.Unmarshal(in.Record, &body); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	body["id"] = "42"
	b, _ := json.Marshal(body)
	return &RecordResponse{Record: b}, nil
}

func dial(t *testing.T, srv LedgerServer, opts ...grpc.ServerOption) LedgerClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterLedgerServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewLedgerClient(conn)
}

func TestLedgerService_RoundTrip(t *testing.T) {
	c := dial(t, echoServer{})
	ctx := context.Background()

	p, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", p.Status)

	r, err := c.Create(ctx, &CreateRequest{Kind: "accounts", Record: json.RawMessage(`{"name":"Cash"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cash","id":"42"}`, string(r.Record))

	_, err = c.List(ctx, &ListRequest{Kind: "accounts"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestLedgerService_InterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		if md, ok := metadata.FromIncomingContext(ctx); ok && len(md.Get("deny")) > 0 {
			return nil, status.Error(codes.PermissionDenied, "denied")
		}
		return h(ctx, req)
	}
	c := dial(t, echoServer{}, grpc.UnaryInterceptor(icpt))

	_, err := c.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "deny", "1")
	_, err = c.Ping(ctx, &PingRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Equal(t, []string{MethodPing, MethodPing}, seen)
}
