package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "fintrack.v1.LedgerService"

// Full method names, as seen by interceptors.
const (
	MethodPing       = "/" + ServiceName + "/Ping"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodCreate     = "/" + ServiceName + "/Create"
	MethodUpdate     = "/" + ServiceName + "/Update"
	MethodDelete     = "/" + ServiceName + "/Delete"
	MethodList       = "/" + ServiceName + "/List"
	MethodBulkCreate = "/" + ServiceName + "/BulkCreate"
)

// LedgerServer is the server API of the ledger service.
type LedgerServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Create(context.Context, *CreateRequest) (*RecordResponse, error)
	Update(context.Context, *UpdateRequest) (*RecordResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	List(context.Context, *ListRequest) (*RecordsResponse, error)
	BulkCreate(context.Context, *BulkCreateRequest) (*RecordsResponse, error)
}

// UnimplementedLedgerServer answers every method with codes.Unimplemented.
// Embed it to stay compatible when methods are added.
type UnimplementedLedgerServer struct{}

func (UnimplementedLedgerServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedLedgerServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedLedgerServer) Create(context.Context, *CreateRequest) (*RecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedLedgerServer) Update(context.Context, *UpdateRequest) (*RecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedLedgerServer) Delete(context.Context, *DeleteRequest) (*DeleteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedLedgerServer) List(context.Context, *ListRequest) (*RecordsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedLedgerServer) BulkCreate(context.Context, *BulkCreateRequest) (*RecordsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BulkCreate not implemented")
}

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

// unary adapts a typed LedgerServer method to the Struct wire form.
func unary[Req, Resp any](method string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			r := new(Req)
			if err := Unpack(req.(*structpb.Struct), r); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(LedgerServer), ctx, r)
			if err != nil {
				return nil, err
			}
			out, err := Pack(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}

		if interceptor == nil {
			return handler(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: method}, handler)
	}
}

// LedgerServiceDesc is the grpc.ServiceDesc of the ledger service.
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, LedgerServer.Ping)},
		{MethodName: "Login", Handler: unary(MethodLogin, LedgerServer.Login)},
		{MethodName: "Create", Handler: unary(MethodCreate, LedgerServer.Create)},
		{MethodName: "Update", Handler: unary(MethodUpdate, LedgerServer.Update)},
		{MethodName: "Delete", Handler: unary(MethodDelete, LedgerServer.Delete)},
		{MethodName: "List", Handler: unary(MethodList, LedgerServer.List)},
		{MethodName: "BulkCreate", Handler: unary(MethodBulkCreate, LedgerServer.BulkCreate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fintrack/v1/ledger",
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerClient is the client API of the ledger service.
type LedgerClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*RecordResponse, error)
	Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*RecordResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*RecordsResponse, error)
	BulkCreate(ctx context.Context, in *BulkCreateRequest, opts ...grpc.CallOption) (*RecordsResponse, error)
}

type ledgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) LedgerClient {
	return &ledgerClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	in, err := Pack(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Unpack(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ledgerClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *ledgerClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *ledgerClient) Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*RecordResponse, error) {
	return invoke[RecordResponse](ctx, c.cc, MethodCreate, in, opts)
}

func (c *ledgerClient) Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*RecordResponse, error) {
	return invoke[RecordResponse](ctx, c.cc, MethodUpdate, in, opts)
}

func (c *ledgerClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, MethodDelete, in, opts)
}

func (c *ledgerClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*RecordsResponse, error) {
	return invoke[RecordsResponse](ctx, c.cc, MethodList, in, opts)
}

func (c *ledgerClient) BulkCreate(ctx context.Context, in *BulkCreateRequest, opts ...grpc.CallOption) (*RecordsResponse, error) {
	return invoke[RecordsResponse](ctx, c.cc, MethodBulkCreate, in, opts)
}
