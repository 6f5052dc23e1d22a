package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"citizenhub/pkg/models"
)

const ServiceName = "citizenhub.v1.LegislatorService"

type LookupRequest struct {
	Address string `json:"address"`
}

type LookupLocalRequest struct {
	City string `json:"city"`
}

type GetRequest struct {
	ID int64 `json:"id"`
}

type LegislatorsReply struct {
	Items []models.LegislatorDB `json:"items"`
}

type GetReply struct {
	Legislator models.LegislatorDB `json:"legislator"`
}

// LegislatorServiceServer is the server side of ServiceName.
type LegislatorServiceServer interface {
	Lookup(context.Context, *LookupRequest) (*LegislatorsReply, error)
	LookupLocal(context.Context, *LookupLocalRequest) (*LegislatorsReply, error)
	Get(context.Context, *GetRequest) (*GetReply, error)
}

func RegisterLegislatorServiceServer(s grpc.ServiceRegistrar, srv LegislatorServiceServer) {
	s.RegisterService(&legislatorServiceDesc, srv)
}

var legislatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LegislatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Lookup", Handler: lookupHandler},
		{MethodName: "LookupLocal", Handler: lookupLocalHandler},
		{MethodName: "Get", Handler: getHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func lookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LookupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LegislatorServiceServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Lookup"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LegislatorServiceServer).Lookup(ctx, req.(*LookupRequest))
	})
}

func lookupLocalHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LookupLocalRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LegislatorServiceServer).LookupLocal(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/LookupLocal"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LegislatorServiceServer).LookupLocal(ctx, req.(*LookupLocalRequest))
	})
}

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LegislatorServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Get"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LegislatorServiceServer).Get(ctx, req.(*GetRequest))
	})
}

// Client calls ServiceName over a connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LegislatorsReply, error) {
	out := new(LegislatorsReply)
	if err := c.invoke(ctx, "Lookup", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LookupLocal(ctx context.Context, in *LookupLocalRequest, opts ...grpc.CallOption) (*LegislatorsReply, error) {
	out := new(LegislatorsReply)
	if err := c.invoke(ctx, "LookupLocal", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetReply, error) {
	out := new(GetReply)
	if err := c.invoke(ctx, "Get", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
