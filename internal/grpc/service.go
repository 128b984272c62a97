package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "draftkit.v1.DraftEngine"

// Full method names
const (
	MethodGetState       = "/" + ServiceName + "/GetState"
	MethodDraftCandidate = "/" + ServiceName + "/DraftCandidate"
	MethodRecommend      = "/" + ServiceName + "/Recommend"
	MethodTiers          = "/" + ServiceName + "/Tiers"
	MethodBoard          = "/" + ServiceName + "/Board"
	MethodSelectKeepers  = "/" + ServiceName + "/SelectKeepers"
	MethodAnalyze        = "/" + ServiceName + "/Analyze"
	MethodStreamEvents   = "/" + ServiceName + "/StreamEvents"
)

// DraftEngineServer is the server API for the DraftEngine service. Every
// message is a google.protobuf.Struct carrying the HTTP API's JSON shapes.
type DraftEngineServer interface {
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DraftCandidate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Recommend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tiers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Board(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectKeepers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamEvents(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

// RegisterDraftEngineServer registers srv on s
func RegisterDraftEngineServer(s grpc.ServiceRegistrar, srv DraftEngineServer) {
	s.RegisterService(&DraftEngineServiceDesc, srv)
}

func unaryHandler(call func(DraftEngineServer, context.Context, *structpb.Struct) (*structpb.Struct, error), fullMethod string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DraftEngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DraftEngineServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func streamEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DraftEngineServer).StreamEvents(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// DraftEngineServiceDesc describes the DraftEngine service
var DraftEngineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DraftEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: unaryHandler(DraftEngineServer.GetState, MethodGetState)},
		{MethodName: "DraftCandidate", Handler: unaryHandler(DraftEngineServer.DraftCandidate, MethodDraftCandidate)},
		{MethodName: "Recommend", Handler: unaryHandler(DraftEngineServer.Recommend, MethodRecommend)},
		{MethodName: "Tiers", Handler: unaryHandler(DraftEngineServer.Tiers, MethodTiers)},
		{MethodName: "Board", Handler: unaryHandler(DraftEngineServer.Board, MethodBoard)},
		{MethodName: "SelectKeepers", Handler: unaryHandler(DraftEngineServer.SelectKeepers, MethodSelectKeepers)},
		{MethodName: "Analyze", Handler: unaryHandler(DraftEngineServer.Analyze, MethodAnalyze)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamEvents", Handler: streamEventsHandler, ServerStreams: true},
	},
	Metadata: "draftkit/v1/draft_engine.proto",
}

// Client calls the DraftEngine service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes a unary method by its full name
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StreamEvents opens the event stream
func (c *Client) StreamEvents(ctx context.Context, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &DraftEngineServiceDesc.Streams[0], MethodStreamEvents, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(&structpb.Struct{}); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
