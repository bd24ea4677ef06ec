package alert

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alertoverride.v1.AlertService"

// Full method names, as seen by interceptors.
const (
	ReportCallMethod    = "/" + ServiceName + "/ReportCall"
	ReportSmsMethod     = "/" + ServiceName + "/ReportSms"
	GetAudioStateMethod = "/" + ServiceName + "/GetAudioState"
	SetAudioStateMethod = "/" + ServiceName + "/SetAudioState"
)

// AlertServiceServer is the server side of the service.
type AlertServiceServer interface {
	ReportCall(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ReportSms(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAudioState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetAudioState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Same shape as a generated service descriptor.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ReportCall", Handler: unaryHandler(ReportCallMethod, AlertServiceServer.ReportCall)},
		{MethodName: "ReportSms", Handler: unaryHandler(ReportSmsMethod, AlertServiceServer.ReportSms)},
		{MethodName: "GetAudioState", Handler: unaryHandler(GetAudioStateMethod, AlertServiceServer.GetAudioState)},
		{MethodName: "SetAudioState", Handler: unaryHandler(SetAudioStateMethod, AlertServiceServer.SetAudioState)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alertoverride/v1/alert.proto",
}

// RegisterAlertServiceServer registers srv with s.
func RegisterAlertServiceServer(s grpc.ServiceRegistrar, srv AlertServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(AlertServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, method unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		//nolint:forcetypeassert // HandlerType guarantees the server type.
		server := srv.(AlertServiceServer)

		if interceptor == nil {
			return method(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			//nolint:forcetypeassert // The request was decoded above.
			return method(server, ctx, req.(*structpb.Struct))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AlertServiceClient is the client side of the service.
type AlertServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAlertServiceClient creates a client stub over cc.
func NewAlertServiceClient(cc grpc.ClientConnInterface) *AlertServiceClient {
	return &AlertServiceClient{cc: cc}
}

// ReportCall invokes ReportCall.
func (c *AlertServiceClient) ReportCall(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReportCallMethod, in, opts...)
}

// ReportSms invokes ReportSms.
func (c *AlertServiceClient) ReportSms(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReportSmsMethod, in, opts...)
}

// GetAudioState invokes GetAudioState.
func (c *AlertServiceClient) GetAudioState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetAudioStateMethod, in, opts...)
}

// SetAudioState invokes SetAudioState.
func (c *AlertServiceClient) SetAudioState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SetAudioStateMethod, in, opts...)
}

func (c *AlertServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = new(structpb.Struct)
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// ReporterMetadataKey carries "user@host" of the process reporting an event.
const ReporterMetadataKey = "x-alert-reporter"
