package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "expedition.api.v1alpha1.ExpeditionService"

// Method names
const (
	MethodStartExpedition          = "StartExpedition"
	MethodUpdateExpeditionProgress = "UpdateExpeditionProgress"
	MethodCompleteExpedition       = "CompleteExpedition"
	MethodCancelExpedition         = "CancelExpedition"
	MethodGetExpedition            = "GetExpedition"
	MethodListExpeditionHistory    = "ListExpeditionHistory"
	MethodGenerateEncounter        = "GenerateEncounter"
	MethodExecuteCombatAction      = "ExecuteCombatAction"
	MethodGetEncounter             = "GetEncounter"
)

// Methods lists every method of the service in declaration order
var Methods = []string{
	MethodStartExpedition,
	MethodUpdateExpeditionProgress,
	MethodCompleteExpedition,
	MethodCancelExpedition,
	MethodGetExpedition,
	MethodListExpeditionHistory,
	MethodGenerateEncounter,
	MethodExecuteCombatAction,
	MethodGetEncounter,
}

// FullMethod returns the gRPC path of a method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ExpeditionServiceServer is the server API. Requests and responses are
// google.protobuf.Struct; every response is an envelope.
type ExpeditionServiceServer interface {
	StartExpedition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateExpeditionProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteExpedition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelExpedition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetExpedition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListExpeditionHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExecuteCombatAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ExpeditionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ExpeditionServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ExpeditionServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the expedition service for grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExpeditionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodStartExpedition, ExpeditionServiceServer.StartExpedition),
		unary(MethodUpdateExpeditionProgress, ExpeditionServiceServer.UpdateExpeditionProgress),
		unary(MethodCompleteExpedition, ExpeditionServiceServer.CompleteExpedition),
		unary(MethodCancelExpedition, ExpeditionServiceServer.CancelExpedition),
		unary(MethodGetExpedition, ExpeditionServiceServer.GetExpedition),
		unary(MethodListExpeditionHistory, ExpeditionServiceServer.ListExpeditionHistory),
		unary(MethodGenerateEncounter, ExpeditionServiceServer.GenerateEncounter),
		unary(MethodExecuteCombatAction, ExpeditionServiceServer.ExecuteCombatAction),
		unary(MethodGetEncounter, ExpeditionServiceServer.GetEncounter),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "expedition/api/v1alpha1/expedition.proto",
}

// RegisterExpeditionServiceServer registers srv on s
func RegisterExpeditionServiceServer(s grpc.ServiceRegistrar, srv ExpeditionServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the expedition service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with the given request fields and decodes the envelope
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*Envelope, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return DecodeEnvelope(out)
}
