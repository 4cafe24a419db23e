package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobpilot.v1.JobService"

const (
	fetchJobsMethod     = "/" + ServiceName + "/FetchJobs"
	getStatisticsMethod = "/" + ServiceName + "/GetStatistics"
)

// JobServiceServer is the server API of jobpilot.v1.JobService. Requests and
// responses are google.protobuf.Struct documents shaped like the HTTP JSON.
type JobServiceServer interface {
	FetchJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatistics(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// JobServiceDesc describes jobpilot.v1.JobService for grpc.Server.RegisterService.
var JobServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FetchJobs", Handler: unaryHandler(fetchJobsMethod, JobServiceServer.FetchJobs)},
		{MethodName: "GetStatistics", Handler: unaryHandler(getStatisticsMethod, JobServiceServer.GetStatistics)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobpilot/v1/job_service.proto",
}

// RegisterJobServiceServer registers srv on s.
func RegisterJobServiceServer(s grpc.ServiceRegistrar, srv JobServiceServer) {
	s.RegisterService(&JobServiceDesc, srv)
}

type unaryMethod func(JobServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JobServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JobServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a JobService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// FetchJobs calls jobpilot.v1.JobService/FetchJobs.
func (c *Client) FetchJobs(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fetchJobsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStatistics calls jobpilot.v1.JobService/GetStatistics.
func (c *Client) GetStatistics(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStatisticsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
