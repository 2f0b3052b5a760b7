package transport

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	_ "google.golang.org/grpc/encoding/gzip" // registers the gzip compressor by side effect
)

// ServiceName is the fully qualified gRPC service name, used only as a
// label since there is no .proto file to derive it from.
const ServiceName = "distav1.Node"

// MaxMessageBytes raises grpc's default 4 MiB cap; encoded segments are
// routinely larger than that.
const MaxMessageBytes = 256 * 1024 * 1024

// TimeoutForSegment returns the RPC deadline for a segment of the given
// duration: 60x realtime, per spec.md §5.
func TimeoutForSegment(segmentDuration time.Duration) time.Duration {
	const realtimeMultiple = 60
	d := segmentDuration * realtimeMultiple
	const floor = 30 * time.Second
	if d < floor {
		return floor
	}
	return d
}

// NodeServer is implemented by internal/node to handle Encode RPCs.
type NodeServer interface {
	Encode(ctx context.Context, req *EncodeRequest) (*EncodeResponse, error)
}

// NodeClient is implemented by the generated stub the Dispatcher calls
// through.
type NodeClient interface {
	Encode(ctx context.Context, in *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error)
}

type nodeClient struct {
	cc grpc.ClientConnInterface
}

// NewNodeClient wraps a ClientConn as a NodeClient.
func NewNodeClient(cc grpc.ClientConnInterface) NodeClient {
	return &nodeClient{cc: cc}
}

func (c *nodeClient) Encode(ctx context.Context, in *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error) {
	out := new(EncodeResponse)
	callOpts := append([]grpc.CallOption{
		grpc.CallContentSubtype(jsonCodecName),
		grpc.UseCompressor("gzip"),
	}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Encode", in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterNodeServer attaches srv's Encode method to a grpc.Server.
func RegisterNodeServer(s grpc.ServiceRegistrar, srv NodeServer) {
	s.RegisterService(&serviceDesc, srv)
}

func encodeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EncodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Encode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Encode"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServer).Encode(ctx, req.(*EncodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Encode",
			Handler:    encodeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/transport/service.go",
}

// DialOptions returns the client-side dial options common to every
// connection to a node: the JSON codec's default call options, raised
// message size limits, and an insecure transport credential (nodes are
// assumed to run on a trusted LAN, per spec.md's scope).
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.CallContentSubtype(jsonCodecName),
			grpc.UseCompressor("gzip"),
			grpc.MaxCallRecvMsgSize(MaxMessageBytes),
			grpc.MaxCallSendMsgSize(MaxMessageBytes),
		),
	}
}

// ServerOptions returns the server-side options common to every node:
// raised message size limits and a cap on concurrent streams so one
// node's subprocess fan-out stays bounded.
func ServerOptions(maxConcurrentStreams uint32) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(MaxMessageBytes),
		grpc.MaxSendMsgSize(MaxMessageBytes),
		grpc.MaxConcurrentStreams(maxConcurrentStreams),
	}
}
