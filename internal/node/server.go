package node

import (
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/five82/distav1/internal/transport"
)

// Server wraps a grpc.Server bound to one Service.
type Server struct {
	grpcServer *grpc.Server
	listenAddr string
}

// NewServer builds a Server listening on addr with maxConcurrent
// bounding simultaneous Encode RPCs.
func NewServer(addr string, svc *Service, maxConcurrent uint32) *Server {
	grpcServer := grpc.NewServer(transport.ServerOptions(maxConcurrent)...)
	transport.RegisterNodeServer(grpcServer, svc)
	return &Server{grpcServer: grpcServer, listenAddr: addr}
}

// Serve blocks, accepting connections until the listener errors or
// Stop is called.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops the server, waiting for in-flight RPCs to finish.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}
