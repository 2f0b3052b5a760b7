// Package node implements the Node Service: the gRPC server side that
// receives one Encode RPC per segment, runs the transcoder subprocess,
// and returns the encoded bytes or a failure status.
package node

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/five82/distav1/internal/mediatool"
	"github.com/five82/distav1/internal/transport"
	"github.com/five82/distav1/internal/workspace"
)

// Service implements transport.NodeServer.
type Service struct {
	Tool mediatool.Tool
	WS   *workspace.Workspace
}

var _ transport.NodeServer = (*Service)(nil)

// Encode materializes the incoming segment, runs the transcoder with
// the caller's opaque parameter string, and returns the result. Both
// the input and output files are removed before returning, regardless
// of outcome.
func (s *Service) Encode(ctx context.Context, req *transport.EncodeRequest) (*transport.EncodeResponse, error) {
	inPath := s.WS.SegmentPath(req.SegmentIndex)
	outPath := s.WS.EncodedPath(req.SegmentIndex)
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := os.WriteFile(inPath, req.Payload, 0o644); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to stage segment %d: %v", req.SegmentIndex, err)
	}

	result := s.Tool.Encode(ctx, inPath, outPath, req.EncoderParams, 0, nil)
	if !result.Success {
		return nil, status.Error(codes.Aborted, formatEncodeFailure(req.SegmentIndex, result))
	}

	payload, err := os.ReadFile(outPath)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to read encoded output for segment %d: %v", req.SegmentIndex, err)
	}

	return &transport.EncodeResponse{SegmentIndex: req.SegmentIndex, Payload: payload}, nil
}

func formatEncodeFailure(index uint32, result mediatool.Result) string {
	if result.Stderr != "" {
		return fmt.Sprintf("encoder exited %d on segment %d: %s", result.ExitCode, index, result.Stderr)
	}
	return fmt.Sprintf("encoder exited %d on segment %d", result.ExitCode, index)
}
