package dispatch

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/five82/distav1/internal/errors"
)

// classifyRPCError turns a failed Encode call into the right CoreError
// kind. The node reports an encoder subprocess failure as
// codes.Aborted (internal/node); everything else is a transport-level
// problem, which is always treated as transient.
func classifyRPCError(index int, addr string, rpcCtx context.Context, err error) error {
	if st, ok := status.FromError(err); ok && st.Code() == codes.Aborted {
		return errors.NewEncodeFailedError(index, st.Message(), err)
	}
	if rpcCtx.Err() != nil {
		return errors.NewWorkerTimeoutError(index, fmt.Sprintf("worker %s did not respond in time", addr))
	}
	return errors.NewTransportError(index, fmt.Sprintf("RPC to %s failed", addr), err)
}
