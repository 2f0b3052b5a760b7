// Package transport defines the wire contract between client and node:
// one RPC, Encode, carrying a segment's bytes and an opaque encoder
// parameter string out, and the encoded bytes back. There is no .proto
// file; the service is registered by hand against grpc.ServiceDesc so
// the contract can evolve without a protoc toolchain.
package transport

// EncodeRequest is sent by the client for each dispatched segment.
type EncodeRequest struct {
	SegmentIndex  uint32 `json:"segment_index"`
	Payload       []byte `json:"payload"`
	EncoderParams string `json:"encoder_params"`
}

// EncodeResponse is returned by the node on a successful encode.
type EncodeResponse struct {
	SegmentIndex uint32 `json:"segment_index"`
	Payload      []byte `json:"payload"`
}
