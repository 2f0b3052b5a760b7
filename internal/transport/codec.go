package transport

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is registered with grpc's encoding registry so both the
// client and node negotiate it automatically; there is no generated
// protobuf marshaler to fall back to.
const jsonCodecName = "distav1json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals EncodeRequest/EncodeResponse as JSON. Segment
// payloads go over the wire base64-encoded inside the JSON object;
// grpc-level gzip compression (registered separately) keeps that
// overhead off the network.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("transport: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("transport: unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return jsonCodecName
}
