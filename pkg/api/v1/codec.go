package apiv1

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec encodes messages with encoding/json. It registers under the
// name "json", replacing Connect's protobuf-JSON codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal accepts an empty body as an empty message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON configures a Connect handler or client to use JSONCodec.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
