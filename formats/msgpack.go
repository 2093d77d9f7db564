package formats

import (
	"fmt"

	"github.com/hashicorp/go-msgpack/codec"
)

// Msgpack implements Encoder for MessagePack format
// Documents are encoded as an array of maps, matching what the server expects
type Msgpack struct{}

func (Msgpack) Format() string { return "msgpack" }

func (Msgpack) ContentType() string { return "application/msgpack" }

// Encode serializes documents as a MessagePack array of maps
func (Msgpack) Encode(docs []map[string]any) ([]byte, error) {
	var out []byte

	encoder := codec.NewEncoderBytes(&out, &codec.MsgpackHandle{})
	if err := encoder.Encode(docs); err != nil {
		return nil, fmt.Errorf("failed to encode documents: %w", err)
	}

	return out, nil
}
