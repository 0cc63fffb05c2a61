package formatter

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// BuildMsgPack serializes a response to MessagePack with the same field
// names as the JSON form
func (rb *responseBuilder) BuildMsgPack(res any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
