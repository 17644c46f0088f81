package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
)

// Codec converts values to and from their on-disk bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the structured encoder used for every payload.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// CBORCodec is the object serializer for values JSON does not round-trip,
// such as maps with non-string keys or time values at full precision.
type CBORCodec struct{}

func (CBORCodec) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (CBORCodec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// encodePayload produces the file body for v. When serialize is set the
// object serializer runs first and its output is wrapped by the structured
// encoder as an opaque string.
func (s *Store) encodePayload(v any, serialize bool) ([]byte, error) {
	if !serialize {
		data, err := s.codec.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding value: %w", err)
		}
		return data, nil
	}
	blob, err := s.serializer.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing value: %w", err)
	}
	data, err := s.codec.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("encoding serialized value: %w", err)
	}
	return data, nil
}

func (s *Store) decodePayload(data []byte, dst any, deserialize bool) error {
	if dst == nil {
		return nil
	}
	if !deserialize {
		if err := s.codec.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("decoding value: %w", err)
		}
		return nil
	}
	var blob []byte
	if err := s.codec.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("decoding serialized value: %w", err)
	}
	if err := s.serializer.Unmarshal(blob, dst); err != nil {
		return fmt.Errorf("deserializing value: %w", err)
	}
	return nil
}
