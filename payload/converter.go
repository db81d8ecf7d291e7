package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/converter"
)

// jsonConverter is the canonical JSON leg: compact output with HTML
// escaping off, so equal values always produce identical payload bytes.
type jsonConverter struct{}

var _ converter.PayloadConverter = jsonConverter{}

func (jsonConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("payload: encode json: %w", err)
	}
	return &commonpb.Payload{
		Metadata: map[string][]byte{
			converter.MetadataEncoding: []byte(converter.MetadataEncodingJSON),
		},
		Data: bytes.TrimRight(buf.Bytes(), "\n"),
	}, nil
}

func (jsonConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	if payload == nil {
		return fmt.Errorf("payload: decode json: nil payload")
	}
	if err := json.Unmarshal(payload.Data, valuePtr); err != nil {
		return fmt.Errorf("payload: decode json: %w", err)
	}
	return nil
}

func (jsonConverter) ToString(payload *commonpb.Payload) string {
	if payload == nil {
		return ""
	}
	return string(payload.Data)
}

func (jsonConverter) Encoding() string {
	return converter.MetadataEncodingJSON
}

// DataConverter returns the composite converter clients and workers should
// use: the standard chain with the JSON leg swapped for the canonical
// encoder above. Nil, byte slices and proto messages keep their native
// encodings so only plain values run through JSON.
func DataConverter() converter.DataConverter {
	return converter.NewCompositeDataConverter(
		converter.NewNilPayloadConverter(),
		converter.NewByteSlicePayloadConverter(),
		converter.NewProtoJSONPayloadConverter(),
		converter.NewProtoPayloadConverter(),
		jsonConverter{},
	)
}
