package kafkarpc

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Serializer defines the interface for encoding envelopes before producing.
// Implementations can provide custom serialization logic (e.g., JSON, Protobuf, etc.).
type Serializer interface {
	// Serialize converts the input data to a byte slice
	Serialize(data interface{}) ([]byte, error)
}

// Deserializer defines the interface for decoding envelopes after consuming.
type Deserializer interface {
	// Deserialize converts a byte slice into the target data structure
	Deserialize(data []byte, target interface{}) error
}

// ==================== JSON Serializer ====================

// JSONSerializer implements Serializer using JSON encoding.
// This is the default serializer provided by the transport.
type JSONSerializer struct{}

// Serialize converts data to JSON bytes.
func (j *JSONSerializer) Serialize(data interface{}) ([]byte, error) {
	// If data is already []byte, return it directly
	if b, ok := data.([]byte); ok {
		return b, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("JSONSerializer: failed to serialize: %w", err)
	}
	return b, nil
}

// JSONDeserializer implements Deserializer using JSON decoding.
// This is the default deserializer provided by the transport.
type JSONDeserializer struct{}

// Deserialize converts JSON bytes to the target structure.
func (j *JSONDeserializer) Deserialize(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("JSONDeserializer: failed to deserialize: %w", err)
	}
	return nil
}

// ==================== String Serializer ====================

// StringSerializer implements Serializer for string data.
// This is useful for text-based payloads.
type StringSerializer struct{}

// Serialize converts data to bytes.
func (s *StringSerializer) Serialize(data interface{}) ([]byte, error) {
	if b, ok := data.([]byte); ok {
		return b, nil
	}
	if str, ok := data.(string); ok {
		return []byte(str), nil
	}
	return []byte(fmt.Sprintf("%v", data)), nil
}

// StringDeserializer implements Deserializer for string data.
type StringDeserializer struct{}

// Deserialize converts bytes to string.
func (s *StringDeserializer) Deserialize(data []byte, target interface{}) error {
	if strPtr, ok := target.(*string); ok {
		*strPtr = string(data)
		return nil
	}
	if bytesPtr, ok := target.(*[]byte); ok {
		*bytesPtr = data
		return nil
	}
	return fmt.Errorf("StringDeserializer: target must be *string or *[]byte, got %T", target)
}

// ==================== Gob Serializer ====================

// GobSerializer implements Serializer using Go's gob encoding.
// This is useful for Go-to-Go communication where both sides use the same types.
//
// Note: Gob encoding is Go-specific and not interoperable with other languages.
type GobSerializer struct{}

// Serialize converts data to gob bytes.
func (g *GobSerializer) Serialize(data interface{}) ([]byte, error) {
	if b, ok := data.([]byte); ok {
		return b, nil
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("GobSerializer: failed to encode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDeserializer implements Deserializer using Go's gob decoding.
type GobDeserializer struct{}

// Deserialize converts gob bytes to the target structure.
func (g *GobDeserializer) Deserialize(data []byte, target interface{}) error {
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("GobDeserializer: failed to decode: %w", err)
	}
	return nil
}

// ==================== NoOp Serializer ====================

// NoOpSerializer passes through byte slices without modification.
// Use this when you want to handle serialization yourself or work with raw bytes.
type NoOpSerializer struct{}

// Serialize returns the data as-is if it's a byte slice, otherwise returns an error.
func (n *NoOpSerializer) Serialize(data interface{}) ([]byte, error) {
	b, ok := data.([]byte)
	if !ok {
		return nil, fmt.Errorf("NoOpSerializer: requires []byte input, got %T", data)
	}
	return b, nil
}

// NoOpDeserializer does not perform any deserialization.
// The target must be a *[]byte to receive the raw bytes.
type NoOpDeserializer struct{}

// Deserialize copies the raw bytes to the target if it's a *[]byte.
func (n *NoOpDeserializer) Deserialize(data []byte, target interface{}) error {
	bytesPtr, ok := target.(*[]byte)
	if !ok {
		return fmt.Errorf("NoOpDeserializer: requires *[]byte target, got %T", target)
	}
	*bytesPtr = data
	return nil
}

// ==================== Protobuf Serializer ====================

// ProtobufSerializer implements Serializer for Protocol Buffer messages.
// Data must implement proto.Message unless a custom MarshalFunc is provided.
type ProtobufSerializer struct {
	// MarshalFunc overrides the default proto.Marshal when set.
	MarshalFunc func(interface{}) ([]byte, error)
}

// Serialize converts a protobuf message to bytes.
func (p *ProtobufSerializer) Serialize(data interface{}) ([]byte, error) {
	if b, ok := data.([]byte); ok {
		return b, nil
	}

	if p.MarshalFunc != nil {
		b, err := p.MarshalFunc(data)
		if err != nil {
			return nil, fmt.Errorf("ProtobufSerializer: failed to marshal: %w", err)
		}
		return b, nil
	}

	if msg, ok := data.(proto.Message); ok {
		b, err := proto.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("ProtobufSerializer: failed to marshal: %w", err)
		}
		return b, nil
	}

	return nil, fmt.Errorf("ProtobufSerializer: data must implement proto.Message or provide MarshalFunc, got %T", data)
}

// ProtobufDeserializer implements Deserializer for Protocol Buffer messages.
// The target must implement proto.Message unless a custom UnmarshalFunc is provided.
type ProtobufDeserializer struct {
	// UnmarshalFunc overrides the default proto.Unmarshal when set.
	UnmarshalFunc func([]byte, interface{}) error
}

// Deserialize converts protobuf bytes to the target structure.
func (p *ProtobufDeserializer) Deserialize(data []byte, target interface{}) error {
	if p.UnmarshalFunc != nil {
		if err := p.UnmarshalFunc(data, target); err != nil {
			return fmt.Errorf("ProtobufDeserializer: failed to unmarshal: %w", err)
		}
		return nil
	}

	if msg, ok := target.(proto.Message); ok {
		if err := proto.Unmarshal(data, msg); err != nil {
			return fmt.Errorf("ProtobufDeserializer: failed to unmarshal: %w", err)
		}
		return nil
	}

	return fmt.Errorf("ProtobufDeserializer: target must implement proto.Message or provide UnmarshalFunc, got %T", target)
}

// getDefaultSerializer returns the appropriate serializer based on the config's DataType
func getDefaultSerializer(dataType string) Serializer {
	switch dataType {
	case "string":
		return &StringSerializer{}
	case "gob":
		return &GobSerializer{}
	case "bytes":
		return &NoOpSerializer{}
	default:
		return &JSONSerializer{}
	}
}

// getDefaultDeserializer returns the appropriate deserializer based on the config's DataType
func getDefaultDeserializer(dataType string) Deserializer {
	switch dataType {
	case "string":
		return &StringDeserializer{}
	case "gob":
		return &GobDeserializer{}
	case "bytes":
		return &NoOpDeserializer{}
	default:
		return &JSONDeserializer{}
	}
}
