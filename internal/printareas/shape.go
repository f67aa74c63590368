package printareas

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape is the layout of a catalog variants response.
type Shape int

const (
	// ShapeEmpty covers absent, null and unparseable payloads.
	ShapeEmpty Shape = iota
	// ShapeVariantList is a bare array of variants.
	ShapeVariantList
	// ShapeVariantMap is an object keyed by variant id.
	ShapeVariantMap
	// ShapeProviderEnvelope is {"id":..,"title":..,"variants":[...]}.
	ShapeProviderEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeVariantList:
		return "variant_list"
	case ShapeVariantMap:
		return "variant_map"
	case ShapeProviderEnvelope:
		return "provider_envelope"
	default:
		return "empty"
	}
}

// Classify inspects raw JSON once so that extraction never probes fields ad hoc.
func Classify(raw json.RawMessage) Shape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ShapeEmpty
	}
	switch trimmed[0] {
	case '[':
		return ShapeVariantList
	case '{':
		var envelope struct {
			Variants json.RawMessage `json:"variants"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return ShapeEmpty
		}
		if v := bytes.TrimSpace(envelope.Variants); len(v) > 0 && v[0] == '[' {
			return ShapeProviderEnvelope
		}
		return ShapeVariantMap
	default:
		return ShapeEmpty
	}
}

// variantPayloads returns the individual variant documents in source order.
func variantPayloads(raw json.RawMessage) ([]json.RawMessage, error) {
	switch Classify(raw) {
	case ShapeVariantList:
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode variant list: %w", err)
		}
		return list, nil
	case ShapeProviderEnvelope:
		var envelope struct {
			Variants []json.RawMessage `json:"variants"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode variants envelope: %w", err)
		}
		return envelope.Variants, nil
	case ShapeVariantMap:
		return objectValues(raw)
	default:
		return nil, nil
	}
}

// objectValues decodes a JSON object's values keeping key order, which a Go map would lose.
func objectValues(raw json.RawMessage) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode variant map: %w", err)
	}
	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode variant map key: %w", err)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode variant map value: %w", err)
		}
		values = append(values, value)
	}
	return values, nil
}
