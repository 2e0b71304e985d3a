package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func wrapEnvelope(key string, payload any) map[string]any {
	return map[string]any{key: payload}
}

func envelopeField(body []byte, key string) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, validationError(fmt.Sprintf("response body is empty, expected %q", key), nil)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, validationError("response body is not a JSON object", err)
	}

	field, found := envelope[key]
	if !found {
		return nil, validationError(fmt.Sprintf("response body does not contain %q", key), nil)
	}
	return field, nil
}

func decodeEnvelope(body []byte, key string, target any) error {
	field, err := envelopeField(body, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(field, target); err != nil {
		return validationError(fmt.Sprintf("failed to decode %q", key), err)
	}
	return nil
}

func decodeAny(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, validationError("payload is not valid JSON", err)
	}
	return value, nil
}
