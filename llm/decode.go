package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject is returned when a payload holds no well-formed JSON object.
var ErrNoObject = errors.New("no JSON object found in response")

// DecodeObject decodes a model response into v and runs validate on it.
//
// The first attempt decodes the whole payload strictly. If that fails, a
// single repair pass extracts the first well-formed JSON object embedded in
// the text (code fences, prose around it) and decodes that once. There is no
// third attempt.
func DecodeObject(raw string, v any, validate func() error) error {
	firstErr := decodeAndValidate([]byte(strings.TrimSpace(raw)), v, validate)
	if firstErr == nil {
		return nil
	}

	obj, ok := ExtractObject(raw)
	if !ok {
		return fmt.Errorf("%w (strict decode: %v)", ErrNoObject, firstErr)
	}
	if err := decodeAndValidate([]byte(obj), v, validate); err != nil {
		return fmt.Errorf("repaired decode: %w (strict decode: %v)", err, firstErr)
	}
	return nil
}

func decodeAndValidate(data []byte, v any, validate func() error) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	if validate != nil {
		return validate()
	}
	return nil
}

// ExtractObject returns the first substring starting at a '{' that parses as
// a complete JSON object.
func ExtractObject(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		if len(obj) > 0 && obj[0] == '{' {
			return string(obj), true
		}
	}
	return "", false
}
