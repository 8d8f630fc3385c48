// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/canon/lib/transcode"
)

func parseJSONC(data []byte) (any, error) {
	return parseJSON(jsonc.ToJSON(data))
}

// parseJSON walks the token stream rather than unmarshaling into any,
// which would lose object key order and integer precision.
func parseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var b budget
	value, err := readJSONValue(decoder, &b)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("valuefile: empty JSON document")
		}
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("valuefile: trailing data after JSON value")
	}
	return value, nil
}

func readJSONValue(decoder *json.Decoder, b *budget) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if err := b.count(); err != nil {
		return nil, err
	}

	switch token := token.(type) {
	case nil, bool, string:
		return token, nil
	case json.Number:
		return jsonNumber(token)
	case json.Delim:
		if err := b.enter(); err != nil {
			return nil, err
		}
		defer b.leave()
		if token == '[' {
			return readJSONArray(decoder, b)
		}
		return readJSONObject(decoder, b)
	}
	return nil, fmt.Errorf("valuefile: unexpected JSON token %v", token)
}

func readJSONArray(decoder *json.Decoder, b *budget) (any, error) {
	items := transcode.List{}
	for decoder.More() {
		item, err := readJSONValue(decoder, b)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	// Closing bracket.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

// readJSONObject keeps the last value of a repeated key at the position
// of its first occurrence.
func readJSONObject(decoder *json.Decoder, b *budget) (any, error) {
	object := transcode.NewMap()
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("valuefile: JSON object key is %T", token)
		}
		value, err := readJSONValue(decoder, b)
		if err != nil {
			return nil, err
		}
		object.Set(key, value)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return object, nil
}

func jsonNumber(number json.Number) (any, error) {
	text := number.String()
	if !strings.ContainsAny(text, ".eE") {
		if value, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value, nil
		}
		value, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("valuefile: invalid JSON integer %q", text)
		}
		return value, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("valuefile: JSON number %q: %w", text, err)
	}
	return value, nil
}
