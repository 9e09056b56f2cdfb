// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package protodef

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Parse unmarshals a YAML protocol definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	return &def, nil
}

// ParseJSONC strips JSONC comments and trailing commas from data,
// then unmarshals the result. The accepted structure is identical to
// the YAML form.
func ParseJSONC(data []byte) (*Definition, error) {
	stripped := jsonc.ToJSON(data)

	var def Definition
	if err := json.Unmarshal(stripped, &def); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	return &def, nil
}

// ReadFile loads a definition from disk, selecting the parser by
// file extension: .yaml/.yml for YAML, .json/.jsonc for JSONC.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var def *Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		def, err = Parse(data)
	case ".json", ".jsonc":
		def, err = ParseJSONC(data)
	default:
		return nil, fmt.Errorf("%s: unsupported definition extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
