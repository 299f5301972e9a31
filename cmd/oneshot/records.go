package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oneshot-backend/internal/domains/profile/model"

	"gopkg.in/yaml.v3"
)

// readRecords loads one athlete record, or a list of them, from a JSON or
// YAML file. format "" picks the decoder from the file extension.
func readRecords(path, format string) ([]model.ProfileRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	switch format {
	case "json":
		return decodeJSON(data)
	case "yaml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func decodeJSON(data []byte) ([]model.ProfileRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.ProfileRequest
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return list, nil
	}

	var one model.ProfileRequest
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return []model.ProfileRequest{one}, nil
}

func decodeYAML(data []byte) ([]model.ProfileRequest, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("decode yaml: empty document")
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var list []model.ProfileRequest
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return list, nil
	}

	var one model.ProfileRequest
	if err := node.Decode(&one); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return []model.ProfileRequest{one}, nil
}
