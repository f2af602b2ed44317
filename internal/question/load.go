package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnswerKey is a prepared set of suggestions keyed by question id or
// number. It stands in for a remote model when solving offline.
type AnswerKey struct {
	Version int        `json:"version" yaml:"version"`
	Answers []KeyEntry `json:"answers" yaml:"answers"`
}

// KeyEntry is one prepared answer.
type KeyEntry struct {
	Question   string `json:"question,omitempty" yaml:"question,omitempty"`
	Number     int    `json:"number,omitempty" yaml:"number,omitempty"`
	Suggestion `yaml:",inline"`
}

// Lookup returns the entry for q, matching the id first and the host
// number second.
func (key AnswerKey) Lookup(q Question) (Suggestion, bool) {
	for _, entry := range key.Answers {
		if entry.Question != "" && entry.Question == q.ID {
			return entry.Suggestion, true
		}
	}
	if q.Number > 0 {
		for _, entry := range key.Answers {
			if entry.Question == "" && entry.Number == q.Number {
				return entry.Suggestion, true
			}
		}
	}
	return Suggestion{}, false
}

// LoadAnswerKey reads, parses, and validates an answer key file.
func LoadAnswerKey(path string) (AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnswerKey{}, fmt.Errorf("read answer key: %w", err)
	}
	key, err := parseAnswerKey(data, path)
	if err != nil {
		return AnswerKey{}, err
	}
	normalized, err := NormalizeAnswerKey(key)
	if err != nil {
		return AnswerKey{}, err
	}
	return normalized, nil
}

func parseAnswerKey(data []byte, path string) (AnswerKey, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSONKey(data)
	}
	return parseYAMLKey(data)
}

func parseJSONKey(data []byte) (AnswerKey, error) {
	var key AnswerKey
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&key); err != nil {
		return AnswerKey{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return AnswerKey{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return AnswerKey{}, fmt.Errorf("parse json: %w", err)
	}
	return key, nil
}

func parseYAMLKey(data []byte) (AnswerKey, error) {
	var key AnswerKey
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&key); err != nil {
		return AnswerKey{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return AnswerKey{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return AnswerKey{}, fmt.Errorf("parse yaml: %w", err)
	}
	return key, nil
}
