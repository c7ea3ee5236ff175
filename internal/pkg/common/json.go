package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON decodes a JSON string holding exactly one value into v.
func ParseJSON(data string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}

	// trailing data means the input was not a single JSON value
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

// ErrNoJSON is returned when no extraction strategy yields a decodable object.
var ErrNoJSON = errors.New("no JSON object found in model output")

// JSONStrategy tries to decode one candidate region of raw model output into v.
type JSONStrategy struct {
	Name    string
	Extract func(raw string) (string, bool)
}

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// DefaultJSONStrategies is the order model output is tried in: the whole
// body, then a fenced code block, then the first-to-last brace substring.
var DefaultJSONStrategies = []JSONStrategy{
	{
		Name: "whole_body",
		Extract: func(raw string) (string, bool) {
			s := strings.TrimSpace(raw)
			return s, s != ""
		},
	},
	{
		Name: "fenced_block",
		Extract: func(raw string) (string, bool) {
			m := fencedBlockPattern.FindStringSubmatch(raw)
			if m == nil {
				return "", false
			}
			s := strings.TrimSpace(m[1])
			return s, s != ""
		},
	},
	{
		Name: "brace_substring",
		Extract: func(raw string) (string, bool) {
			start := strings.Index(raw, "{")
			end := strings.LastIndex(raw, "}")
			if start == -1 || end == -1 || end <= start {
				return "", false
			}
			return raw[start : end+1], true
		},
	},
}

// ExtractJSON runs strategies in order and stops at the first one whose
// candidate decodes into v. When all fail the last decode error is
// returned wrapped in ErrNoJSON.
func ExtractJSON(raw string, v interface{}, strategies ...JSONStrategy) error {
	if len(strategies) == 0 {
		strategies = DefaultJSONStrategies
	}
	var lastErr error
	for _, st := range strategies {
		candidate, ok := st.Extract(raw)
		if !ok {
			lastErr = fmt.Errorf("%s: no candidate", st.Name)
			continue
		}
		if err := ParseJSON(candidate, v); err != nil {
			lastErr = fmt.Errorf("%s: %w", st.Name, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNoJSON, lastErr)
}
