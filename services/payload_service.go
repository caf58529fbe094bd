package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrPayloadNotFound means the marker script never showed up within the
// locator timeout. The pipeline reports it and degrades to an empty menu.
var ErrPayloadNotFound = errors.New("structured payload not found on page")

var (
	// Any backslash not followed by a JSON-legal escape character gets
	// escaped again. The embedded blobs are generated markup, not trusted
	// JSON, and routinely carry stray backslashes.
	badEscapePattern     = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
	unicodeEscapePattern = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
)

// LocatePayload polls the platform's payload expression until the embedded
// blob shows up, bounded by timeout. This replaces a fixed post-load sleep
// with an explicit wait that returns as soon as the data is there.
func LocatePayload(ctx context.Context, page PageSource, platform Platform, timeout, interval time.Duration) (string, error) {
	var payload string
	err := WaitFor(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		var text string
		if err := page.Eval(ctx, platform.PayloadJS, &text); err != nil {
			// Evaluation hiccups mid-hydration are normal; keep polling.
			log.Printf("payload probe failed on %s: %v", platform.Name, err)
			return false, nil
		}
		if strings.TrimSpace(text) == "" {
			return false, nil
		}
		payload = text
		return true, nil
	})
	if err != nil {
		return "", ErrPayloadNotFound
	}
	return payload, nil
}

// SanitizePayload slices raw text down to its outermost brace span and
// repairs the near-JSON quirks the storefronts ship: invalid backslash
// escapes and literal \uXXXX sequences.
func SanitizePayload(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in payload text")
	}
	jsonStr := raw[start : end+1]

	jsonStr = badEscapePattern.ReplaceAllString(jsonStr, `\\$1`)
	jsonStr = decodeUnicodeEscapes(jsonStr)

	return jsonStr, nil
}

// decodeUnicodeEscapes turns literal \uXXXX sequences into their runes. The
// blobs arrive double-encoded often enough that leaving this to the JSON
// decoder loses the characters.
func decodeUnicodeEscapes(s string) string {
	return unicodeEscapePattern.ReplaceAllStringFunc(s, func(match string) string {
		code, err := strconv.ParseUint(match[2:], 16, 32)
		if err != nil {
			return match
		}
		r := rune(code)
		// Keep structural characters escaped or the decode would corrupt
		// the surrounding JSON.
		if r == '"' || r == '\\' || r < 0x20 {
			return match
		}
		return string(r)
	})
}

// ParsePayload sanitizes and parses an embedded blob into a generic tree.
// Parse failures are reported with the offending snippet and yield an empty
// tree; nothing escapes past the pipeline boundary.
func ParsePayload(raw string) (map[string]interface{}, error) {
	jsonStr, err := SanitizePayload(raw)
	if err != nil {
		return map[string]interface{}{}, err
	}

	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &tree); err != nil {
		return map[string]interface{}{}, fmt.Errorf("JSON decoding failed: %w (near %q)", err, errSnippet(jsonStr, err))
	}
	return tree, nil
}

func errSnippet(jsonStr string, err error) string {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		if len(jsonStr) > 40 {
			return jsonStr[:40]
		}
		return jsonStr
	}
	start := int(syntaxErr.Offset) - 20
	if start < 0 {
		start = 0
	}
	end := int(syntaxErr.Offset) + 20
	if end > len(jsonStr) {
		end = len(jsonStr)
	}
	return jsonStr[start:end]
}

// The lookup helpers below give the mappers default-on-missing semantics: an
// absent path degrades to an empty container or zero value, never an error.

func asMap(v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}

func asSlice(v interface{}) []interface{} {
	s, ok := v.([]interface{})
	if !ok {
		return nil
	}
	return s
}

func getMap(m map[string]interface{}, key string) map[string]interface{} {
	return asMap(m[key])
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	return asSlice(m[key])
}

func getString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

func getPath(m map[string]interface{}, path ...string) interface{} {
	var current interface{} = m
	for _, key := range path {
		current = asMap(current)[key]
	}
	return current
}
