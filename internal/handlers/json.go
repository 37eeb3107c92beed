package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// maxBodyBytes caps request bodies at 1 MiB
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON decodes an optional JSON object body. An empty body, or valid
// JSON that is not an object, leaves dst's fields absent; only malformed
// JSON is an error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, io.EOF) || errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// Loosely typed JSON values are coerced the way the web client expects:
// wrong types read as absent.

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// intValue reads a whole number, including numeric strings. A value that is
// present but not a whole number reads as 0 so range checks reject it.
func intValue(v interface{}) *int {
	var f float64
	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		f = value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return new(int)
		}
		f = parsed
	default:
		return new(int)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return new(int)
	}
	n := int(f)
	return &n
}

func boolValue(v interface{}) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return strs
}
