package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenericMessage is shown when no response was received or it could not be understood.
const GenericMessage = "An unexpected error occurred."

// Message derives the single user-facing message for a failed response:
//
//  1. a plain text body (or a JSON string) verbatim
//  2. the "message" field of a JSON object
//  3. the first value of a JSON object, or the first element of an array
//  4. "Server Error: <code> - <text>"
func Message(status int, statusText string, body []byte) string {
	if msg := bodyMessage(body); strings.TrimSpace(msg) != "" {
		return msg
	}
	return fmt.Sprintf("Server Error: %d - %s", status, statusText)
}

// StatusText returns the reason phrase of resp, preferring what the server sent.
func StatusText(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func bodyMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if !json.Valid(trimmed) {
		return string(body)
	}

	switch trimmed[0] {
	case '"':
		var s string
		_ = json.Unmarshal(trimmed, &s)
		return s
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return ""
		}
		if raw, ok := obj["message"]; ok {
			if msg := render(raw); strings.TrimSpace(msg) != "" {
				return msg
			}
		}
		return firstValue(trimmed)
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil || len(arr) == 0 {
			return ""
		}
		return render(arr[0])
	default:
		// numbers, booleans and null carry nothing readable
		return ""
	}
}

// firstValue returns the value of the first key of a JSON object in document
// order, which a map cannot preserve.
func firstValue(obj []byte) string {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return ""
	}
	if !dec.More() {
		return ""
	}
	if _, err := dec.Token(); err != nil {
		return ""
	}
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return ""
	}
	return render(raw)
}

func render(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func readBody(r io.Reader) []byte {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return b
}

const maxErrorBody = 1 << 20
