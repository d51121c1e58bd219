package logging

import (
	"encoding/json"
	"testing"
)

func TestMaskHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		value    string
		expected string
	}{
		// Password/secret headers (full redaction)
		{"password header", "Password", "secret123", "[REDACTED]"},
		{"header containing password", "X-Password", "mypass", "[REDACTED]"},
		{"secret header", "X-Secret", "topsecret", "[REDACTED]"},
		{"session secret", "X-Session-Secret", "topsecret", "[REDACTED]"},

		// Token headers (last 4 chars)
		{"authorization bearer", "Authorization", "Bearer token-value-1234", "****1234"},
		{"cookie header", "Cookie", "session=abcdef123456", "****3456"},
		{"short token", "Authorization", "abc", "****"},

		// Case insensitive
		{"mixed case auth", "AUTHORIZATION", "secret-abcd", "****abcd"},
		{"lowercase auth", "authorization", "mysecret9999", "****9999"},
		{"mixed case password", "password", "pass123", "[REDACTED]"},

		// Non-sensitive headers (unchanged)
		{"content-type", "Content-Type", "application/json", "application/json"},
		{"user-agent", "User-Agent", "test-client/1.0", "test-client/1.0"},
		{"custom header", "X-Custom", "value", "value"},
		{"accept", "Accept", "application/json", "application/json"},

		// Edge cases
		{"empty value", "Authorization", "", "****"},
		{"four char value", "Authorization", "1234", "****1234"},
		{"five char value", "Authorization", "12345", "****2345"},
		{"single char value", "Authorization", "a", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MaskHeader(tt.header, tt.value)
			if result != tt.expected {
				t.Errorf("MaskHeader(%q, %q) = %q, want %q",
					tt.header, tt.value, result, tt.expected)
			}
		})
	}
}

func TestMaskJSONBody(t *testing.T) {
	t.Run("nil allowlist returns body unchanged", func(t *testing.T) {
		body := []byte(`{"email":"a@b.com","password":"hunter22"}`)
		result := MaskJSONBody(body, nil)
		if string(result) != string(body) {
			t.Errorf("MaskJSONBody with nil allowlist = %s, want unchanged", result)
		}
	})

	t.Run("empty body returns empty", func(t *testing.T) {
		result := MaskJSONBody([]byte{}, []string{"email"})
		if len(result) != 0 {
			t.Errorf("MaskJSONBody on empty body = %s, want empty", result)
		}
	})

	t.Run("non-JSON body returned unchanged", func(t *testing.T) {
		body := []byte("not json at all")
		result := MaskJSONBody(body, []string{"email"})
		if string(result) != string(body) {
			t.Errorf("MaskJSONBody on non-JSON = %s, want unchanged", result)
		}
	})

	t.Run("password redacted, email preserved", func(t *testing.T) {
		body := []byte(`{"email":"a@b.com","password":"hunter22"}`)
		result := MaskJSONBody(body, []string{"email"})

		var parsed map[string]interface{}
		if err := json.Unmarshal(result, &parsed); err != nil {
			t.Fatalf("masked body not valid JSON: %v", err)
		}
		if parsed["email"] != "a@b.com" {
			t.Errorf("email = %v, want preserved", parsed["email"])
		}
		if parsed["password"] != "[REDACTED]" {
			t.Errorf("password = %v, want [REDACTED]", parsed["password"])
		}
	})

	t.Run("nested objects are recursed", func(t *testing.T) {
		body := []byte(`{"zone":{"title":"Davis","token":"secret"}}`)
		result := MaskJSONBody(body, []string{"title"})

		var parsed map[string]map[string]interface{}
		if err := json.Unmarshal(result, &parsed); err != nil {
			t.Fatalf("masked body not valid JSON: %v", err)
		}
		if parsed["zone"]["title"] != "Davis" {
			t.Errorf("nested title = %v, want preserved", parsed["zone"]["title"])
		}
		if parsed["zone"]["token"] != "[REDACTED]" {
			t.Errorf("nested token = %v, want [REDACTED]", parsed["zone"]["token"])
		}
	})

	t.Run("arrays keep their shape", func(t *testing.T) {
		body := []byte(`{"zones":[{"title":"A","key":"x"},{"title":"B","key":"y"}]}`)
		result := MaskJSONBody(body, []string{"title", "zones"})

		var parsed map[string][]map[string]interface{}
		if err := json.Unmarshal(result, &parsed); err != nil {
			t.Fatalf("masked body not valid JSON: %v", err)
		}
		if len(parsed["zones"]) != 2 {
			t.Fatalf("zones length = %d, want 2", len(parsed["zones"]))
		}
		if parsed["zones"][1]["title"] != "B" {
			t.Errorf("zones[1].title = %v, want B", parsed["zones"][1]["title"])
		}
		if parsed["zones"][0]["key"] != "[REDACTED]" {
			t.Errorf("zones[0].key = %v, want [REDACTED]", parsed["zones"][0]["key"])
		}
	})
}

func TestFormatBinaryData(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"empty", []byte{}, "[BINARY: 0 bytes]"},
		{"small", []byte{0x89, 0x50, 0x4e, 0x47}, "[BINARY: 4 bytes]"},
		{"larger", make([]byte, 1024), "[BINARY: 1024 bytes]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBinaryData(tt.data); got != tt.expected {
				t.Errorf("FormatBinaryData = %q, want %q", got, tt.expected)
			}
		})
	}
}
