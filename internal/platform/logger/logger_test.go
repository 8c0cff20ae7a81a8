package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs_RedactsSensitiveKeys(t *testing.T) {
	redactOnce.Do(func() {})
	redactionEnabled = true

	out := sanitizeKVs([]interface{}{
		"token", "abc123",
		"email", "kid@example.com",
		"room", "org_s1",
	})
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("sensitive values survived: %v", out)
	}
	if out[5] != "org_s1" {
		t.Fatalf("benign value was altered: %v", out[5])
	}
}

func TestSanitizeKVs_HashesUserIDs(t *testing.T) {
	redactOnce.Do(func() {})
	redactionEnabled = true

	out := sanitizeKVs([]interface{}{"user_id", "u123"})
	hashed, ok := out[1].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") {
		t.Fatalf("expected hashed user id, got %v", out[1])
	}
	if strings.Contains(hashed, "u123") {
		t.Fatalf("raw user id leaked: %v", hashed)
	}

	again := sanitizeKVs([]interface{}{"user_id", "u123"})
	if again[1] != out[1] {
		t.Fatalf("hashing must be stable for correlation: %v vs %v", again[1], out[1])
	}
}

func TestSanitizeValue_RedactsJWTShapedStrings(t *testing.T) {
	redactOnce.Do(func() {})
	redactionEnabled = true

	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1MSJ9.signature"
	if got := sanitizeValue("detail", jwt); got != "[REDACTED]" {
		t.Fatalf("jwt-shaped string survived: %v", got)
	}
	if got := sanitizeValue("detail", "plain text"); got != "plain text" {
		t.Fatalf("plain string was altered: %v", got)
	}
}

func TestSanitizeValue_WalksNestedMaps(t *testing.T) {
	redactOnce.Do(func() {})
	redactionEnabled = true

	nested := map[string]interface{}{
		"password": "hunter2",
		"note":     "ok",
	}
	out, ok := sanitizeValue("payload", nested).(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", out)
	}
	if out["password"] != "[REDACTED]" {
		t.Fatalf("nested password survived: %v", out)
	}
	if out["note"] != "ok" {
		t.Fatalf("benign nested value altered: %v", out)
	}
}

func TestNew_BuildsBothModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("component", "test").Debug("hello", "room", "org_s1")
		log.Sync()
	}
}
