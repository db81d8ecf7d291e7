package envutil

import (
	"testing"
	"time"
)

func TestString_TrimsAndDefaults(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_STR", "  hello  ")
	if got := String("ENVUTIL_TEST_STR", "def"); got != "hello" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := String("ENVUTIL_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("unexpected default: %q", got)
	}
	t.Setenv("ENVUTIL_TEST_STR_BLANK", "   ")
	if got := String("ENVUTIL_TEST_STR_BLANK", "def"); got != "def" {
		t.Fatalf("blank should fall back to default, got %q", got)
	}
}

func TestInt_IgnoresGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "12")
	if got := Int("ENVUTIL_TEST_INT", 3); got != 12 {
		t.Fatalf("unexpected value: %d", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", "not-a-number")
	if got := Int("ENVUTIL_TEST_INT", 3); got != 3 {
		t.Fatalf("garbage should fall back to default, got %d", got)
	}
}

func TestBool_AcceptedSpellings(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes", "Yes"} {
		t.Setenv("ENVUTIL_TEST_BOOL", v)
		if !Bool("ENVUTIL_TEST_BOOL", false) {
			t.Fatalf("%q should parse as true", v)
		}
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "0")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("0 should parse as false")
	}
	if !Bool("ENVUTIL_TEST_BOOL_MISSING", true) {
		t.Fatalf("missing should use default")
	}
}

func TestDurations_ClampNegative(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_SECS", "5")
	if got := DurationSeconds("ENVUTIL_TEST_SECS", 1); got != 5*time.Second {
		t.Fatalf("unexpected duration: %v", got)
	}
	t.Setenv("ENVUTIL_TEST_SECS", "-5")
	if got := DurationSeconds("ENVUTIL_TEST_SECS", 1); got != 0 {
		t.Fatalf("negative should clamp to zero, got %v", got)
	}
	if got := DurationMillis("ENVUTIL_TEST_MS_MISSING", 250); got != 250*time.Millisecond {
		t.Fatalf("unexpected default: %v", got)
	}
}
