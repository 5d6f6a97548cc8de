package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("VT_INT", "42")
	t.Setenv("VT_BAD_INT", "forty")
	t.Setenv("VT_FLOAT", "0.25")
	t.Setenv("VT_BOOL", "yes")
	t.Setenv("VT_STR", "  hello ")
	t.Setenv("VT_SECS", "0")

	if got := Int("VT_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := Int("VT_BAD_INT", 7); got != 7 {
		t.Fatalf("Int(bad) = %d", got)
	}
	if got := Float("VT_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float = %v", got)
	}
	if !Bool("VT_BOOL", false) || Bool("VT_MISSING", false) {
		t.Fatalf("Bool mismatch")
	}
	if got := String("VT_STR", "x"); got != "hello" {
		t.Fatalf("String = %q", got)
	}
	if got := Seconds("VT_SECS", 3*time.Second); got != 3*time.Second {
		t.Fatalf("Seconds = %v", got)
	}
}
