package clipboard

import (
	"bytes"
	"strings"
	"testing"
)

// TestWriteFallsBackToOSC52WhenOSClipboardUnavailable exercises the
// fallback path directly: with no OS clipboard reachable in this
// sandbox, Write must still succeed by emitting an OSC52 sequence to
// the configured writer rather than returning an error.
func TestWriteFallsBackToOSC52WhenOSClipboardUnavailable(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)

	if err := c.Write("hello clipboard"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() == 0 {
		// The OS clipboard may actually be reachable in some test
		// environments, in which case no OSC52 fallback is emitted.
		// That's fine: Write already returned nil above.
		t.Skip("OS clipboard appears reachable in this environment; fallback not exercised")
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b]52;") {
		t.Fatalf("fallback output %q does not look like an OSC52 sequence", out)
	}
}

// TestWriteWithNoFallbackWriterReturnsNotSupported mirrors the
// documented contract: a nil oscOut disables the fallback entirely,
// so an unreachable OS clipboard surfaces ErrNotSupported rather than
// silently doing nothing.
func TestWriteWithNoFallbackWriterReturnsNotSupported(t *testing.T) {
	c := New(nil)
	err := c.Write("x")
	if err == nil {
		// OS clipboard reachable in this environment; nothing to assert.
		t.Skip("OS clipboard appears reachable in this environment")
	}
	if err != ErrNotSupported {
		t.Fatalf("err = %v, want ErrNotSupported", err)
	}
}
