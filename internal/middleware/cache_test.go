package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTeeWriterCapture(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &teeWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	if _, err := tw.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !tw.complete() {
		t.Fatal("5 bytes under a 10 byte limit should be complete")
	}
	if tw.buf.String() != "hello" {
		t.Fatalf("buf = %q", tw.buf.String())
	}
}

func TestTeeWriterOversizedIsNotComplete(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &teeWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	big := strings.Repeat("x", 20)
	if _, err := tw.Write([]byte(big)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// The client still gets the full body.
	if rec.Body.String() != big {
		t.Fatalf("client body = %q", rec.Body.String())
	}
	// But the capture is partial and must never be stored.
	if tw.complete() {
		t.Fatal("oversized response reported complete; a truncated body would be cached")
	}
	if tw.buf.Len() != 8 {
		t.Fatalf("capture kept %d bytes, want 8", tw.buf.Len())
	}
}

func TestTeeWriterNoLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &teeWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

	big := strings.Repeat("y", 4096)
	if _, err := tw.Write([]byte(big)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !tw.complete() || tw.buf.Len() != len(big) {
		t.Fatalf("unlimited capture: complete=%v len=%d", tw.complete(), tw.buf.Len())
	}
}

func TestEntryCodecRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"products":[]}`)

	payload, err := encodeEntry(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodeEntry: %v", err)
	}
	status, gotHdr, gotBody, ok := decodeEntry(payload)
	if !ok {
		t.Fatal("decodeEntry rejected valid payload")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if len(gotHdr["X-Custom"]) != 2 {
		t.Fatalf("X-Custom = %v", gotHdr["X-Custom"])
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestEntryCodecRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("not-an-entry")} {
		if _, _, _, ok := decodeEntry(bs); ok {
			t.Errorf("decodeEntry(%v) accepted garbage", bs)
		}
	}
}
