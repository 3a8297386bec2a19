package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCloseWindowRendersScript(t *testing.T) {
	var buf bytes.Buffer
	if err := CloseWindow().Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "window.close();") || !strings.HasPrefix(out, "<html>") {
		t.Fatalf("unexpected output: %s", out)
	}
}
