package output

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if p := FromContext(WithPrinter(context.Background(), &buf)); p.Writer() != &buf {
		t.Error("Writer() should return the buffer passed to WithPrinter")
	}
	if p := FromContext(context.Background()); p.Writer() != os.Stdout {
		t.Error("Writer() should default to os.Stdout")
	}
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)

	p.Print("Removed", " ")
	p.Printf("%d entries", 3)
	p.Println()
	if got, want := buf.String(), "Removed 3 entries\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrinter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := New(&buf).JSON(map[string]any{"key": `C:\src\<App>.sln`, "score": 21})
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	want := "{\n  \"key\": \"C:\\\\src\\\\<App>.sln\",\n  \"score\": 21\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON() wrote %q, want %q", got, want)
	}
}
