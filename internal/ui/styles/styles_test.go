package styles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestColorEnabled(t *testing.T) {
	t.Run("buffer", func(t *testing.T) {
		if ColorEnabled(&bytes.Buffer{}) {
			t.Error("ColorEnabled(buffer) = true, want false")
		}
	})

	t.Run("regular file", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "out"))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if ColorEnabled(f) {
			t.Error("ColorEnabled(file) = true, want false")
		}
	})

	t.Run("NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if ColorEnabled(os.Stdout) {
			t.Error("ColorEnabled() = true with NO_COLOR set")
		}
	})
}

func TestMatchHighlightStyle(t *testing.T) {
	t.Parallel()

	got := MatchHighlightStyle().Render("a")
	if got == "a" {
		t.Error("MatchHighlightStyle should add styling")
	}
}

func TestWriter_StripsWhenNotTerminal(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")

	var buf bytes.Buffer
	if _, err := Writer(&buf).Write([]byte(MatchHighlightStyle().Render("api"))); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "api" {
		t.Errorf("Writer() wrote %q, want plain %q", got, "api")
	}
}
