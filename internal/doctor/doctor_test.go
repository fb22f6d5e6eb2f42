package doctor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

type stubSection struct {
	name string
	err  error
}

func (s *stubSection) Name() string { return s.name }

func (s *stubSection) Print(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	fmt.Fprintf(w, "ok: %s\n", s.name)
	return nil
}

func TestRegistryOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSection{name: "Tools"})
	reg.Register(&stubSection{name: "Git"})

	sections := reg.Sections()
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Name() != "Tools" || sections[1].Name() != "Git" {
		t.Error("sections should keep registration order")
	}
}

func TestRunContinuesPastFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSection{name: "Broken", err: errors.New("probe failed")})
	reg.Register(&stubSection{name: "Git"})

	var buf bytes.Buffer
	reg.Run(&buf)

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("probe failed")) {
		t.Errorf("failure not reported: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("ok: Git")) {
		t.Errorf("later section skipped after failure: %q", out)
	}
}
