package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress.Increment()
		}()
	}
	wg.Wait()
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Linting:") {
		t.Error("expected progress output to contain 'Linting:'")
	}
	if !strings.Contains(output, "(4/4)") {
		t.Errorf("expected final count in output, got %q", output)
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Increment()
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}
