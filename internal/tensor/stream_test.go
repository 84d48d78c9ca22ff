package tensor

import (
	"strings"
	"testing"
)

func TestStream_SubmissionOrder(t *testing.T) {
	s := NewStream()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		s.Launch("append", func() {
			got = append(got, i)
		})
	}
	if err := s.Synchronize(); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Out of order execution: %v", got)
		}
	}
}

func TestStream_FailureSurfacesAtSynchronize(t *testing.T) {
	s := NewStream()

	s.Launch("ok", func() {})
	s.Launch("boom", func() {
		panic("bad launch geometry")
	})

	ran := false
	// Launches after a failure are skipped.
	s.Launch("after", func() { ran = true })

	err := s.Synchronize()
	if err == nil {
		t.Fatal("Expected error from Synchronize")
	}
	if !strings.Contains(err.Error(), "boom") || !strings.Contains(err.Error(), "bad launch geometry") {
		t.Errorf("Unexpected error: %v", err)
	}
	if ran {
		t.Error("Launch after failure should have been skipped")
	}

	// Synchronize clears the failure; the stream is usable again.
	if err := s.Synchronize(); err != nil {
		t.Errorf("Second Synchronize should be clean, got %v", err)
	}
	s.Launch("after-sync", func() { ran = true })
	if err := s.Synchronize(); err != nil {
		t.Errorf("Synchronize: %v", err)
	}
	if !ran {
		t.Error("Stream should accept launches after the error was consumed")
	}
}
