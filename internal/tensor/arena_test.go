package tensor

import (
	"strings"
	"testing"
)

func TestArena_Allocate(t *testing.T) {
	arena := NewArena(0)

	out, err := arena.Allocate(Shape{4, 3}, FormatHW)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !out.Shape().Equal(Shape{4, 3}) {
		t.Errorf("Expected shape [4 3], got %v", out.Shape())
	}
	if arena.Reserved() != 48 {
		t.Errorf("Expected 48 bytes reserved, got %d", arena.Reserved())
	}
}

func TestArena_FormatRankMismatch(t *testing.T) {
	arena := NewArena(0)

	if _, err := arena.Allocate(Shape{2, 3, 4}, FormatHW); err == nil {
		t.Error("Expected error for rank-3 shape with HW format")
	}
	if _, err := arena.Allocate(Shape{2, 3}, FormatHSW); err == nil {
		t.Error("Expected error for rank-2 shape with HSW format")
	}
}

func TestArena_OutOfMemory(t *testing.T) {
	arena := NewArena(64)

	if _, err := arena.Allocate(Shape{4, 3}, FormatHW); err != nil {
		t.Fatalf("First allocation should fit: %v", err)
	}
	_, err := arena.Allocate(Shape{4, 3}, FormatHW)
	if err == nil {
		t.Fatal("Expected out-of-memory error")
	}
	if !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("Unexpected error: %v", err)
	}
	// A failed allocation must not change the reservation.
	if arena.Reserved() != 48 {
		t.Errorf("Expected 48 bytes reserved after failure, got %d", arena.Reserved())
	}
}

func TestArena_InvalidShape(t *testing.T) {
	arena := NewArena(0)
	if _, err := arena.Allocate(Shape{0, 3}, FormatHW); err == nil {
		t.Error("Expected error for zero dimension")
	}
}

func TestFormatFor(t *testing.T) {
	for rank, want := range map[int]Format{2: FormatHW, 3: FormatHSW} {
		got, err := FormatFor(rank)
		if err != nil || got != want {
			t.Errorf("Rank %d: expected %v, got %v (%v)", rank, want, got, err)
		}
	}
	for _, rank := range []int{0, 1, 4} {
		if _, err := FormatFor(rank); err == nil {
			t.Errorf("Rank %d: expected error", rank)
		}
	}
}
