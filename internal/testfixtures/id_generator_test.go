package testfixtures

import "testing"

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("room")
	if got := gen.Next(); got != "room-1" {
		t.Fatalf("first id = %q, want room-1", got)
	}
	if got := gen.Next(); got != "room-2" {
		t.Fatalf("second id = %q, want room-2", got)
	}
}

func TestIDGeneratorDefaultPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("id = %q, want id-1", got)
	}
}

func TestNilIDGeneratorYieldsEmpty(t *testing.T) {
	var gen *IDGenerator
	next := gen.NextFunc()
	if next == nil {
		t.Fatal("NextFunc on a nil generator must still return a function")
	}
	if got := next(); got != "" {
		t.Fatalf("nil generator produced %q", got)
	}
}
