package nfa

import "testing"

func TestTrackerStack(t *testing.T) {
	s := GetTrackerStack()
	defer PutTrackerStack(s)

	if s.Len() != 0 || s.Top() != nil {
		t.Fatal("pooled stack should be empty")
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop on empty stack should report false")
	}

	s.Push(Tracker{Ref: 1, Saved: 0})
	s.Push(Tracker{Ref: 4, Saved: 3})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	s.Top().Repeats = 2
	if s.At(1).Repeats != 2 {
		t.Error("Top() should allow in-place update")
	}

	tr, ok := s.Pop()
	if !ok || tr.Ref != 4 || tr.Repeats != 2 {
		t.Errorf("Pop() = %+v, %v", tr, ok)
	}
	if s.Top().Ref != 1 {
		t.Errorf("Top().Ref = %d, want 1", s.Top().Ref)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Error("Reset should drop every tracker")
	}
}

func TestTrackerStack_PoolReturnsEmpty(t *testing.T) {
	s := GetTrackerStack()
	s.Push(Tracker{Ref: 7})
	PutTrackerStack(s)
	PutTrackerStack(nil)

	s = GetTrackerStack()
	defer PutTrackerStack(s)
	if s.Len() != 0 {
		t.Errorf("stack from pool has %d trackers", s.Len())
	}
}
