package store

import "testing"

func TestBackStackOrder(t *testing.T) {
	s := NewSession("1")
	s.PushBack(StepAwaitingPage)
	s.PushBack(StepChannelType)
	s.PushBack(StepEarnVisibility)

	step, ok := s.PopBack()
	if !ok || step != StepEarnVisibility {
		t.Fatalf("got %q ok=%v, want %q", step, ok, StepEarnVisibility)
	}
	step, _ = s.PopBack()
	if step != StepChannelType {
		t.Fatalf("got %q, want %q", step, StepChannelType)
	}
	step, _ = s.PopBack()
	if step != StepAwaitingPage {
		t.Fatalf("got %q, want %q", step, StepAwaitingPage)
	}
	if _, ok := s.PopBack(); ok {
		t.Fatal("pop on empty stack should report false")
	}
}

func TestResetClearsAnswers(t *testing.T) {
	s := NewSession("7")
	s.Step = StepConfirm
	s.Page = "/page"
	s.ChannelType = ChannelEarn
	s.EarnVisibility = VisibilityPrivate
	s.Handle = "creator"
	s.BulkHandles = []string{"a"}
	s.UID = "ab12f"
	s.PushBack(StepCampaign)

	s.Reset()

	if s.ID != "7" {
		t.Fatalf("reset must keep the id, got %q", s.ID)
	}
	if s.Step != StepAwaitingPage {
		t.Fatalf("got step %q, want %q", s.Step, StepAwaitingPage)
	}
	if s.Page != "" || s.ChannelType != "" || s.Handle != "" || s.UID != "" {
		t.Fatal("answers survived reset")
	}
	if len(s.BackStack) != 0 || len(s.BulkHandles) != 0 {
		t.Fatal("slices survived reset")
	}
}

func TestIsBulk(t *testing.T) {
	s := NewSession("1")
	if s.IsBulk() {
		t.Fatal("fresh session is not bulk")
	}
	s.HandleMode = ModeBulk
	if s.IsBulk() {
		t.Fatal("bulk mode without handles is not bulk yet")
	}
	s.BulkHandles = []string{"a", "b"}
	if !s.IsBulk() {
		t.Fatal("bulk mode with handles is bulk")
	}
}
