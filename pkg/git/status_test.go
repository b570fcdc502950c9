package git

import (
	"errors"
	"testing"
)

func TestStatusTerminal(t *testing.T) {
	terminalTests := []struct {
		kind  Kind
		state string
		want  bool
	}{
		{CommitStatuses, "pending", false},
		{CommitStatuses, "success", true},
		{CommitStatuses, "failure", true},
		{CommitStatuses, "error", true},
		{CheckRuns, "queued", false},
		{CheckRuns, "in_progress", false},
		{CheckRuns, "completed", true},
	}

	for _, tt := range terminalTests {
		s := &Status{Kind: tt.kind, State: tt.state}
		if got := s.Terminal(); got != tt.want {
			t.Errorf("Terminal() %s %#v got %v, want %v", tt.kind, tt.state, got, tt.want)
		}
	}
}

func TestFindStatus(t *testing.T) {
	first := &Status{Name: "ci", State: "success", Description: "first"}
	second := &Status{Name: "ci", State: "failure", Description: "second"}
	statuses := []*Status{{Name: "lint", State: "success"}, first, second}

	got, err := FindStatus(statuses, "ci", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Fatalf("FindStatus() got %#v, want %#v", got, first)
	}

	got, err = FindStatus(statuses, "ci", func(s *Status) (bool, error) {
		return s.State == "failure", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != second {
		t.Fatalf("FindStatus() got %#v, want %#v", got, second)
	}

	got, err = FindStatus(statuses, "unknown", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("FindStatus() got %#v, want nil", got)
	}

	got, err = FindStatus(nil, "ci", nil)
	if err != nil || got != nil {
		t.Fatalf("FindStatus() with no statuses got %#v, %v", got, err)
	}
}

func TestFindStatusWithMatchError(t *testing.T) {
	testErr := errors.New("bad match")
	_, err := FindStatus([]*Status{{Name: "ci"}}, "ci", func(s *Status) (bool, error) {
		return false, testErr
	})
	if err != testErr {
		t.Fatalf("FindStatus() got error %v, want %v", err, testErr)
	}
}
