package quote

import "testing"

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusViewed, false},
		{StatusDraft, StatusAccepted, false},
		{StatusDraft, StatusConverted, false},
		{StatusSent, StatusViewed, true},
		{StatusSent, StatusAccepted, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusExpired, true},
		{StatusSent, StatusConverted, false},
		{StatusViewed, StatusAccepted, true},
		{StatusViewed, StatusRejected, true},
		{StatusViewed, StatusExpired, true},
		{StatusViewed, StatusSent, false},
		{StatusAccepted, StatusConverted, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusExpired, false},
		{StatusExpired, StatusSent, true},
		{StatusExpired, StatusAccepted, false},
		{StatusRejected, StatusSent, false},
		{StatusRejected, StatusDraft, false},
		{StatusConverted, StatusSent, false},
		{StatusConverted, StatusAccepted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []Status{StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusRejected, StatusExpired, StatusConverted}
	for _, to := range all {
		if CanTransition(StatusRejected, to) {
			t.Errorf("rejected must be terminal, allowed -> %s", to)
		}
		if CanTransition(StatusConverted, to) {
			t.Errorf("converted must be terminal, allowed -> %s", to)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus("accepted") {
		t.Fatal("accepted must be valid")
	}
	if ValidStatus("cancelled") {
		t.Fatal("cancelled is not a lifecycle state")
	}
	if ValidStatus("") {
		t.Fatal("empty status is invalid")
	}
}
