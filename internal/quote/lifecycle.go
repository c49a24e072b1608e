package quote

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusViewed    Status = "viewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusConverted Status = "converted"
)

// transitions is the full lifecycle table. Absent entries are invalid,
// rejected and converted are terminal. An expired quote may be re-sent.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusRejected},
	StatusSent:     {StatusViewed, StatusAccepted, StatusRejected, StatusExpired},
	StatusViewed:   {StatusAccepted, StatusRejected, StatusExpired},
	StatusAccepted: {StatusConverted},
	StatusExpired:  {StatusSent},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusRejected, StatusExpired, StatusConverted:
		return true
	}
	return false
}
