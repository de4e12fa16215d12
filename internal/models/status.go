package models

import "fmt"

type Status string

const (
	StatusPending    Status = "en_attente"
	StatusInProgress Status = "en_cours"
	StatusResolved   Status = "resolue"
	StatusRejected   Status = "rejetee"
)

var AllStatuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

var statusLabels = map[Status]string{
	StatusPending:    "En attente",
	StatusInProgress: "En cours",
	StatusResolved:   "Résolue",
	StatusRejected:   "Rejetée",
}

// Resolved and rejected tickets can only be reopened, never moved to the other terminal state.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusResolved, StatusRejected},
	StatusInProgress: {StatusPending, StatusResolved, StatusRejected},
	StatusResolved:   {StatusInProgress, StatusPending},
	StatusRejected:   {StatusPending, StatusInProgress},
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransitionTo reports whether a write may move a ticket from s to next.
// Rewriting the current status is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return next.IsValid()
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", v)
	}
	return s, nil
}
