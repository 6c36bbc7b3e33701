package referrals

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the hiring pipeline stage of a referral.
type Status string

const (
	StatusReceived    Status = "received"
	StatusShortlisted Status = "shortlisted"
	StatusOnHold      Status = "on_hold"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

var statusLabels = map[Status]string{
	StatusReceived:    "Received",
	StatusShortlisted: "Shortlisted",
	StatusOnHold:      "On-hold",
	StatusRejected:    "Rejected",
	StatusHired:       "Hired",
}

// Statuses lists every status in pipeline order.
func Statuses() []Status {
	return []Status{StatusReceived, StatusShortlisted, StatusOnHold, StatusRejected, StatusHired}
}

// ParseStatus accepts the canonical names plus the backend's "onhold" and "on-hold" spellings.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "onhold", "on-hold":
		return StatusOnHold, nil
	}
	st := Status(norm)
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown referral status %q", s)
	}
	return st, nil
}

// Label is the human readable name shown on the dashboard.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// UnmarshalJSON normalises alternate spellings. Unknown values are kept verbatim
// so one odd row does not fail a whole list.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if st, err := ParseStatus(raw); err == nil {
		*s = st
		return nil
	}
	*s = Status(raw)
	return nil
}

// Bucket is the dashboard tab a referral belongs to.
type Bucket string

const (
	BucketNew     Bucket = "new"
	BucketActive  Bucket = "active"
	BucketHistory Bucket = "history"
)

// Bucket maps received to new, shortlisted and on hold to active, hired and rejected to history.
// Unknown statuses land in new so they stay visible.
func (s Status) Bucket() Bucket {
	switch s {
	case StatusShortlisted, StatusOnHold:
		return BucketActive
	case StatusHired, StatusRejected:
		return BucketHistory
	default:
		return BucketNew
	}
}
