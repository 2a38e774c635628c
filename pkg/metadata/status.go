package metadata

import "fmt"

type Status string

const (
	StatusAvailable  Status = "available"
	StatusCheckedOut Status = "checked_out"
	StatusOnHold     Status = "on_hold"
	StatusLost       Status = "lost"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusOnHold, StatusLost:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
