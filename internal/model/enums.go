package model

type SerialStatus string

const (
	SerialStatusVerified SerialStatus = "verified"
	SerialStatusFake     SerialStatus = "fake"
	SerialStatusUnknown  SerialStatus = "unknown"
)

// SerialStatuses lists every status the serials table accepts.
var SerialStatuses = []SerialStatus{
	SerialStatusVerified,
	SerialStatusFake,
	SerialStatusUnknown,
}

func (s SerialStatus) Valid() bool {
	for _, status := range SerialStatuses {
		if s == status {
			return true
		}
	}
	return false
}
