package estimator

import "time"

type Job struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

type JobAck struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type HealthInfo struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
