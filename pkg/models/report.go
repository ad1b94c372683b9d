package models

import "time"

const (
	RunStatusCompleted   = "completed"
	RunStatusInterrupted = "interrupted"
)

// Report is the final view of a run, taken after every worker has stopped.
type Report struct {
	Domain    string        `json:"domain" yaml:"domain"`
	Status    string        `json:"status" yaml:"status"`
	Tested    uint64        `json:"tested" yaml:"tested"`
	Found     []string      `json:"found" yaml:"found"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

func (r *Report) Interrupted() bool {
	return r.Status == RunStatusInterrupted
}
