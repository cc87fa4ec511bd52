package timetable

// EntityCounts tallies successful mutations for one entity kind.
type EntityCounts struct {
	Inserted int `json:"inserted"`
	Revised  int `json:"revised"`
	Deleted  int `json:"deleted"`
}

// Report is the outcome of one apply pass: every error in the order it
// occurred plus per-entity mutation counts. The database reflects only the
// records that applied cleanly.
type Report struct {
	Errors       []ApplyError `json:"errors,omitempty"`
	Tiplocs      EntityCounts `json:"tiplocs"`
	Associations EntityCounts `json:"associations"`
	Schedules    EntityCounts `json:"schedules"`
}

// ErrorCount returns the number of records that failed to apply.
func (r *Report) ErrorCount() int { return len(r.Errors) }

func (r *Report) record(index, line int, err error) {
	r.Errors = append(r.Errors, ApplyError{Index: index, Line: line, Err: err})
}
