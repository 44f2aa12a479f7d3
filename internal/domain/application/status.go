package application

type Status string

const (
	StatusInProcess Status = "in_process"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusResubmit  Status = "resubmit"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProcess, StatusSubmitted, StatusApproved,
		StatusRejected, StatusResubmit, StatusCompleted:
		return true
	}
	return false
}

// IsDecision reports whether an admin may request s.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Remap turns an admin decision into the stored status. Work coming out of
// the submission pipeline is completed on approval and sent back for
// resubmission on rejection; any other current status takes the requested
// value as is.
func Remap(current, requested Status) Status {
	if current != StatusSubmitted && current != StatusResubmit {
		return requested
	}
	switch requested {
	case StatusApproved:
		return StatusCompleted
	case StatusRejected:
		return StatusResubmit
	}
	return requested
}
