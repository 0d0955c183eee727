package jobs

type JobType string

const (
	JobBorrowConfirmation JobType = "borrow_confirmation"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobBorrowConfirmation:
		return true
	default:
		return false
	}
}
