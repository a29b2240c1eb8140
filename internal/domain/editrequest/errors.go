package editrequest

import "errors"

var (
	ErrEditRequestNotFound         = errors.New("attendance edit request not found")
	ErrEditRequestAlreadyProcessed = errors.New("attendance edit request has already been approved or rejected")
	ErrDateMismatch                = errors.New("punch_in does not fall on the requested date")
	ErrApprovalIncomplete          = errors.New("attendance updated but edit request could not be marked approved")
)
