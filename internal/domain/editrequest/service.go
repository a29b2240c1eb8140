package editrequest

import "context"

type EditRequestService interface {
	// Submit always creates a new pending request
	Submit(ctx context.Context, req SubmitEditRequestRequest) (EditRequestResponse, error)

	// List returns requests for review, pending by default
	List(ctx context.Context, filter EditRequestFilter) (ListEditRequestResponse, error)

	// ListMine returns the caller's own requests
	ListMine(ctx context.Context, employeeID string, filter EditRequestFilter) (ListEditRequestResponse, error)

	Get(ctx context.Context, id string) (EditRequestResponse, error)

	// Approve replays the proposed values onto the existing record
	Approve(ctx context.Context, req ApproveEditRequestRequest) (ApprovalResult, error)

	// Reject closes the request without touching the record
	Reject(ctx context.Context, req RejectEditRequestRequest) (EditRequestResponse, error)
}
