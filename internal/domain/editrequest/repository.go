package editrequest

import "context"

type EditRequestRepository interface {
	Create(ctx context.Context, req EditRequest) (EditRequest, error)

	// GetByID returns ErrEditRequestNotFound when no request exists.
	GetByID(ctx context.Context, id string) (EditRequest, error)

	// GetByIDForUpdate is GetByID holding a row lock until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (EditRequest, error)

	// List returns requests joined with the employee's username and code
	List(ctx context.Context, filter EditRequestFilter) ([]EditRequest, int64, error)

	// MarkReviewed moves a pending request to status. It returns
	// ErrEditRequestAlreadyProcessed when the request is no longer pending.
	MarkReviewed(ctx context.Context, id string, status Status, action AdminAction) error
}
