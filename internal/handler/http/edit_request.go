package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/editrequest"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EditRequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type editRequestHandlerImpl struct {
	editRequestService editrequest.EditRequestService
}

func NewEditRequestHandler(editRequestService editrequest.EditRequestService) EditRequestHandler {
	return &editRequestHandlerImpl{
		editRequestService: editRequestService,
	}
}

// Submit implements EditRequestHandler.
func (h *editRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID, err := callerEmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req editrequest.SubmitEditRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode edit request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.editRequestService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance edit request submitted", result)
}

func editRequestFilter(r *http.Request) (editrequest.EditRequestFilter, error) {
	employeeID, err := uuidQuery(r, "employee_id")
	if err != nil {
		return editrequest.EditRequestFilter{}, err
	}
	filter := editrequest.EditRequestFilter{
		Status:     optionalQuery(r, "status"),
		EmployeeID: employeeID,
		Date:       optionalQuery(r, "date"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter, nil
}

// requestID reads the {id} path parameter.
func requestID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := editrequest.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ListMine implements EditRequestHandler.
func (h *editRequestHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, err := callerEmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := editRequestFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.editRequestService.ListMine(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements EditRequestHandler.
func (h *editRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := editRequestFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.editRequestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements EditRequestHandler.
func (h *editRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.editRequestService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// decodeOptional decodes a JSON body, accepting an empty one.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Approve implements EditRequestHandler.
func (h *editRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := requestID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req editrequest.ApproveEditRequestRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	req.ReviewerID = identity.UserID

	result, err := h.editRequestService.Approve(r.Context(), req)
	if err != nil {
		if result.Outcome == editrequest.ApprovalPartial {
			response.ApprovalIncomplete(w, err, result)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance edit request approved", result)
}

// Reject implements EditRequestHandler.
func (h *editRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := requestID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req editrequest.RejectEditRequestRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	req.ReviewerID = identity.UserID

	result, err := h.editRequestService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance edit request rejected", result)
}
