// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package purge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Sherry00124/ImChat/internal/platform/request"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
)

// Handler exposes account purging to administrators.
type Handler struct {
	service *Service
}

// NewHandler constructs a new purge [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the admin account endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Delete("/{id}", handler.deleteAccount)
	return router
}

/*
DELETE /api/v1/admin/users/{id}.

Response:
  - 200: Report
  - 403: FORBIDDEN when the caller is not an admin
  - 409: CONFLICT while another purge of the account runs
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.DeleteAccount(request.Context(), caller, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}
