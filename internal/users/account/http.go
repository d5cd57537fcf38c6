// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Sherry00124/ImChat/internal/platform/request"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
)

// Handler implements the HTTP layer for account profiles.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the account endpoints. Mount under an authenticated group.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listUsers)
	router.Get("/{id}", handler.getUser)
	router.Patch("/me/username", handler.updateUsername)
	router.Patch("/me/password", handler.updatePassword)

	return router
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: User
  - 404: NOT_FOUND
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetUser(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
GET /api/v1/users?ids=a,b or /api/v1/users?q=fragment.

Description: Batch lookup when "ids" is present, username search otherwise.
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	if ids := requestutil.CSV(request, "ids"); len(ids) > 0 {
		users, err := handler.accountService.GetUsers(request.Context(), ids)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, users)
		return
	}

	query := request.URL.Query().Get("q")
	if query == "" {
		respond.Error(writer, request, validate.RequiredError("q", "Provide ids or q"))
		return
	}

	users, err := handler.accountService.SearchUsers(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

/*
PATCH /api/v1/users/me/username.

Response:
  - 200: User with the new name
  - 409: CONFLICT when the name is taken
*/
func (handler *Handler) updateUsername(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUsernameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateUsername(request.Context(), userID, input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// PATCH /api/v1/users/me/password.
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.UpdatePassword(request.Context(), userID, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
