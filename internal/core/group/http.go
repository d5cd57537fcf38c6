// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sherry00124/ImChat/internal/platform/constants"
	requestutil "github.com/Sherry00124/ImChat/internal/platform/request"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
	"github.com/Sherry00124/ImChat/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for groups.
type Handler struct {
	service *Service
}

// NewHandler constructs a new group [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the group endpoints. Every route expects an authenticated caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGroups)
	router.Post("/", handler.createGroup)
	router.Get("/joined", handler.listJoined)

	router.Route("/{id}", func(subRouter chi.Router) {
		subRouter.Patch("/", handler.updateGroup)
		subRouter.Post("/members", handler.joinGroup)
		subRouter.Get("/messages", handler.getHistory)
		subRouter.Post("/messages", handler.postMessage)
	})

	return router
}

// # Read Endpoints

/*
GET /api/v1/groups?ids=a,b or /api/v1/groups?q=name.

Description: Batch lookup when "ids" is present, name search otherwise.
*/
func (handler *Handler) listGroups(writer http.ResponseWriter, request *http.Request) {
	if ids := requestutil.CSV(request, FieldIDs); len(ids) > 0 {
		groups, err := handler.service.GetGroups(request.Context(), ids)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, groups)
		return
	}

	query := request.URL.Query().Get(FieldQuery)
	if query == "" {
		respond.Error(writer, request, validate.RequiredError(FieldQuery, "Provide ids or q"))
		return
	}

	groups, err := handler.service.SearchGroups(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, groups)
}

// GET /api/v1/groups/joined.
func (handler *Handler) listJoined(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	members, err := handler.service.ListUserGroups(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, members)
}

/*
GET /api/v1/groups/{id}/messages?offset=&limit=.

Description: One page of history, oldest first, plus the senders on the page.

Response:
  - 200: History
  - 403: NOT_A_MEMBER
*/
func (handler *Handler) getHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	window := pagination.FromRequest(request, constants.DefaultHistoryPageSize)
	history, err := handler.service.GetHistory(request.Context(), userID, requestutil.Param(request, "id"), window.Offset, window.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, history, pagination.NewMeta(window, len(history.Messages)))
}

// # Write Endpoints

type createGroupRequest struct {
	Name string `json:"name"`
}

// POST /api/v1/groups.
func (handler *Handler) createGroup(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGroupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.service.CreateGroup(request.Context(), userID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, group)
}

type updateGroupRequest struct {
	Name   *string `json:"name"`
	Notice *string `json:"notice"`
}

/*
PATCH /api/v1/groups/{id}.

Response:
  - 200: Group
  - 403: FORBIDDEN when the caller is neither owner nor admin
*/
func (handler *Handler) updateGroup(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateGroupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.service.UpdateGroup(request.Context(), caller, requestutil.Param(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, group)
}

// POST /api/v1/groups/{id}/members.
func (handler *Handler) joinGroup(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.service.JoinGroup(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, member)
}

type postMessageRequest struct {
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
}

// POST /api/v1/groups/{id}/messages.
func (handler *Handler) postMessage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postMessageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.PostMessage(request.Context(), userID, requestutil.Param(request, "id"), input.Content, input.MessageType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, message)
}
