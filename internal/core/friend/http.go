// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package friend

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/constants"
	requestutil "github.com/Sherry00124/ImChat/internal/platform/request"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
	"github.com/Sherry00124/ImChat/pkg/pagination"
)

// Handler implements the HTTP layer for friendships.
type Handler struct {
	service *Service
}

// NewHandler constructs a new friend [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the friend endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listFriends)
	router.Post("/{id}", handler.addFriend)
	router.Get("/{id}/messages", handler.listMessages)
	router.Post("/{id}/messages", handler.sendMessage)

	return router
}

// GET /api/v1/friends.
func (handler *Handler) listFriends(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	friendships, err := handler.service.ListFriends(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, friendships)
}

// POST /api/v1/friends/{id}.
func (handler *Handler) addFriend(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddFriend(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/v1/friends/{id}/messages?offset=&limit=.
func (handler *Handler) listMessages(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	window := pagination.FromRequest(request, constants.DefaultHistoryPageSize)
	messages, err := handler.service.ListMessages(request.Context(), userID, requestutil.Param(request, "id"), window.Offset, window.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, messages, pagination.NewMeta(window, len(messages)))
}

type sendMessageRequest struct {
	Content     string            `json:"content"`
	MessageType group.MessageType `json:"message_type"`
}

// POST /api/v1/friends/{id}/messages.
func (handler *Handler) sendMessage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input sendMessageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.SendMessage(request.Context(), userID, requestutil.Param(request, "id"), input.Content, input.MessageType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, message)
}
