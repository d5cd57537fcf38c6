// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group

import (
	stdctx "context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
)

// Input limits for group fields.
const (
	NameMaxLen    = 64
	NoticeMaxLen  = 500
	ContentMaxLen = 5000
	MaxBatchIDs   = 100
	SearchLimit   = 50
)

var tracer = otel.Tracer("github.com/Sherry00124/ImChat/internal/core/group")

// # Service Layer

// Service implements group reads, history access and group maintenance.
type Service struct {
	groups   GroupRepository
	members  MemberRepository
	messages MessageRepository
	profiles ProfileFinder
	tx       Transactor
	window   VisibilityWindow
	logger   *slog.Logger
	now      func() time.Time
}

// Dependencies bundles the ports a [Service] needs.
type Dependencies struct {
	Groups   GroupRepository
	Members  MemberRepository
	Messages MessageRepository
	Profiles ProfileFinder
	Tx       Transactor
}

// NewService constructs a group [Service] reading history through window.
func NewService(deps Dependencies, window VisibilityWindow, logger *slog.Logger) *Service {
	return &Service{
		groups:   deps.Groups,
		members:  deps.Members,
		messages: deps.Messages,
		profiles: deps.Profiles,
		tx:       deps.Tx,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// # History

/*
GetHistory returns one page of a group's messages as seen by callerID.

Flow:
 1. Look up the caller's membership. No membership is NOT_A_MEMBER.
 2. Compute the visibility floor from the join time.
 3. Fetch the page in ascending order.
 4. Resolve the distinct senders on the page.

The operation only reads, takes no locks and may run concurrently with any
other request.
*/
func (service *Service) GetHistory(context stdctx.Context, callerID, groupID string, offset, limit int) (*History, error) {
	context, span := tracer.Start(context, "group.GetHistory", trace.WithAttributes(
		attribute.String("group.id", groupID),
		attribute.Int("page.offset", offset),
		attribute.Int("page.limit", limit),
	))
	defer span.End()

	member, err := service.members.FindMember(context, callerID, groupID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotAMember(groupID)
		}
		return nil, apperr.Ensure(err)
	}

	floor := service.window.Floor(member)

	messages, err := FetchPage(context, service.messages, groupID, floor, offset, limit)
	if err != nil {
		return nil, err
	}

	senders, err := ResolveSenders(context, service.profiles, messages)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("history.messages", len(messages)),
		attribute.Int("history.senders", len(senders)),
	)

	return &History{Messages: messages, Senders: senders}, nil
}

// # Group Reads

// GetGroups loads a batch of groups, skipping unknown ids and keeping input order.
func (service *Service) GetGroups(context stdctx.Context, groupIDs []string) ([]*Group, error) {
	if err := (&validate.Validator{}).UUIDs(FieldIDs, groupIDs, MaxBatchIDs).Err(); err != nil {
		return nil, err
	}

	found, err := service.groups.FindByIDs(context, groupIDs)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	byID := make(map[string]*Group, len(found))
	for _, group := range found {
		byID[group.ID] = group
	}

	groups := make([]*Group, 0, len(found))
	for _, id := range groupIDs {
		if group, ok := byID[id]; ok {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// ListUserGroups returns every membership held by userID.
func (service *Service) ListUserGroups(context stdctx.Context, userID string) ([]*Member, error) {
	members, err := service.members.ListByUser(context, userID)
	if err != nil {
		return nil, apperr.Ensure(err)
	}
	return members, nil
}

// SearchGroups finds groups whose name contains fragment.
func (service *Service) SearchGroups(context stdctx.Context, fragment string) ([]*Group, error) {
	if err := (&validate.Validator{}).Required(FieldQuery, fragment).MaxLen(FieldQuery, fragment, NameMaxLen).Err(); err != nil {
		return nil, err
	}

	groups, err := service.groups.SearchByName(context, fragment, SearchLimit)
	if err != nil {
		return nil, apperr.Ensure(err)
	}
	return groups, nil
}

// # Group Writes

// UpdateInput carries the editable group fields. Nil means unchanged.
type UpdateInput struct {
	Name   *string
	Notice *string
}

/*
UpdateGroup changes a group's name or notice.

Only the owner or an admin may edit. Anyone else gets FORBIDDEN.
*/
func (service *Service) UpdateGroup(context stdctx.Context, caller sec.Principal, groupID string, input UpdateInput) (*Group, error) {
	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, NameMaxLen).NoControl(FieldName, *input.Name)
	}
	if input.Notice != nil {
		validator.MaxLen(FieldNotice, *input.Notice, NoticeMaxLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	group, err := service.groups.FindByID(context, groupID)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	if group.OwnerID != caller.UserID && !caller.Role.IsAdmin() {
		return nil, apperr.Forbidden("Only the owner may edit this group")
	}

	if input.Name != nil {
		group.Name = *input.Name
	}
	if input.Notice != nil {
		group.Notice = *input.Notice
	}

	if err := service.groups.Update(context, group); err != nil {
		return nil, apperr.Ensure(err)
	}

	service.logger.Info("group_updated",
		slog.String("group_id", groupID),
		slog.String("editor_id", caller.UserID),
	)

	return group, nil
}

/*
CreateGroup creates a group owned by ownerID and joins the owner to it.

Both rows are written in one transaction. A token whose account has been
purged is rejected before anything is written.
*/
func (service *Service) CreateGroup(context stdctx.Context, ownerID, name string) (*Group, error) {
	if err := (&validate.Validator{}).Required(FieldName, name).MaxLen(FieldName, name, NameMaxLen).NoControl(FieldName, name).Err(); err != nil {
		return nil, err
	}

	if err := service.ensureAccount(context, ownerID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Failure(err)
	}

	createdAt := service.now().UnixMilli()
	group := &Group{
		ID:         id.String(),
		OwnerID:    ownerID,
		Name:       name,
		Notice:     DefaultNotice,
		CreateTime: createdAt,
	}

	err = service.tx.WithinTx(context, func(context stdctx.Context) error {
		if err := service.groups.Create(context, group); err != nil {
			return err
		}
		return service.members.AddMember(context, &Member{GroupID: group.ID, UserID: ownerID, CreateTime: createdAt})
	})
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	service.logger.Info("group_created",
		slog.String("group_id", group.ID),
		slog.String("owner_id", ownerID),
	)

	return group, nil
}

// ensureAccount rejects callers whose account row no longer exists.
func (service *Service) ensureAccount(context stdctx.Context, userID string) error {
	if _, err := service.profiles.FindByID(context, userID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized("Account no longer exists")
		}
		return apperr.Ensure(err)
	}
	return nil
}

// JoinGroup adds userID to a group. Joining twice is CONFLICT.
func (service *Service) JoinGroup(context stdctx.Context, userID, groupID string) (*Member, error) {
	if err := service.ensureAccount(context, userID); err != nil {
		return nil, err
	}

	if _, err := service.groups.FindByID(context, groupID); err != nil {
		return nil, apperr.Ensure(err)
	}

	member := &Member{GroupID: groupID, UserID: userID, CreateTime: service.now().UnixMilli()}
	if err := service.members.AddMember(context, member); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Already a member of this group")
		}
		return nil, apperr.Ensure(err)
	}

	service.logger.Info("group_joined",
		slog.String("group_id", groupID),
		slog.String("user_id", userID),
	)

	return member, nil
}

// PostMessage appends a message to a group the sender belongs to.
func (service *Service) PostMessage(context stdctx.Context, senderID, groupID, content string, messageType MessageType) (*Message, error) {
	if messageType == "" {
		messageType = MessageText
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, ContentMaxLen)
	validator.Custom(FieldMessageType, !messageType.Valid(), "Unknown message type")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.members.FindMember(context, senderID, groupID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotAMember(groupID)
		}
		return nil, apperr.Ensure(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Failure(err)
	}

	message := &Message{
		ID:          id.String(),
		GroupID:     groupID,
		UserID:      senderID,
		Content:     content,
		MessageType: messageType,
		Time:        service.now().UnixMilli(),
	}

	if err := service.messages.Create(context, message); err != nil {
		return nil, apperr.Ensure(err)
	}

	return message, nil
}
