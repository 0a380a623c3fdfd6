package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"connectrpc.com/connect"

	"github.com/loekvdlooilionx/votejam/internal/invite"
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
	"github.com/loekvdlooilionx/votejam/pkg/api"
	"github.com/loekvdlooilionx/votejam/pkg/api/apiconnect"
)

const (
	maxGroupNameLength = 80

	// inviteAttempts bounds retries on invite code collisions.
	inviteAttempts = 5
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

func groupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.InvalidInput("group name is required")
	}
	if utf8.RuneCountInString(name) > maxGroupNameLength {
		return "", models.InvalidInput("group name longer than %d characters", maxGroupNameLength)
	}
	return name, nil
}

// CreateGroup creates a new group with the caller as its admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	name, err := groupName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, "CreateGroup", err)
	}

	var group *models.Group
	for attempt := 1; ; attempt++ {
		code, err := invite.Generate()
		if err != nil {
			return nil, toConnectError(ctx, "CreateGroup", err)
		}
		group = &models.Group{Name: name, InviteCode: code, CreatedBy: userID}

		err = s.store.CreateGroup(ctx, group)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrInviteCodeTaken) || attempt == inviteAttempts {
			return nil, toConnectError(ctx, "CreateGroup", err, "attempt", attempt)
		}
		slog.Debug("Invite code collision, retrying", "attempt", attempt)
	}

	slog.Info("Group created", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// JoinGroup enrolls the caller in the group owning the invite code.
// Joining a group twice returns the group and keeps the existing role.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	code, err := invite.Normalize(req.Msg.InviteCode)
	if err != nil {
		return nil, toConnectError(ctx, "JoinGroup", err)
	}

	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err != nil {
		return nil, toConnectError(ctx, "JoinGroup", err, "invite_code", code)
	}

	err = s.store.AddGroupMember(ctx, &models.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    models.RoleMember,
	})
	if err != nil {
		return nil, toConnectError(ctx, "JoinGroup", err, "group_id", group.ID)
	}

	member, err := s.store.GetGroupMember(ctx, group.ID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "JoinGroup", err, "group_id", group.ID)
	}

	slog.Info("Group joined", "group_id", group.ID, "user_id", userID, "role", member.Role)
	return connect.NewResponse(&api.JoinGroupResponse{
		Group: toAPIGroup(group),
		Role:  string(member.Role),
	}), nil
}

// GetGroup returns a group with its members. Callers must belong to it.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetGroup", err, "group_id", groupID)
	}
	caller, err := s.store.GetGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "GetGroup", err, "group_id", groupID)
	}

	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, toConnectError(ctx, "GetGroup", err, "group_id", groupID)
	}
	apiMembers := make([]*api.Member, len(members))
	for i, m := range members {
		apiMembers[i] = toAPIMember(m)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:   toAPIGroup(group),
		Members: apiMembers,
		Role:    string(caller.Role),
	}), nil
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(ctx, "ListGroups", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Debug("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// requireAdmin checks the caller's role before group management.
func (s *GroupService) requireAdmin(ctx context.Context, groupID, userID string) error {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	member, err := s.store.GetGroupMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member.IsAdmin() {
		return models.ErrNotAdmin
	}
	return nil
}

// RenameGroup changes a group's display name. Admin only.
func (s *GroupService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID

	name, err := groupName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, "RenameGroup", err, "group_id", groupID)
	}
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, toConnectError(ctx, "RenameGroup", err, "group_id", groupID)
	}
	if err := s.store.RenameGroup(ctx, groupID, name); err != nil {
		return nil, toConnectError(ctx, "RenameGroup", err, "group_id", groupID)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(ctx, "RenameGroup", err, "group_id", groupID)
	}

	slog.Info("Group renamed", "group_id", groupID, "name", name)
	return connect.NewResponse(&api.RenameGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group with all of its weeks, tracks and votes. Admin only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID

	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, toConnectError(ctx, "DeleteGroup", err, "group_id", groupID)
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return nil, toConnectError(ctx, "DeleteGroup", err, "group_id", groupID)
	}

	slog.Info("Group deleted", "group_id", groupID, "user_id", userID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}
