package facebook

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// GroupAPI wraps the Graph group endpoints.
type GroupAPI struct {
	graph GraphAPI
}

// NewGroupAPI returns a GroupAPI backed by g.
func NewGroupAPI(g GraphAPI) *GroupAPI {
	return &GroupAPI{graph: g}
}

// GetGroup fetches a group by ID.
func (a *GroupAPI) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	return FetchObject[Group](ctx, a.graph, groupID, GroupFields...)
}

// GetMembers fetches the first page of a group's members.
func (a *GroupAPI) GetMembers(ctx context.Context, groupID string) ([]Reference, error) {
	list, err := FetchConnections[Reference](ctx, a.graph, groupID, "members", nil)
	if err != nil {
		return nil, err
	}
	return list.Data, nil
}

// GetMembersPage fetches one page of a group's members, including the
// administrator flag.
func (a *GroupAPI) GetMembersPage(ctx context.Context, groupID string, p PagingParameters) (*PagedList[GroupMemberReference], error) {
	return FetchConnections[GroupMemberReference](ctx, a.graph, groupID, "members", p.Values())
}

// GetAllMembers walks every page of a group's members, stopping after max
// members when max is positive.
func (a *GroupAPI) GetAllMembers(ctx context.Context, groupID string, max int) ([]GroupMemberReference, error) {
	return FetchAllConnections[GroupMemberReference](ctx, a.graph, groupID, "members", nil, max)
}

// GetMemberships lists the groups the authenticated user is a member of.
func (a *GroupAPI) GetMemberships(ctx context.Context) ([]GroupMembership, error) {
	list, err := FetchConnections[GroupMembership](ctx, a.graph, "me", "groups", nil)
	if err != nil {
		return nil, err
	}
	return list.Data, nil
}

// PostToGroup publishes a message to a group's feed and returns the post ID.
func (a *GroupAPI) PostToGroup(ctx context.Context, groupID, message string) (string, error) {
	if message == "" {
		return "", errors.New("facebook: message is empty")
	}
	return a.graph.Publish(ctx, groupID, "feed", url.Values{"message": {message}})
}

// DeletePost deletes a post previously published to a group.
func (a *GroupAPI) DeletePost(ctx context.Context, postID string) error {
	return a.graph.Delete(ctx, postID)
}
