package facebook

// Reference is the minimal id + name form Graph uses for linked objects.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Privacy is a group's visibility.
type Privacy string

const (
	PrivacyOpen   Privacy = "OPEN"
	PrivacyClosed Privacy = "CLOSED"
	PrivacySecret Privacy = "SECRET"
)

// GroupFields are the fields requested by GroupAPI.GetGroup.
var GroupFields = []string{
	"id", "name", "description", "email", "icon", "link", "privacy",
	"owner", "parent", "cover", "member_count", "updated_time",
}

type (
	// Group is a Facebook group.
	Group struct {
		ID          string     `json:"id"`
		Name        string     `json:"name,omitempty"`
		Description string     `json:"description,omitempty"`
		Email       string     `json:"email,omitempty"`
		Icon        string     `json:"icon,omitempty"`
		Link        string     `json:"link,omitempty"`
		Privacy     Privacy    `json:"privacy,omitempty"`
		Owner       *Reference `json:"owner,omitempty"`
		Parent      *Reference `json:"parent,omitempty"`
		Cover       *Cover     `json:"cover,omitempty"`
		MemberCount int        `json:"member_count,omitempty"`
		UpdatedTime Time       `json:"updated_time"`
	}

	// Cover is a cover photo.
	Cover struct {
		ID      string `json:"id"`
		Source  string `json:"source,omitempty"`
		OffsetX int    `json:"offset_x,omitempty"`
		OffsetY int    `json:"offset_y,omitempty"`
	}

	// GroupMemberReference is an element of a group's members connection.
	GroupMemberReference struct {
		ID            string `json:"id"`
		Name          string `json:"name,omitempty"`
		Administrator bool   `json:"administrator,omitempty"`
	}

	// GroupMembership is a group the current user belongs to.
	GroupMembership struct {
		ID            string `json:"id"`
		Name          string `json:"name,omitempty"`
		Version       int    `json:"version,omitempty"`
		BookmarkOrder int    `json:"bookmark_order,omitempty"`
		Administrator bool   `json:"administrator,omitempty"`
		Unread        int    `json:"unread,omitempty"`
	}
)
