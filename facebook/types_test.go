package facebook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestGroup_Mapping(t *testing.T) {
	fixture := `{
		"id": "213106022036379",
		"name": "Spring Social Test Group",
		"description": "A group for testing",
		"email": "springsocialtest@groups.facebook.com",
		"icon": "https://static.xx.fbcdn.net/rsrc.php/v1/icon.png",
		"link": "https://www.facebook.com/groups/213106022036379/",
		"privacy": "OPEN",
		"owner": {"id": "100001387295207", "name": "Art Names"},
		"cover": {"id": "9", "source": "https://example.com/c.jpg", "offset_y": 12},
		"member_count": 3,
		"updated_time": "2011-03-14T17:02:54+0000",
		"venue": {"street": "ignored"},
		"version": 1
	}`
	var got Group
	if err := json.Unmarshal([]byte(fixture), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Group{
		ID:          "213106022036379",
		Name:        "Spring Social Test Group",
		Description: "A group for testing",
		Email:       "springsocialtest@groups.facebook.com",
		Icon:        "https://static.xx.fbcdn.net/rsrc.php/v1/icon.png",
		Link:        "https://www.facebook.com/groups/213106022036379/",
		Privacy:     PrivacyOpen,
		Owner:       &Reference{ID: "100001387295207", Name: "Art Names"},
		Cover:       &Cover{ID: "9", Source: "https://example.com/c.jpg", OffsetY: 12},
		MemberCount: 3,
		UpdatedTime: Time{time.Date(2011, 3, 14, 17, 2, 54, 0, time.UTC)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGroup_MissingOptionalFields(t *testing.T) {
	var got Group
	if err := json.Unmarshal([]byte(`{"id":"1","name":"Bare"}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Owner != nil || got.Parent != nil || got.Cover != nil {
		t.Fatalf("expected nil nested records, got %+v", got)
	}
	if !got.UpdatedTime.IsZero() || got.Privacy != "" || got.MemberCount != 0 {
		t.Fatalf("expected zero values, got %+v", got)
	}
}

func TestReference_Mapping(t *testing.T) {
	var got []Reference
	fixture := `[{"id":"1","name":"Craig Walls","administrator":true},{"id":"2"}]`
	if err := json.Unmarshal([]byte(fixture), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Reference{{ID: "1", Name: "Craig Walls"}, {ID: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGroupMembership_Mapping(t *testing.T) {
	var got GroupMembership
	fixture := `{"id":"5","name":"Test","version":1,"bookmark_order":2,"administrator":true,"unread":7,"extra":"x"}`
	if err := json.Unmarshal([]byte(fixture), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := GroupMembership{ID: "5", Name: "Test", Version: 1, BookmarkOrder: 2, Administrator: true, Unread: 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{`"2011-03-14T17:02:54+0000"`, time.Date(2011, 3, 14, 17, 2, 54, 0, time.UTC)},
		{`"2011-03-14T12:02:54-0500"`, time.Date(2011, 3, 14, 17, 2, 54, 0, time.UTC)},
		{`"2011-03-14T17:02:54Z"`, time.Date(2011, 3, 14, 17, 2, 54, 0, time.UTC)},
		{`""`, time.Time{}},
		{`null`, time.Time{}},
	}
	for _, tc := range cases {
		var got Time
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %v want %v", tc.in, got.Time, tc.want)
		}
	}

	var bad Time
	if err := json.Unmarshal([]byte(`"yesterday"`), &bad); err == nil {
		t.Fatal("expected parse error")
	}

	out, err := json.Marshal(Time{time.Date(2011, 3, 14, 17, 2, 54, 0, time.UTC)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2011-03-14T17:02:54+0000"` {
		t.Fatalf("marshal = %s", out)
	}
}
