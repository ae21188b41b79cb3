// Package types defines the data model shared by the streaming client:
// listing envelopes, pagination controls, and the item types delivered by
// listing endpoints.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fullnamed is implemented by anything that exposes a Reddit fullname, the
// globally unique identifier of a listed item (e.g. "t3_abc123"). Stream
// deduplication keys on this value.
type Fullnamed interface {
	GetName() string
}

// ThingData holds the identifier fields common to all Reddit objects.
// It is embedded into concrete types like Post and Comment.
type ThingData struct {
	ID   string `json:"id"`   // ID without the type prefix
	Name string `json:"name"` // fullname, e.g. "t3_abc123"
}

// GetID returns the object's ID without the type prefix.
func (td ThingData) GetID() string {
	return td.ID
}

// GetName returns the object's fullname.
func (td ThingData) GetName() string {
	return td.Name
}

// Thing is the envelope Reddit wraps every API object in. The Kind field
// selects how Data is interpreted ("Listing", "t1" for comments, "t3" for
// posts, ...).
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// ListingData is the payload of a Thing of kind "Listing". Children hold
// the raw wrapped items; Before/After carry the pagination anchors.
type ListingData struct {
	BeforeFullname string   `json:"before"`
	AfterFullname  string   `json:"after"`
	Children       []*Thing `json:"children"`
}

// Pagination captures the shared cursor controls for listing endpoints.
// Reddit pages by fullname: Before selects items newer than the anchor,
// After selects older ones. The two are mutually exclusive.
type Pagination struct {
	// Limit is the number of items to request. Reddit caps this at 100;
	// zero means the server default.
	Limit int

	// After requests items older than this fullname.
	After string

	// Before requests items newer than this fullname. Streams anchor on
	// this field.
	Before string
}

// Values returns the pagination fields as query parameters, omitting unset
// ones.
func (p Pagination) Values() map[string]string {
	params := make(map[string]string, 3)
	if p.Limit > 0 {
		params["limit"] = fmt.Sprintf("%d", p.Limit)
	}
	if p.After != "" {
		params["after"] = p.After
	}
	if p.Before != "" {
		params["before"] = p.Before
	}
	return params
}

// PostsRequest describes a request for a subreddit's post listing. Leave
// Subreddit empty to target the front page.
type PostsRequest struct {
	Subreddit string
	Pagination
}

// CommentsRequest describes a request for a subreddit's flat comment
// listing (r/<subreddit>/comments), newest first.
type CommentsRequest struct {
	Subreddit string
	Pagination
}

// PostsResponse is one page of posts plus the anchors for the next fetch.
type PostsResponse struct {
	Posts          []*Post
	AfterFullname  string
	BeforeFullname string
}

// CommentsResponse is one page of comments plus the anchors for the next
// fetch.
type CommentsResponse struct {
	Comments       []*Comment
	AfterFullname  string
	BeforeFullname string
}

// Edited models Reddit's "edited" field, which is false, true (for edits
// predating edit timestamps), or a fractional epoch timestamp.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON accepts the boolean and numeric encodings of "edited".
func (e *Edited) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "false", "null":
		*e = Edited{}
		return nil
	case "true":
		*e = Edited{IsEdited: true}
		return nil
	}

	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err != nil {
		return fmt.Errorf("unrecognized value for edited field: %s", data)
	}
	*e = Edited{IsEdited: true, Timestamp: timestamp}
	return nil
}

// Post is a link or self post as returned by a post listing.
type Post struct {
	ThingData
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	Domain      string  `json:"domain"`
	Edited      Edited  `json:"edited"`
	IsSelf      bool    `json:"is_self"`
	NumComments int     `json:"num_comments"`
	Over18      bool    `json:"over_18"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	SelfText    string  `json:"selftext"`
	Stickied    bool    `json:"stickied"`
	Subreddit   string  `json:"subreddit"`
	SubredditID string  `json:"subreddit_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
}

// Comment is a single comment as returned by a flat comment listing.
type Comment struct {
	ThingData
	Author      string  `json:"author"`
	Body        string  `json:"body"`
	CreatedUTC  float64 `json:"created_utc"`
	Edited      Edited  `json:"edited"`
	LinkID      string  `json:"link_id"`
	ParentID    string  `json:"parent_id"`
	Score       int     `json:"score"`
	ScoreHidden bool    `json:"score_hidden"`
	Subreddit   string  `json:"subreddit"`
	SubredditID string  `json:"subreddit_id"`
}
