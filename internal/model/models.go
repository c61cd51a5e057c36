// Package model holds the persisted rows and the display DTOs exchanged
// between the remote client, the store, and the API layer.
package model

import (
	"database/sql"
	"time"
)

// Display sentinels. A rendered profile never carries an empty optional
// field; absent values are replaced with these at DTO construction time.
const (
	NoBio      = "No bio available"
	NoLocation = "Not specified"
	NoWebsite  = "No website"

	// DefaultAvatarURL is shown when the API returns no usable avatar.
	DefaultAvatarURL = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
)

// Profile is a saved point-in-time snapshot of a remote profile. It is
// never refreshed in place; re-saving a username inserts a new row.
type Profile struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Followers    int       `json:"followers"`
	Following    int       `json:"following"`
	Repos        int       `json:"repos"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Note is a free-text annotation owned by exactly one saved Profile.
// Sender and receiver are schema-level metadata not populated by current
// flows.
type Note struct {
	ID               int64          `json:"id"`
	ProfileID        int64          `json:"profile_id"`
	SenderUsername   sql.NullString `json:"-"`
	ReceiverUsername sql.NullString `json:"-"`
	Text             string         `json:"text"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ProfileCard is the render-ready view of a remote profile with every
// optional field resolved to a value or its sentinel.
type ProfileCard struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Repos     int    `json:"repos"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	AvatarURL string `json:"avatar_url"`
}

// NewProfileCard applies the display sentinels to raw remote fields. The
// name falls back to the login so a card always shows something
// recognizable.
func NewProfileCard(login, name, bio, location, website, avatarURL string, followers, following, repos int) ProfileCard {
	card := ProfileCard{
		Username:  login,
		Name:      name,
		Bio:       bio,
		Followers: followers,
		Following: following,
		Repos:     repos,
		Location:  location,
		Website:   website,
		AvatarURL: avatarURL,
	}
	if card.Name == "" {
		card.Name = login
	}
	if card.Bio == "" {
		card.Bio = NoBio
	}
	if card.Location == "" {
		card.Location = NoLocation
	}
	if card.Website == "" {
		card.Website = NoWebsite
	}
	if card.AvatarURL == "" {
		card.AvatarURL = DefaultAvatarURL
	}
	return card
}

// Snapshot converts a card into the row shape the store persists.
func (c ProfileCard) Snapshot() Profile {
	return Profile{
		Username:     c.Username,
		Name:         c.Name,
		Bio:          c.Bio,
		Followers:    c.Followers,
		Following:    c.Following,
		Repos:        c.Repos,
		Location:     c.Location,
		Website:      c.Website,
		ProfileImage: c.AvatarURL,
	}
}

// Card rebuilds the render-ready view from a saved snapshot, so the
// presentation layer can re-render from cache without a network fetch.
func (p Profile) Card() ProfileCard {
	return ProfileCard{
		Username:  p.Username,
		Name:      p.Name,
		Bio:       p.Bio,
		Followers: p.Followers,
		Following: p.Following,
		Repos:     p.Repos,
		Location:  p.Location,
		Website:   p.Website,
		AvatarURL: p.ProfileImage,
	}
}

// CollectionKind identifies which paged remote collection is being
// traversed.
type CollectionKind string

const (
	KindRepositories CollectionKind = "repositories"
	KindFollowers    CollectionKind = "followers"
	KindFollowing    CollectionKind = "following"
)

// ParseCollectionKind maps the external path segment to a kind. "repos"
// is accepted as an alias because that is how the remote API spells it.
func ParseCollectionKind(s string) (CollectionKind, bool) {
	switch s {
	case "repos", "repositories":
		return KindRepositories, true
	case "followers":
		return KindFollowers, true
	case "following":
		return KindFollowing, true
	}
	return "", false
}

// CollectionItem is one entry of a paged collection: a repository
// (Name/Description/Stars/Language) or a user (Name is the login).
type CollectionItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	Language    string `json:"language,omitempty"`
}

// CollectionPage is one fetched page plus the pagination metadata parsed
// from the response. LastPage is 0 when the response carried no
// rel="last" link; callers resolve that to a single-page collection.
type CollectionPage struct {
	Items    []CollectionItem `json:"items"`
	LastPage int              `json:"-"`
}

// RepositoryDetail is the metadata bundle for a single repository view.
type RepositoryDetail struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description,omitempty"`
	Language      string    `json:"language,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"open_issues"`
	DefaultBranch string    `json:"default_branch"`
	HTMLURL       string    `json:"html_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Readme is decoded README text. An absent README is not an error; it is
// Found=false with empty content.
type Readme struct {
	Found   bool   `json:"found"`
	Content string `json:"content"`
}

// ContentEntry is one entry of a repository's top-level listing.
type ContentEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"`
	Size    int    `json:"size"`
	HTMLURL string `json:"html_url,omitempty"`
}

// CommitInfo is one recent commit of a repository.
type CommitInfo struct {
	SHA         string    `json:"sha"`
	Message     string    `json:"message"`
	AuthorName  string    `json:"author_name"`
	AuthorLogin string    `json:"author_login,omitempty"`
	AvatarURL   string    `json:"avatar_url"`
	Date        time.Time `json:"date"`
	HTMLURL     string    `json:"html_url"`
}
