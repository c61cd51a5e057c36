// Package github wraps the public GitHub REST API behind the narrow
// contract the rest of the application needs. The client holds no state
// and performs no retries; resilience policy lives one layer up.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v62/github"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
)

const commitsPerDetail = 10

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance. Requests are
// unauthenticated; baseURL overrides the public API host (used in tests).
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	gh := github.NewClient(nil)
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring API base URL: %w", err)
		}
	}

	return &Client{
		gh:     gh,
		logger: logger,
	}, nil
}

// GetProfile fetches a user's public profile and translates it to a
// render-ready card. A 404 is reported as not-found, distinct from the
// generic fetch failure every other status maps to.
func (c *Client) GetProfile(ctx context.Context, username string) (*model.ProfileCard, error) {
	user, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Transient("profile", err)
	}

	card := model.NewProfileCard(
		user.GetLogin(),
		user.GetName(),
		user.GetBio(),
		user.GetLocation(),
		user.GetBlog(),
		user.GetAvatarURL(),
		user.GetFollowers(),
		user.GetFollowing(),
		user.GetPublicRepos(),
	)
	return &card, nil
}

// GetPage fetches one page of a user's repositories, followers, or
// following. LastPage comes from the response's Link header (rel="last")
// and is 0 when the header is absent.
func (c *Client) GetPage(ctx context.Context, kind model.CollectionKind, username string, page, perPage int) (*model.CollectionPage, error) {
	c.logger.Debug("Fetching collection page", "kind", kind, "username", username, "page", page)

	opts := github.ListOptions{Page: page, PerPage: perPage}

	switch kind {
	case model.KindRepositories:
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, &github.RepositoryListByUserOptions{
			Sort:        "updated",
			ListOptions: opts,
		})
		if err != nil {
			return nil, apperror.Transient("repositories", err)
		}
		items := make([]model.CollectionItem, 0, len(repos))
		for _, r := range repos {
			items = append(items, model.CollectionItem{
				Name:        r.GetName(),
				Description: r.GetDescription(),
				HTMLURL:     r.GetHTMLURL(),
				Stars:       r.GetStargazersCount(),
				Language:    r.GetLanguage(),
			})
		}
		return &model.CollectionPage{Items: items, LastPage: resp.LastPage}, nil

	case model.KindFollowers:
		users, resp, err := c.gh.Users.ListFollowers(ctx, username, &opts)
		if err != nil {
			return nil, apperror.Transient("followers", err)
		}
		return &model.CollectionPage{Items: toUserItems(users), LastPage: resp.LastPage}, nil

	case model.KindFollowing:
		users, resp, err := c.gh.Users.ListFollowing(ctx, username, &opts)
		if err != nil {
			return nil, apperror.Transient("following", err)
		}
		return &model.CollectionPage{Items: toUserItems(users), LastPage: resp.LastPage}, nil
	}

	return nil, fmt.Errorf("unknown collection kind %q", kind)
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*model.RepositoryDetail, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("repository")
		}
		return nil, apperror.Transient("repository details", err)
	}

	return &model.RepositoryDetail{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Watchers:      r.GetWatchersCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
		CreatedAt:     r.GetCreatedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
	}, nil
}

// GetReadme fetches and decodes a repository's README. A repository
// without one is not an error; the result is simply Found=false.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (*model.Readme, error) {
	readme, _, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if isNotFound(err) {
			return &model.Readme{Found: false}, nil
		}
		return nil, apperror.Transient("readme", err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, apperror.Transient("readme", err)
	}
	return &model.Readme{Found: true, Content: content}, nil
}

// GetContents fetches a repository's top-level file listing.
func (c *Client) GetContents(ctx context.Context, owner, repo string) ([]model.ContentEntry, error) {
	_, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return nil, apperror.Transient("repository contents", err)
	}

	entries := make([]model.ContentEntry, 0, len(dir))
	for _, e := range dir {
		entries = append(entries, model.ContentEntry{
			Name:    e.GetName(),
			Path:    e.GetPath(),
			Type:    e.GetType(),
			Size:    e.GetSize(),
			HTMLURL: e.GetHTMLURL(),
		})
	}
	return entries, nil
}

// GetCommits fetches the most recent commits of a repository.
func (c *Client) GetCommits(ctx context.Context, owner, repo string) ([]model.CommitInfo, error) {
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: commitsPerDetail},
	})
	if err != nil {
		return nil, apperror.Transient("commits", err)
	}

	infos := make([]model.CommitInfo, 0, len(commits))
	for _, commit := range commits {
		infos = append(infos, toCommitInfo(commit))
	}
	return infos, nil
}

// toUserItems translates user list entries to collection items.
func toUserItems(users []*github.User) []model.CollectionItem {
	items := make([]model.CollectionItem, 0, len(users))
	for _, u := range users {
		avatar := u.GetAvatarURL()
		if avatar == "" {
			avatar = model.DefaultAvatarURL
		}
		items = append(items, model.CollectionItem{
			Name:      u.GetLogin(),
			AvatarURL: avatar,
			HTMLURL:   u.GetHTMLURL(),
		})
	}
	return items
}

// toCommitInfo translates a github.RepositoryCommit to our internal model.
// Commits from accounts deleted since authoring have no author object, so
// the avatar falls back to the default mark.
func toCommitInfo(c *github.RepositoryCommit) model.CommitInfo {
	avatar := c.GetAuthor().GetAvatarURL()
	if avatar == "" {
		avatar = model.DefaultAvatarURL
	}
	return model.CommitInfo{
		SHA:         c.GetSHA(),
		Message:     c.GetCommit().GetMessage(),
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorLogin: c.GetAuthor().GetLogin(),
		AvatarURL:   avatar,
		Date:        c.GetCommit().GetAuthor().GetDate().Time,
		HTMLURL:     c.GetHTMLURL(),
	}
}

// isNotFound reports whether err is a remote 404.
func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
