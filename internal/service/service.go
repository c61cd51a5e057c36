// Package service orchestrates the remote client, the resilience guard,
// the local cache, and process state behind the operations the API
// exposes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
	"github.com/COSYBANANA63/gitcards/internal/pagination"
	"github.com/COSYBANANA63/gitcards/internal/resilience"
)

// RemoteClient is the contract the GitHub client fulfils.
type RemoteClient interface {
	GetProfile(ctx context.Context, username string) (*model.ProfileCard, error)
	GetPage(ctx context.Context, kind model.CollectionKind, username string, page, perPage int) (*model.CollectionPage, error)
	GetRepository(ctx context.Context, owner, repo string) (*model.RepositoryDetail, error)
	GetReadme(ctx context.Context, owner, repo string) (*model.Readme, error)
	GetContents(ctx context.Context, owner, repo string) ([]model.ContentEntry, error)
	GetCommits(ctx context.Context, owner, repo string) ([]model.CommitInfo, error)
}

// Storage is the profile subset of the local store.
type Storage interface {
	SaveProfile(ctx context.Context, p model.Profile) (int64, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

// StateStore persists the last-used username across restarts.
type StateStore interface {
	SetLastUsername(username string) error
	LastUsername() (string, error)
}

// Connectivity exposes the watcher state the status view reports.
type Connectivity interface {
	Online() bool
	Banner() (string, bool)
}

// CollectionView is one rendered page of a paged collection plus its
// navigation affordances.
type CollectionView struct {
	Kind       model.CollectionKind   `json:"kind"`
	Username   string                 `json:"username"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	HasPrev    bool                   `json:"has_prev"`
	HasNext    bool                   `json:"has_next"`
	ShowPaging bool                   `json:"show_paging"`
	Empty      bool                   `json:"empty"`
	Items      []model.CollectionItem `json:"items"`
}

// RepositoryView bundles repository metadata with its README for the
// detail screen.
type RepositoryView struct {
	Repository *model.RepositoryDetail `json:"repository"`
	Readme     model.Readme            `json:"readme"`
}

// SharePayload is the share-sheet content for a profile.
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Status is the process-wide view state: connectivity banner and the
// username to pre-populate after a restart.
type Status struct {
	Online       bool   `json:"online"`
	Banner       string `json:"banner,omitempty"`
	BannerUp     bool   `json:"banner_up"`
	LastUsername string `json:"last_username,omitempty"`
}

// ProfileService implements the application operations.
type ProfileService struct {
	client       RemoteClient
	guard        *resilience.Guard
	storage      Storage
	state        StateStore
	connectivity Connectivity
	pageSize     int
	logger       *slog.Logger

	mu      sync.Mutex
	cursors map[string]*pagination.Cursor
}

// NewProfileService wires the orchestration layer. state and
// connectivity may be nil in tests.
func NewProfileService(client RemoteClient, guard *resilience.Guard, storage Storage, state StateStore, connectivity Connectivity, pageSize int, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		client:       client,
		guard:        guard,
		storage:      storage,
		state:        state,
		connectivity: connectivity,
		pageSize:     pageSize,
		logger:       logger,
		cursors:      make(map[string]*pagination.Cursor),
	}
}

// SearchProfile looks up a profile by username. The username is the only
// input the user types, so it is validated before anything else; a
// successful lookup is recorded as the last-used username.
func (s *ProfileService) SearchProfile(ctx context.Context, username string) (*model.ProfileCard, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("please enter a GitHub username")
	}

	var card *model.ProfileCard
	err := s.guard.Do(ctx, "profile", func(ctx context.Context) error {
		var err error
		card, err = s.client.GetProfile(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.state != nil {
		if err := s.state.SetLastUsername(card.Username); err != nil {
			s.logger.Warn("Failed to record last username", "error", err)
		}
	}
	return card, nil
}

// BrowseCollection returns one page of a user's repositories, followers,
// or following. Requesting page 1 opens a fresh cursor for that
// endpoint+username; later pages navigate the existing cursor so its
// bounds are enforced against the known total.
func (s *ProfileService) BrowseCollection(ctx context.Context, kind model.CollectionKind, username string, page int) (*CollectionView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("please enter a GitHub username")
	}
	if page < 1 {
		page = 1
	}

	cursor, fresh := s.cursorFor(kind, username, page)

	var result *model.CollectionPage
	var err error
	if fresh {
		result, err = cursor.Open(ctx)
		if err == nil && page > 1 {
			result, err = cursor.GoTo(ctx, page)
		}
	} else {
		result, err = cursor.GoTo(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	return &CollectionView{
		Kind:       kind,
		Username:   username,
		Page:       cursor.CurrentPage(),
		TotalPages: cursor.TotalPages(),
		HasPrev:    cursor.HasPrev(),
		HasNext:    cursor.HasNext(),
		ShowPaging: cursor.ShowControls(),
		Empty:      len(result.Items) == 0,
		Items:      result.Items,
	}, nil
}

// cursorFor returns the cursor for one endpoint+username, creating a
// fresh one when none exists or when the caller re-opens the view at
// page 1.
func (s *ProfileService) cursorFor(kind model.CollectionKind, username string, page int) (*pagination.Cursor, bool) {
	key := string(kind) + "/" + username

	s.mu.Lock()
	defer s.mu.Unlock()

	cursor, ok := s.cursors[key]
	if ok && page > 1 {
		return cursor, false
	}
	cursor = pagination.NewCursor(kind, username, s.pageSize, s.fetchPage)
	s.cursors[key] = cursor
	return cursor, true
}

// fetchPage is the guarded fetch the cursors run.
func (s *ProfileService) fetchPage(ctx context.Context, kind model.CollectionKind, username string, page, perPage int) (*model.CollectionPage, error) {
	var result *model.CollectionPage
	err := s.guard.Do(ctx, string(kind), func(ctx context.Context) error {
		var err error
		result, err = s.client.GetPage(ctx, kind, username, page, perPage)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RepositoryDetail fetches repository metadata together with its README
// under one guarded operation, mirroring the single loading state the
// detail view shows.
func (s *ProfileService) RepositoryDetail(ctx context.Context, owner, repo string) (*RepositoryView, error) {
	view := &RepositoryView{}
	err := s.guard.Do(ctx, "repository details", func(ctx context.Context) error {
		detail, err := s.client.GetRepository(ctx, owner, repo)
		if err != nil {
			return err
		}
		readme, err := s.client.GetReadme(ctx, owner, repo)
		if err != nil {
			return err
		}
		view.Repository = detail
		view.Readme = *readme
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RepositoryContents fetches a repository's top-level file listing.
func (s *ProfileService) RepositoryContents(ctx context.Context, owner, repo string) ([]model.ContentEntry, error) {
	var entries []model.ContentEntry
	err := s.guard.Do(ctx, "repository contents", func(ctx context.Context) error {
		var err error
		entries, err = s.client.GetContents(ctx, owner, repo)
		return err
	})
	return entries, err
}

// RepositoryCommits fetches a repository's recent commits.
func (s *ProfileService) RepositoryCommits(ctx context.Context, owner, repo string) ([]model.CommitInfo, error) {
	var commits []model.CommitInfo
	err := s.guard.Do(ctx, "commits", func(ctx context.Context) error {
		var err error
		commits, err = s.client.GetCommits(ctx, owner, repo)
		return err
	})
	return commits, err
}

// SaveSnapshot persists a profile card as a new snapshot row.
func (s *ProfileService) SaveSnapshot(ctx context.Context, card model.ProfileCard) (int64, error) {
	if strings.TrimSpace(card.Username) == "" {
		return 0, apperror.Validation("profile username must not be empty")
	}
	id, err := s.storage.SaveProfile(ctx, card.Snapshot())
	if err != nil {
		return 0, err
	}
	s.logger.Info("Profile saved", "username", card.Username, "id", id)
	return id, nil
}

// SavedProfiles lists every saved snapshot, newest first.
func (s *ProfileService) SavedProfiles(ctx context.Context) ([]model.Profile, error) {
	return s.storage.ListProfiles(ctx)
}

// SavedCard re-renders one saved snapshot from the cache, with no
// network fetch.
func (s *ProfileService) SavedCard(ctx context.Context, id int64) (*model.ProfileCard, error) {
	p, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	card := p.Card()
	return &card, nil
}

// DeleteSaved removes one saved snapshot (and, via the schema, its
// notes). Confirmation is the presentation layer's job.
func (s *ProfileService) DeleteSaved(ctx context.Context, id int64) error {
	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Profile deleted", "id", id)
	return nil
}

// Share builds the share-sheet payload for a username.
func (s *ProfileService) Share(username string) (*SharePayload, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("please enter a GitHub username")
	}
	return &SharePayload{
		Title: fmt.Sprintf("GitHub Profile: %s", username),
		Text:  fmt.Sprintf("Check out %s's GitHub profile", username),
		URL:   fmt.Sprintf("https://github.com/%s", username),
	}, nil
}

// Status reports connectivity and the last-used username so a client can
// restore its view after a restart.
func (s *ProfileService) Status() Status {
	st := Status{Online: true}
	if s.connectivity != nil {
		st.Online = s.connectivity.Online()
		st.Banner, st.BannerUp = s.connectivity.Banner()
	}
	if s.state != nil {
		username, err := s.state.LastUsername()
		if err != nil {
			s.logger.Warn("Failed to read last username", "error", err)
		} else {
			st.LastUsername = username
		}
	}
	return st
}
