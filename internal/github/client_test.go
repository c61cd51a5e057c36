package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
)

// setupTestClient creates a httptest server and a client pointing to it.
// go-github prefixes enterprise base URLs with /api/v3, so handlers see
// that prefix stripped here.
func setupTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api/v3")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient(server.URL, logger)
	require.NoError(t, err)
	return client
}

func TestClient_GetProfile(t *testing.T) {
	t.Run("maps fields and applies sentinels", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat", r.URL.Path)
			fmt.Fprintln(w, `{"login": "octocat", "name": "The Octocat", "followers": 3, "following": 2, "public_repos": 8, "avatar_url": "https://example.com/a.png"}`)
		})

		card, err := client.GetProfile(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, "octocat", card.Username)
		assert.Equal(t, "The Octocat", card.Name)
		assert.Equal(t, 3, card.Followers)
		assert.Equal(t, 2, card.Following)
		assert.Equal(t, 8, card.Repos)
		assert.Equal(t, model.NoBio, card.Bio)
		assert.Equal(t, model.NoLocation, card.Location)
		assert.Equal(t, model.NoWebsite, card.Website)
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})

		_, err := client.GetProfile(context.Background(), "no-such-user")

		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Equal(t, "user not found", apperror.UserMessage(err))
	})

	t.Run("server error maps to transient", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetProfile(context.Background(), "octocat")

		assert.ErrorIs(t, err, apperror.ErrTransient)
	})
}

func TestClient_GetPage(t *testing.T) {
	t.Run("repositories with Link header", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/repos", r.URL.Path)
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "30", r.URL.Query().Get("per_page"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			w.Header().Set("Link", `<https://api.github.com/users/octocat/repos?page=2>; rel="next", <https://api.github.com/users/octocat/repos?page=3>; rel="last"`)
			fmt.Fprintln(w, `[{"name": "hello-world", "stargazers_count": 42, "language": "Go"}]`)
		})

		page, err := client.GetPage(context.Background(), model.KindRepositories, "octocat", 1, 30)

		require.NoError(t, err)
		assert.Equal(t, 3, page.LastPage)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "hello-world", page.Items[0].Name)
		assert.Equal(t, 42, page.Items[0].Stars)
		assert.Equal(t, "Go", page.Items[0].Language)
	})

	t.Run("no Link header leaves LastPage zero", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `[]`)
		})

		page, err := client.GetPage(context.Background(), model.KindFollowers, "octocat", 1, 30)

		require.NoError(t, err)
		assert.Zero(t, page.LastPage)
		assert.Empty(t, page.Items)
	})

	t.Run("followers map logins and avatars", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/followers", r.URL.Path)
			fmt.Fprintln(w, `[{"login": "friend"}, {"login": "other", "avatar_url": "https://example.com/o.png"}]`)
		})

		page, err := client.GetPage(context.Background(), model.KindFollowers, "octocat", 1, 30)

		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "friend", page.Items[0].Name)
		assert.Equal(t, model.DefaultAvatarURL, page.Items[0].AvatarURL)
		assert.Equal(t, "https://example.com/o.png", page.Items[1].AvatarURL)
	})

	t.Run("failure maps to transient with the resource name", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.GetPage(context.Background(), model.KindFollowing, "octocat", 1, 30)

		assert.ErrorIs(t, err, apperror.ErrTransient)
		assert.Equal(t, "failed to fetch following", apperror.UserMessage(err))
	})
}

func TestClient_GetReadme(t *testing.T) {
	t.Run("decodes base64 content", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\n"))
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octocat/hello-world/readme", r.URL.Path)
			fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "name": "README.md", "content": %q}`, encoded)
		})

		readme, err := client.GetReadme(context.Background(), "octocat", "hello-world")

		require.NoError(t, err)
		assert.True(t, readme.Found)
		assert.Equal(t, "# Hello\n", readme.Content)
	})

	t.Run("missing readme is not an error", func(t *testing.T) {
		client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})

		readme, err := client.GetReadme(context.Background(), "octocat", "bare-repo")

		require.NoError(t, err)
		assert.False(t, readme.Found)
		assert.Empty(t, readme.Content)
	})
}

func TestClient_GetCommits(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/commits", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		fmt.Fprintln(w, `[{"sha": "abc123", "commit": {"message": "initial commit", "author": {"name": "The Octocat", "date": "2024-05-01T10:00:00Z"}}, "author": {"login": "octocat"}}]`)
	})

	commits, err := client.GetCommits(context.Background(), "octocat", "hello-world")

	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc123", commits[0].SHA)
	assert.Equal(t, "initial commit", commits[0].Message)
	assert.Equal(t, "The Octocat", commits[0].AuthorName)
	assert.Equal(t, "octocat", commits[0].AuthorLogin)
	assert.Equal(t, model.DefaultAvatarURL, commits[0].AvatarURL)
}

func TestClient_GetRepository_NotFound(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"message": "Not Found"}`)
	})

	_, err := client.GetRepository(context.Background(), "octocat", "gone")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
