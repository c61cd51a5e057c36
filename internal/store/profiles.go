package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
)

// SaveProfile inserts a new snapshot row and returns its id. Saving the
// same username again inserts another row; snapshots are never upserted.
func (db *DB) SaveProfile(ctx context.Context, p model.Profile) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO github_profiles (username, name, bio, followers, following, repos, location, website, profile_image, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.Name, p.Bio, p.Followers, p.Following, p.Repos,
		p.Location, p.Website, p.ProfileImage, time.Now().UTC(),
	)
	if err != nil {
		return 0, apperror.Storage("save profile", err)
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return 0, apperror.Storage("save profile", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.Storage("save profile", err)
	}
	return id, nil
}

// ListProfiles returns every saved snapshot, most recent first. An empty
// cache yields an empty slice, not an error.
func (db *DB) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, name, bio, followers, following, repos, location, website, profile_image, created_at
		 FROM github_profiles
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, apperror.Storage("load saved profiles", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Name, &p.Bio, &p.Followers, &p.Following,
			&p.Repos, &p.Location, &p.Website, &p.ProfileImage, &p.CreatedAt); err != nil {
			return nil, apperror.Storage("load saved profiles", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("load saved profiles", err)
	}
	return profiles, nil
}

// GetProfile returns one saved snapshot by id.
func (db *DB) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	var p model.Profile
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, name, bio, followers, following, repos, location, website, profile_image, created_at
		 FROM github_profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Username, &p.Name, &p.Bio, &p.Followers, &p.Following,
		&p.Repos, &p.Location, &p.Website, &p.ProfileImage, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("saved profile")
	}
	if err != nil {
		return nil, apperror.Storage("load saved profile", err)
	}
	return &p, nil
}

// DeleteProfile removes a snapshot by id. The schema cascades the delete
// to the profile's notes. Zero affected rows is a storage failure.
func (db *DB) DeleteProfile(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM github_profiles WHERE id = ?`, id)
	if err != nil {
		return apperror.Storage("delete profile", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return apperror.Storage("delete profile", err)
	}
	return nil
}
