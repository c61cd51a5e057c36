package store

import (
	"context"
	"time"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
)

// AddNote inserts a note attached to the given profile and returns its
// id. Text validation happens in the annotation service before this call.
func (db *DB) AddNote(ctx context.Context, profileID int64, text string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO profile_messages (profile_id, message, created_at) VALUES (?, ?, ?)`,
		profileID, text, time.Now().UTC(),
	)
	if err != nil {
		return 0, apperror.Storage("save message", err)
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return 0, apperror.Storage("save message", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.Storage("save message", err)
	}
	return id, nil
}

// ListNotes returns the notes for one profile, newest first. No notes is
// an empty slice.
func (db *DB) ListNotes(ctx context.Context, profileID int64) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, profile_id, sender_username, receiver_username, message, created_at
		 FROM profile_messages
		 WHERE profile_id = ?
		 ORDER BY created_at DESC, id DESC`,
		profileID,
	)
	if err != nil {
		return nil, apperror.Storage("load messages", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.SenderUsername, &n.ReceiverUsername, &n.Text, &n.CreatedAt); err != nil {
			return nil, apperror.Storage("load messages", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("load messages", err)
	}
	return notes, nil
}

// DeleteNote removes a note by id. Zero affected rows is a storage
// failure, including deletes of ids that never existed.
func (db *DB) DeleteNote(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM profile_messages WHERE id = ?`, id)
	if err != nil {
		return apperror.Storage("delete message", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return apperror.Storage("delete message", err)
	}
	return nil
}
