package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"not found", NotFound("user"), ErrNotFound, "user not found"},
		{"transient", Transient("repositories", cause), ErrTransient, "failed to fetch repositories"},
		{"timeout", Timeout(), ErrTimeout, "request timed out, check your connection and try again"},
		{"offline", Offline(), ErrOffline, "no internet connection"},
		{"validation", Validation("please enter a username"), ErrValidation, "please enter a username"},
		{"storage", Storage("save profile", cause), ErrStorage, "failed to save profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.msg, UserMessage(tt.err))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("save profile", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrTransient)
}

func TestUserMessageFallback(t *testing.T) {
	assert.Equal(t, "something went wrong, please try again", UserMessage(errors.New("boom")))
}

func TestWrappedErrorKeepsClassification(t *testing.T) {
	err := fmt.Errorf("searching profile: %w", NotFound("user"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "user not found", UserMessage(err))
}
