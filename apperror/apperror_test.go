package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"setshaba-be/models"
	"setshaba-be/store"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		err    error
		code   Code
		status int
	}{
		{store.ErrMissingFields, CodeMissingRequired, http.StatusBadRequest},
		{fmt.Errorf("get: %w", store.ErrIssueNotFound), CodeNotFound, http.StatusNotFound},
		{store.ErrUserNotFound, CodeNotFound, http.StatusNotFound},
		{store.ErrFeedbackNotFound, CodeNotFound, http.StatusNotFound},
		{fmt.Errorf("update: %w", store.ErrIssueConflict), CodeEditConflict, http.StatusConflict},
		{models.ErrInvalidFeedbackStatus, CodeInvalidInput, http.StatusBadRequest},
		{store.ErrEmailTaken, CodeConflict, http.StatusConflict},
		{models.ErrInvalidStatus, CodeInvalidInput, http.StatusBadRequest},
		{models.ErrInvalidCategory, CodeInvalidInput, http.StatusBadRequest},
		{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
		{New(CodeRateLimit, "slow down"), CodeRateLimit, http.StatusTooManyRequests},
		{errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got := From(tc.err)
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
		assert.Equal(t, tc.status, got.Status(), tc.err.Error())
	}
}

func TestAppErrorIsAndUnwrap(t *testing.T) {
	err := Wrap(CodeNotFound, "Issue not found", store.ErrIssueNotFound)

	assert.True(t, errors.Is(err, store.ErrIssueNotFound))
	assert.True(t, errors.Is(err, New(CodeNotFound, "anything")))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "RECORD_NOT_FOUND")
}

func TestJSON(t *testing.T) {
	body := New(CodeForbidden, "nope").JSON()
	assert.Equal(t, "nope", body["error"])
	assert.Equal(t, CodeForbidden, body["code"])
}
