package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"sentinel", ErrClubNotFound, http.StatusNotFound, "CLUB_NOT_FOUND", "club not found"},
		{"wrapped", fmt.Errorf("approve: %w", ErrNotPending), http.StatusConflict, "NOT_PENDING", ErrNotPending.Error()},
		{"form required", ErrFormRequired, http.StatusBadRequest, "FORM_REQUIRED", ErrFormRequired.Error()},
		{"validation message", Invalid("name must be at least 3 characters"), http.StatusBadRequest, "INVALID_INPUT", "name must be at least 3 characters"},
		{"answers message", InvalidAnswers("question 2 expects a phone number"), http.StatusBadRequest, "INVALID_ANSWERS", "question 2 expects a phone number"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, ErrorResponse{Error: tt.wantMsg, Code: tt.wantCode}, httpErr.ToErrorResponse())
		})
	}
}
