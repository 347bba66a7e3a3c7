package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/droverhq/drover/pkg/services"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", services.NewValidationError("query", "required"), http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("reading: %w", services.ErrNotFound), http.StatusNotFound},
		{"invalid transition", services.ErrInvalidTransition, http.StatusConflict},
		{"already exists", services.ErrAlreadyExists, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := mapServiceError(tt.err)
			assert.Equal(t, tt.want, he.Code)
		})
	}
}
