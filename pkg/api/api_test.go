package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/fastflow/pkg/api"
	pkgerrors "github.com/absmach/fastflow/pkg/errors"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/stretchr/testify/assert"
)

func TestEncodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: workers", pkgerrors.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "validation", err: errors.Join(apiutil.ErrValidation, errors.New("bad query")), status: http.StatusBadRequest},
		{name: "content type", err: errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType), status: http.StatusUnsupportedMediaType},
		{name: "not found", err: pkgerrors.ErrNotFound, status: http.StatusNotFound},
		{name: "conflict", err: pkgerrors.ErrEntityExists, status: http.StatusConflict},
		{name: "not configured", err: pkgerrors.ErrNotConfigured, status: http.StatusServiceUnavailable},
		{name: "worker failure", err: fmt.Errorf("%w: partition 3", pkgerrors.ErrWorkerFailure), status: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			api.EncodeError(context.Background(), tt.err, rec)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, api.ContentType, rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.err.Error()), rec.Body.String())
		})
	}
}
