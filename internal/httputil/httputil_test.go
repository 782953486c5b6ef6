package httputil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/keyfold/keyfold/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func createTestContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, recorder
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantOffset int
		wantLimit  int
		wantErr    bool
	}{
		{name: "defaults", target: "/v1/credentials", wantOffset: 0, wantLimit: 50},
		{name: "explicit values", target: "/v1/credentials?offset=10&limit=25", wantOffset: 10, wantLimit: 25},
		{name: "max limit", target: "/v1/credentials?limit=100", wantOffset: 0, wantLimit: 100},
		{name: "limit too large", target: "/v1/credentials?limit=101", wantErr: true},
		{name: "zero limit", target: "/v1/credentials?limit=0", wantErr: true},
		{name: "negative offset", target: "/v1/credentials?offset=-1", wantErr: true},
		{name: "non-numeric offset", target: "/v1/credentials?offset=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := createTestContext(t, tt.target)

			offset, limit, err := ParsePagination(c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		ctx := WithRequestID(context.Background(), id)

		assert.Equal(t, id, RequestIDFromContext(ctx))
	})

	t.Run("absent returns nil uuid", func(t *testing.T) {
		assert.Equal(t, uuid.Nil, RequestIDFromContext(context.Background()))
	})
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: apperrors.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "conflict", err: apperrors.ErrConflict, wantStatus: http.StatusConflict, wantCode: "conflict"},
		{name: "invalid input", err: apperrors.ErrInvalidInput, wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_input"},
		{name: "unauthorized", err: apperrors.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "forbidden", err: apperrors.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "unknown error stays opaque", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := createTestContext(t, "/v1/credentials")

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantCode)
		})
	}

	t.Run("internal detail is not leaked", func(t *testing.T) {
		c, recorder := createTestContext(t, "/v1/credentials")

		HandleErrorGin(c, errors.New("pq: connection refused"), logger)

		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, recorder := createTestContext(t, "/v1/credentials")

		HandleErrorGin(c, nil, logger)

		assert.Empty(t, recorder.Body.String())
	})
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := createTestContext(t, "/v1/credentials")

	HandleValidationErrorGin(c, errors.New("name: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "validation_error")
	assert.Contains(t, recorder.Body.String(), "name: cannot be blank")
}

func TestMakeJSONResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	MakeJSONResponse(recorder, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}
