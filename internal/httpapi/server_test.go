package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/telemetry"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	base, err := knowledge.LoadDefault()
	require.NoError(t, err)
	formatter, err := advisory.NewFormatter(base, 0, 2)
	require.NoError(t, err)

	logger := logging.NewTestLogger().Logger
	tracer := telemetry.NewTestTelemetry().Tracer("test")

	permissionSvc, err := permission.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)
	toolrecSvc, err := toolrec.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)
	diagnoseSvc, err := diagnose.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)

	server, err := NewServer(permissionSvc, toolrecSvc, diagnoseSvc, logger, nil)
	require.NoError(t, err)
	return server
}

func postJSON(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server := setupTestServer(t)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 9091, server.config.Port)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		base, err := knowledge.LoadDefault()
		require.NoError(t, err)
		formatter, err := advisory.NewFormatter(base, 0, 2)
		require.NoError(t, err)
		tracer := telemetry.NewTestTelemetry().Tracer("test")
		logger := logging.NewTestLogger().Logger

		permissionSvc, err := permission.NewService(base, formatter, logger, tracer)
		require.NoError(t, err)
		toolrecSvc, err := toolrec.NewService(base, formatter, logger, tracer)
		require.NoError(t, err)
		diagnoseSvc, err := diagnose.NewService(base, formatter, logger, tracer)
		require.NoError(t, err)

		_, err = NewServer(permissionSvc, toolrecSvc, diagnoseSvc, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")

		_, err = NewServer(nil, toolrecSvc, diagnoseSvc, logger, nil)
		assert.Error(t, err)
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleMetrics(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePermissions(t *testing.T) {
	t.Run("reports missing scopes", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/permissions", PermissionsRequest{
			RequiredPermissions:  []string{"docx:document:create", "docx:document:write_only"},
			AvailablePermissions: []string{"docx:document:create"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, advisory.KindPermissionGap, result.Kind)
		assert.Equal(t, []string{"docx:document:write_only"}, result.MissingScopes)
		assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	})

	t.Run("resolves scopes from provider and action", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/permissions", PermissionsRequest{
			Provider:             "feishu_doc",
			Action:               "create",
			AvailablePermissions: []string{"docx:document:create"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Contains(t, result.MissingScopes, "docx:document:write_only")
	})

	t.Run("rejects empty query", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/permissions", PermissionsRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions", bytes.NewReader([]byte("{not json")))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleTools(t *testing.T) {
	t.Run("recommends tool for requirements", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/tools", ToolsRequest{
			Requirements: []string{"javascript_execution", "dynamic_content"},
			Complexity:   "high",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.NotNil(t, result.Primary)
		assert.Equal(t, "browser_automation", result.Primary.ToolID)
		assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	})

	t.Run("empty criteria returns first tool at zero confidence", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/tools", ToolsRequest{})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.NotNil(t, result.Primary)
		assert.Equal(t, 0.0, result.Confidence)
	})
}

func TestHandleErrors(t *testing.T) {
	t.Run("diagnoses permission error", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/errors", ErrorsRequest{
			APICall:      "feishu_doc.create",
			ErrorMessage: "403 Forbidden: insufficient permission",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, knowledge.CategoryPermission, result.Category)
		assert.False(t, result.Fallback)
	})

	t.Run("falls back on unknown error", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/errors", ErrorsRequest{
			ErrorMessage: "qwzx gibberish nothing matches",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Fallback)
		assert.Equal(t, 0.0, result.Confidence)
	})

	t.Run("empty error message falls back", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/errors", ErrorsRequest{})
		assert.Equal(t, http.StatusOK, rec.Code)

		var result advisory.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Fallback)
		assert.Equal(t, 0.0, result.Confidence)
	})

	t.Run("rejects out-of-range status", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postJSON(t, server, "/api/v1/errors", ErrorsRequest{
			ErrorMessage: "x",
			Status:       999,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", normalizePath(""))
	assert.Equal(t, "/api/v1/tools", normalizePath("/api/v1/tools"))
}
