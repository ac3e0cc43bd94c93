package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(method, path string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, path, nil)
	return c
}

func TestTransformSuccessResponse(t *testing.T) {
	c := testContext("GET", "/api/workspaces")

	unified := transformToUnifiedResponse(c, `{"id": "abc", "name": "Engineering"}`, 200, "req-1", 5*time.Millisecond)

	assert.True(t, unified.Success)
	assert.Equal(t, "Data retrieved successfully", unified.Message)
	assert.Nil(t, unified.Error)

	data, ok := unified.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Engineering", data["name"])

	require.NotNil(t, unified.Meta)
	assert.Equal(t, "req-1", unified.Meta.RequestID)
	assert.Equal(t, "GET", unified.Meta.Method)
	assert.Equal(t, "/api/workspaces", unified.Meta.Path)
	assert.Equal(t, "5ms", unified.Meta.ExecutionTime)
}

func TestTransformUnwrapsDataEnvelope(t *testing.T) {
	c := testContext("POST", "/api/workspaces")

	unified := transformToUnifiedResponse(c, `{"data": {"id": "abc"}, "message": "Workspace created"}`, 201, "req-2", time.Millisecond)

	assert.True(t, unified.Success)
	assert.Equal(t, "Workspace created", unified.Message)

	data, ok := unified.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc", data["id"])
}

func TestTransformErrorResponse(t *testing.T) {
	c := testContext("DELETE", "/api/workspaces/abc")

	unified := transformToUnifiedResponse(c, `{"error": "Workspace not found"}`, 404, "req-3", time.Millisecond)

	assert.False(t, unified.Success)
	assert.Equal(t, "Resource not found", unified.Message)
	assert.Nil(t, unified.Data)
	require.NotNil(t, unified.Error)
	assert.Equal(t, "NOT_FOUND", unified.Error.Code)
	assert.Equal(t, "Workspace not found", unified.Error.Details)
}

func TestTransformNonJSONErrorBody(t *testing.T) {
	c := testContext("GET", "/api/workspaces")

	unified := transformToUnifiedResponse(c, "upstream blew up", 500, "req-4", time.Millisecond)

	assert.False(t, unified.Success)
	require.NotNil(t, unified.Error)
	assert.Equal(t, "INTERNAL_ERROR", unified.Error.Code)
	assert.Equal(t, "upstream blew up", unified.Error.Details)
}

func TestTransformEmptyBody(t *testing.T) {
	c := testContext("DELETE", "/api/notifications/abc")

	unified := transformToUnifiedResponse(c, "", 204, "req-5", time.Millisecond)

	assert.True(t, unified.Success)
	assert.Equal(t, "Record deleted successfully", unified.Message)
	assert.Nil(t, unified.Data)
	assert.Nil(t, unified.Error)
}

func TestGetAutoMessage(t *testing.T) {
	assert.Equal(t, "Record created successfully", getAutoMessage("POST", 201, true))
	assert.Equal(t, "Record updated successfully", getAutoMessage("PUT", 200, true))
	assert.Equal(t, "Authentication required", getAutoMessage("GET", 401, false))
	assert.Equal(t, "Permission denied", getAutoMessage("GET", 403, false))
	assert.Equal(t, "Service unavailable", getAutoMessage("GET", 502, false))
	assert.Equal(t, "Operation failed", getAutoMessage("GET", 418, false))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", getErrorCode(400))
	assert.Equal(t, "CONFLICT", getErrorCode(409))
	assert.Equal(t, "SERVICE_UNAVAILABLE", getErrorCode(502))
	assert.Equal(t, "UNKNOWN_ERROR", getErrorCode(418))
}

func TestShouldSkipUnifiedResponse(t *testing.T) {
	assert.True(t, shouldSkipUnifiedResponse(testContext("GET", "/health")))
	assert.True(t, shouldSkipUnifiedResponse(testContext("GET", "/swagger/index.html")))
	assert.True(t, shouldSkipUnifiedResponse(testContext("GET", "/ws/notifications/abc")))
	assert.True(t, shouldSkipUnifiedResponse(testContext("GET", "/api/knowledge/documents/abc/download")))

	assert.False(t, shouldSkipUnifiedResponse(testContext("GET", "/api/workspaces")))
	assert.False(t, shouldSkipUnifiedResponse(testContext("POST", "/api/auth/login")))
}
