package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tenanthub-backend/shared/database"
	"tenanthub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UnifiedResponse represents the standard API response format
type UnifiedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID     string `json:"request_id"`
	Timestamp     string `json:"timestamp"`
	ExecutionTime string `json:"execution_time"`
	Method        string `json:"method"`
	Path          string `json:"path"`
}

// responseWriter wraps gin.ResponseWriter to capture the upstream response
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

// WriteHeader is deferred until the envelope is ready.
func (w *responseWriter) WriteHeader(status int) {
	w.status = status
}

// UnifiedResponseMiddleware wraps every proxied response in the gateway
// envelope and records an audit log row for the request.
func UnifiedResponseMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		if shouldSkipUnifiedResponse(c) {
			c.Next()
			go saveAuditLogAsync(c, "", c.Writer.Status(), requestID, time.Since(startTime))
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			status:         200,
		}
		c.Writer = w

		c.Next()

		executionTime := time.Since(startTime)
		originalResponse := w.body.String()
		statusCode := w.status

		unified := transformToUnifiedResponse(c, originalResponse, statusCode, requestID, executionTime)

		w.ResponseWriter.Header().Set("Content-Type", "application/json")
		w.ResponseWriter.WriteHeader(statusCode)
		json.NewEncoder(w.ResponseWriter).Encode(unified)

		go saveAuditLogAsync(c, originalResponse, statusCode, requestID, executionTime)
	}
}

// transformToUnifiedResponse converts an upstream response to the envelope
func transformToUnifiedResponse(c *gin.Context, originalResponse string, statusCode int, requestID string, executionTime time.Duration) UnifiedResponse {
	isSuccess := statusCode >= 200 && statusCode < 300

	unified := UnifiedResponse{
		Success: isSuccess,
		Message: getAutoMessage(c.Request.Method, statusCode, isSuccess),
		Meta: &MetaInfo{
			RequestID:     requestID,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ExecutionTime: fmt.Sprintf("%dms", executionTime.Milliseconds()),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
		},
	}

	if originalResponse == "" {
		return unified
	}

	var originalData interface{}
	if err := json.Unmarshal([]byte(originalResponse), &originalData); err != nil {
		if !isSuccess {
			unified.Error = &ErrorInfo{Code: getErrorCode(statusCode), Details: originalResponse}
		}
		return unified
	}

	if isSuccess {
		if dataMap, ok := originalData.(map[string]interface{}); ok {
			if data, exists := dataMap["data"]; exists {
				unified.Data = data
			} else {
				unified.Data = originalData
			}
			if msg, exists := dataMap["message"]; exists {
				if msgStr, ok := msg.(string); ok && msgStr != "" {
					unified.Message = msgStr
				}
			}
		} else {
			unified.Data = originalData
		}
		return unified
	}

	details := originalResponse
	if errorMap, ok := originalData.(map[string]interface{}); ok {
		if errMsg, exists := errorMap["error"]; exists {
			details = fmt.Sprintf("%v", errMsg)
		}
	}
	unified.Error = &ErrorInfo{
		Code:    getErrorCode(statusCode),
		Details: details,
	}

	return unified
}

// getAutoMessage generates appropriate success/error messages
func getAutoMessage(method string, statusCode int, isSuccess bool) string {
	if isSuccess {
		switch method {
		case "POST":
			return "Record created successfully"
		case "PUT", "PATCH":
			return "Record updated successfully"
		case "DELETE":
			return "Record deleted successfully"
		case "GET":
			return "Data retrieved successfully"
		default:
			return "Operation completed successfully"
		}
	}

	switch statusCode {
	case 400:
		return "Invalid request data"
	case 401:
		return "Authentication required"
	case 403:
		return "Permission denied"
	case 404:
		return "Resource not found"
	case 409:
		return "Resource already exists"
	case 422:
		return "Validation failed"
	case 500:
		return "Internal server error"
	case 502:
		return "Service unavailable"
	default:
		return "Operation failed"
	}
}

// getErrorCode generates error codes based on status
func getErrorCode(statusCode int) string {
	switch statusCode {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 422:
		return "VALIDATION_ERROR"
	case 500:
		return "INTERNAL_ERROR"
	case 502:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN_ERROR"
	}
}

// saveAuditLogAsync writes the audit row off the request path
func saveAuditLogAsync(c *gin.Context, originalResponse string, statusCode int, requestID string, executionTime time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Audit log failed: %v\n", r)
		}
	}()

	var userID *uuid.UUID
	if userIDStr, exists := c.Get("user_id"); exists {
		if id, err := uuid.Parse(fmt.Sprintf("%v", userIDStr)); err == nil {
			userID = &id
		}
	}

	service := ""
	if target, exists := c.Get("proxy_target"); exists {
		service = fmt.Sprintf("%v", target)
	}

	var responseBody interface{}
	if originalResponse != "" && statusCode >= 400 {
		// Only error payloads are kept. Successful payloads can carry
		// tenant data that does not belong in the audit table.
		json.Unmarshal([]byte(originalResponse), &responseBody)
	}

	auditLog := notification.AuditLog{
		UserID:       userID,
		Service:      service,
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		StatusCode:   statusCode,
		ResponseBody: responseBody,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Duration:     executionTime.Milliseconds(),
		RequestID:    requestID,
	}

	db := database.GetDB()
	if db == nil {
		return
	}

	if err := db.Create(&auditLog).Error; err != nil {
		fmt.Printf("❌ Failed to save audit log: %v\n", err)
	}
}

// shouldSkipUnifiedResponse reports whether the path bypasses the envelope
func shouldSkipUnifiedResponse(c *gin.Context) bool {
	path := c.Request.URL.Path

	// WebSocket upgrades and file downloads must not be buffered or
	// rewritten. Health and docs endpoints keep their raw shape.
	excludePaths := []string{
		"/ws/",
		"/swagger",
		"/docs",
		"/health",
	}

	for _, excludePath := range excludePaths {
		if strings.HasPrefix(path, excludePath) {
			return true
		}
	}

	if strings.HasSuffix(path, "/download") {
		return true
	}

	return false
}
