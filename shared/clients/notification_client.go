package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tenanthub-backend/shared/config"
)

// NotificationClient handles communication with notification service.
// Callers treat failures as non-fatal: a lost email never rolls back a
// committed business operation.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient() *NotificationClient {
	cfg := config.GetConfig()
	return &NotificationClient{
		baseURL: cfg.NotificationServiceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Email request structs
type InvitationEmailRequest struct {
	Email         string `json:"email"`
	WorkspaceName string `json:"workspace_name"`
	InviterName   string `json:"inviter_name"`
	Role          string `json:"role"`
	Token         string `json:"token"`
	ExpiresAt     string `json:"expires_at"`
}

type WelcomeEmailRequest struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	WorkspaceName    string `json:"workspace_name"`
}

type MemberJoinedRequest struct {
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	MemberName    string `json:"member_name"`
	MemberEmail   string `json:"member_email"`
	Role          string `json:"role"`
	NotifyUserID  string `json:"notify_user_id"`
}

// EmailResponse represents email service response
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// SendInvitationEmail sends a workspace invitation email with the accept link
func (nc *NotificationClient) SendInvitationEmail(req InvitationEmailRequest) error {
	return nc.sendRequest("/api/notifications/email/invitation", req)
}

// SendWelcomeEmail sends the post-onboarding welcome email
func (nc *NotificationClient) SendWelcomeEmail(req WelcomeEmailRequest) error {
	return nc.sendRequest("/api/notifications/email/welcome", req)
}

// NotifyMemberJoined pushes a member-joined notification to the inviter
func (nc *NotificationClient) NotifyMemberJoined(req MemberJoinedRequest) error {
	return nc.sendRequest("/api/notifications/member-joined", req)
}

// Generic sender
func (nc *NotificationClient) sendRequest(endpoint string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s%s", nc.baseURL, endpoint)
	resp, err := nc.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned status: %d", resp.StatusCode)
	}

	return nil
}
