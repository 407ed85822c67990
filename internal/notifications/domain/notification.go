// Package domain contains the notification model.
package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = sharedDomain.NotFoundf("notification not found")
	ErrEmptyTitle           = sharedDomain.Validationf("notification title is required")
)

// Type categorizes what a notification is about.
type Type string

const (
	TypeTaskAssigned      Type = "task_assigned"
	TypeTaskCompleted     Type = "task_completed"
	TypeTaskStatusChanged Type = "task_status_changed"
	TypeCommentMention    Type = "comment_mention"
	TypeGeneral           Type = "general"
)

// Priority orders notifications in the inbox.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is a per-user inbox item. Notifications are advisory:
// failing to create one never fails the operation that triggered it.
type Notification struct {
	sharedDomain.BaseEntity
	userID     uuid.UUID
	taskID     *uuid.UUID
	title      string
	message    string
	notifType  Type
	read       bool
	readAt     *time.Time
	actionURL  *string
	priority   Priority
	sendEmail  bool
	emailSent  bool
	emailError *string
}

// NewNotification creates an unread notification for the user.
func NewNotification(userID uuid.UUID, taskID *uuid.UUID, title, message string, notifType Type, priority Priority) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if notifType == "" {
		notifType = TypeGeneral
	}
	if priority == "" {
		priority = PriorityMedium
	}

	return &Notification{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		taskID:     taskID,
		title:      title,
		message:    strings.TrimSpace(message),
		notifType:  notifType,
		priority:   priority,
		sendEmail:  priority == PriorityHigh,
	}, nil
}

// RehydrateNotification recreates a notification from persisted state.
func RehydrateNotification(
	id, userID uuid.UUID,
	taskID *uuid.UUID,
	title, message string,
	notifType Type,
	read bool,
	readAt *time.Time,
	actionURL *string,
	priority Priority,
	sendEmail, emailSent bool,
	emailError *string,
	createdAt, updatedAt time.Time,
) *Notification {
	return &Notification{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		taskID:     taskID,
		title:      title,
		message:    message,
		notifType:  notifType,
		read:       read,
		readAt:     readAt,
		actionURL:  actionURL,
		priority:   priority,
		sendEmail:  sendEmail,
		emailSent:  emailSent,
		emailError: emailError,
	}
}

// Getters
func (n *Notification) UserID() uuid.UUID  { return n.userID }
func (n *Notification) TaskID() *uuid.UUID { return n.taskID }
func (n *Notification) Title() string      { return n.title }
func (n *Notification) Message() string    { return n.message }
func (n *Notification) Type() Type         { return n.notifType }
func (n *Notification) IsRead() bool       { return n.read }
func (n *Notification) ReadAt() *time.Time { return n.readAt }
func (n *Notification) ActionURL() *string { return n.actionURL }
func (n *Notification) Priority() Priority { return n.priority }
func (n *Notification) SendEmail() bool    { return n.sendEmail }
func (n *Notification) EmailSent() bool    { return n.emailSent }
func (n *Notification) EmailError() *string {
	return n.emailError
}

// IsOwnedBy checks if the notification belongs to the user.
func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.userID == userID
}

// SetActionURL attaches a link the inbox renders for this item.
func (n *Notification) SetActionURL(url string) {
	if url == "" {
		n.actionURL = nil
	} else {
		n.actionURL = &url
	}
	n.Touch()
}

// MarkRead marks the notification read. Idempotent.
func (n *Notification) MarkRead(at time.Time) {
	if n.read {
		return
	}
	n.read = true
	n.readAt = &at
	n.Touch()
}

// MarkEmailSent records that the email copy went out.
func (n *Notification) MarkEmailSent() {
	n.emailSent = true
	n.emailError = nil
	n.Touch()
}

// MarkEmailFailed records why the email copy could not be sent.
func (n *Notification) MarkEmailFailed(reason string) {
	n.emailSent = false
	n.emailError = &reason
	n.Touch()
}
