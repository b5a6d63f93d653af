package models

import "time"

// Действия, которые попадают в журнал админки.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPublish = "publish"
	ActionStatus  = "status"
	ActionLogin   = "login"
	ActionUpload  = "upload"
	ActionReorder = "reorder"
)

const (
	EntityPost     = "post"
	EntityCategory = "category"
	EntityTag      = "tag"
	EntityContact  = "contact"
	EntityFAQ      = "faq"
	EntityMedia    = "media"
	EntityUser     = "user"
)

type ActivityLog struct {
	ID         int64          `json:"id"`
	UserID     *int64         `json:"userId,omitempty"`
	Username   string         `json:"username,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type ActivityFilter struct {
	UserID     *int64
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}
