package models

import "time"

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

type Contact struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   string        `json:"company,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	IP        string        `json:"ip,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// swagger:model ContactRequest
type ContactRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Company string `json:"company" validate:"max=120"`
	Phone   string `json:"phone"   validate:"max=32"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type ContactStatusRequest struct {
	Status ContactStatus `json:"status" validate:"required,oneof=new read replied archived"`
}

type ContactFilter struct {
	Status ContactStatus
	Query  string
	Page   int
	Limit  int
}
