package models

import "time"

type FAQ struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category,omitempty"`
	Position    int       `json:"position"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type FAQInput struct {
	Question    string `json:"question"    validate:"required,min=5,max=500"`
	Answer      string `json:"answer"      validate:"required,min=2,max=5000"`
	Category    string `json:"category"    validate:"max=100"`
	Position    int    `json:"position"    validate:"min=0"`
	IsPublished bool   `json:"isPublished"`
}

type FAQReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}
