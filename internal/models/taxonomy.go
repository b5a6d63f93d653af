package models

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PostCount   int       `json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Slug        string `json:"slug"        validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PostCount int       `json:"postCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
