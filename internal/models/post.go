package models

import (
	"encoding/json"
	"time"

	"sitecms/internal/content"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type BlogPost struct {
	ID           int64                          `json:"id"`
	Title        string                         `json:"title"`
	Slug         string                         `json:"slug"`
	Content      []content.Block                `json:"content"`
	Excerpt      string                         `json:"excerpt"`
	HeroImage    string                         `json:"heroImage,omitempty"`
	Author       string                         `json:"author"`
	AuthorID     *int64                         `json:"authorId,omitempty"`
	Status       PostStatus                     `json:"status"`
	Featured     bool                           `json:"featured"`
	CategoryID   *int64                         `json:"categoryId,omitempty"`
	Category     *CategoryRef                   `json:"category,omitempty"`
	Tags         []string                       `json:"tags"`
	SEO          content.SEO                    `json:"seo"`
	Translations map[string]content.Translation `json:"translations,omitempty"`
	ReadingTime  int                            `json:"readingTime"`
	Views        int64                          `json:"views"`
	PublishedAt  *time.Time                     `json:"publishedAt,omitempty"`
	CreatedAt    time.Time                      `json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

// PostSummary — карточка поста для списков (без тела и переводов).
type PostSummary struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	HeroImage   string       `json:"heroImage,omitempty"`
	Author      string       `json:"author"`
	Status      PostStatus   `json:"status"`
	Featured    bool         `json:"featured"`
	Category    *CategoryRef `json:"category,omitempty"`
	Tags        []string     `json:"tags"`
	ReadingTime int          `json:"readingTime"`
	Views       int64        `json:"views"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (p *BlogPost) Summary() PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		HeroImage:   p.HeroImage,
		Author:      p.Author,
		Status:      p.Status,
		Featured:    p.Featured,
		Category:    p.Category,
		Tags:        p.Tags,
		ReadingTime: p.ReadingTime,
		Views:       p.Views,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// swagger:model PostInput
type PostInput struct {
	Title        string                     `json:"title"        validate:"required,min=3,max=255" example:"Как мы запускали новый сайт"`
	Slug         string                     `json:"slug"         validate:"omitempty,max=255"`
	Content      []content.Block            `json:"content"`
	Excerpt      string                     `json:"excerpt"      validate:"max=500"`
	HeroImage    string                     `json:"heroImage"    validate:"max=1024"`
	Author       string                     `json:"author"       validate:"max=120"`
	Featured     bool                       `json:"featured"`
	CategoryID   *int64                     `json:"categoryId"`
	Tags         []string                   `json:"tags"         validate:"max=10,dive,max=50"`
	SEO          content.SEO                `json:"seo"`
	Translations map[string]json.RawMessage `json:"translations" swaggertype:"object"`
	Status       PostStatus                 `json:"status"       validate:"omitempty,oneof=draft published archived"`
}

type StatusRequest struct {
	Status PostStatus `json:"status" validate:"required,oneof=draft published archived"`
}

type PostFilter struct {
	Status       PostStatus
	CategorySlug string
	Tag          string
	Featured     *bool
	Query        string
	Page         int
	Limit        int
}

// RenderedPost — пост, готовый к показу на сайте (с учётом локали).
type RenderedPost struct {
	Post        *BlogPost `json:"post"`
	Locale      string    `json:"locale"`
	HTML        string    `json:"html"`
	ReadingTime int       `json:"readingTime"`
}
