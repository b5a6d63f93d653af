package models

import "time"

type Media struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mimeType"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int64     `json:"size"`
	UploadedBy   *int64    `json:"uploadedBy,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
