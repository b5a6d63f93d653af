package models

type DashboardStats struct {
	PostsTotal     int `json:"postsTotal"`
	PostsDraft     int `json:"postsDraft"`
	PostsPublished int `json:"postsPublished"`
	PostsArchived  int `json:"postsArchived"`
	PostsFeatured  int `json:"postsFeatured"`

	Categories int `json:"categories"`
	Tags       int `json:"tags"`
	FAQs       int `json:"faqs"`

	ContactsTotal int `json:"contactsTotal"`
	ContactsNew   int `json:"contactsNew"`

	MediaCount      int `json:"mediaCount"`
	EditorSessions  int `json:"editorSessions"`
	ActivityLast24h int `json:"activityLast24h"`
}
