package domain

import (
	"time"

	"gorm.io/gorm"
)

// Resource is a shared study material within a channel: a link or an
// uploaded file, optionally carrying a generated summary.
type Resource struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	FileType     string    `json:"fileType,omitempty"`
	StorageKey   string    `json:"-"`
	Summary      string    `json:"summary,omitempty"`
	UploadedByID string    `json:"uploadedById"`
	UploadedBy   UserRef   `json:"uploadedBy"`
	Timestamp    time.Time `json:"timestamp"`
}

// ResourceModel is the GORM model for the resources table.
type ResourceModel struct {
	ID              string         `gorm:"type:varchar(36);primaryKey"`
	ChannelID       string         `gorm:"type:varchar(36);index;not null"`
	Title           string         `gorm:"type:varchar(200);not null"`
	URL             string         `gorm:"type:varchar(1000)"`
	FileType        string         `gorm:"type:varchar(100)"`
	StorageKey      string         `gorm:"type:varchar(500)"`
	Summary         string         `gorm:"type:text"`
	UploadedByID    string         `gorm:"type:varchar(36);index;not null"`
	UploadedByEmail string         `gorm:"type:varchar(255);not null"`
	Timestamp       time.Time      `gorm:"autoCreateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ResourceModel) TableName() string { return "resources" }

// ToDomain converts ResourceModel to domain Resource.
func (m *ResourceModel) ToDomain() *Resource {
	return &Resource{
		ID:           m.ID,
		ChannelID:    m.ChannelID,
		Title:        m.Title,
		URL:          m.URL,
		FileType:     m.FileType,
		StorageKey:   m.StorageKey,
		Summary:      m.Summary,
		UploadedByID: m.UploadedByID,
		UploadedBy:   UserRef{ID: m.UploadedByID, Email: m.UploadedByEmail},
		Timestamp:    m.Timestamp,
	}
}

// ResourceToModel converts domain Resource to ResourceModel.
func ResourceToModel(r *Resource) *ResourceModel {
	return &ResourceModel{
		ID:              r.ID,
		ChannelID:       r.ChannelID,
		Title:           r.Title,
		URL:             r.URL,
		FileType:        r.FileType,
		StorageKey:      r.StorageKey,
		Summary:         r.Summary,
		UploadedByID:    r.UploadedByID,
		UploadedByEmail: r.UploadedBy.Email,
		Timestamp:       r.Timestamp,
	}
}

// SummarizeRequest carries the extracted text of a resource for summarization.
type SummarizeRequest struct {
	Content string `json:"content" binding:"required"`
}
