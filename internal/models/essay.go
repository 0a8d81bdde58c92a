package models

import (
	"time"

	"gorm.io/datatypes"
)

// Essay kinds describe how the text reached the platform.
const (
	EssayKindText = "text"
	EssayKindPDF  = "pdf"
)

// Essay stores a submitted essay together with its evaluation.
type Essay struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Kind          string         `gorm:"size:16;not null" json:"kind"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	WordCount     int            `gorm:"not null;default:0" json:"word_count"`
	TotalMarks    int            `gorm:"not null" json:"total_marks"`
	IsOutlineOnly bool           `gorm:"not null;default:false" json:"is_outline_only"`
	Source        string         `gorm:"size:16;not null" json:"source"`
	RubricVersion string         `gorm:"size:32" json:"rubric_version"`
	Result        datatypes.JSON `json:"result"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Profile       Profile        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsFallback reports whether the stored evaluation came from fallback analysis.
func (e Essay) IsFallback() bool {
	return e.Source == "fallback"
}
