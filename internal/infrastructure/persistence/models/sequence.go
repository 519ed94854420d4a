package models

import "time"

// DocumentSequenceModel holds the last number issued per document type
type DocumentSequenceModel struct {
	DocType   string    `gorm:"type:varchar(32);primaryKey"`
	LastValue int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
