package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// GenerationStatus represents the terminal state of a pipeline run.
type GenerationStatus string

const (
	GenerationStatusOK     GenerationStatus = "ok"
	GenerationStatusFailed GenerationStatus = "failed"
)

// StringArray stores a string slice as JSON text in the database.
type StringArray []string

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// GenerationRecord is the persisted metadata of one pipeline run. Image bytes
// are never stored; only per-concept outcome classification and sizing data
// needed for history and cost accounting.
type GenerationRecord struct {
	ID           string           `gorm:"type:text;primaryKey" json:"id"`
	Language     Language         `gorm:"type:text;index:idx_generations_language" json:"language"`
	ContextChars int              `json:"context_chars"`
	IntentChars  int              `json:"intent_chars"`
	TextModel    string           `gorm:"type:text" json:"text_model"`
	ImageModel   string           `gorm:"type:text" json:"image_model"`
	ConceptCount int              `json:"concept_count"`
	Outcomes     StringArray      `gorm:"type:text" json:"outcomes"`
	Styles       StringArray      `gorm:"type:text" json:"styles"`
	Status       GenerationStatus `gorm:"type:text;index:idx_generations_status" json:"status"`
	Error        string           `gorm:"type:text" json:"error,omitempty"`
	DurationMs   int64            `json:"duration_ms"`
	CreatedAt    time.Time        `json:"created_at"`
}

// TableName returns the database table name for GenerationRecord.
func (GenerationRecord) TableName() string {
	return "generations"
}
