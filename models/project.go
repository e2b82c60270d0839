package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Project represents the projects table. The punch list and photo metadata are
// owned by the project and stored inline as jsonb columns; photo binaries live
// in the blob store under the keys recorded here.
type Project struct {
	ProjectID   int             `gorm:"primaryKey;column:project_id" json:"project_id"`
	Name        string          `gorm:"column:name" json:"name"`
	Address     string          `gorm:"column:address" json:"address"`
	ProjectType string          `gorm:"column:project_type" json:"project_type"`
	Status      string          `gorm:"column:status" json:"status"`
	StartDate   time.Time       `gorm:"column:start_date" json:"start_date"`
	EndDate     time.Time       `gorm:"column:end_date" json:"end_date"`
	Budget      decimal.Decimal `gorm:"column:budget;type:decimal(20,4)" json:"budget"`
	PunchList   PunchList       `gorm:"column:punch_list;type:jsonb" json:"punch_list"`
	Photos      PhotoList       `gorm:"column:photos;type:jsonb" json:"photos"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// PunchListPhoto references the stored images attached to a punch list item:
// the base photo and, when the user has drawn on it, the annotated copy.
type PunchListPhoto struct {
	BaseKey      string `json:"base_key"`
	AnnotatedKey string `json:"annotated_key,omitempty"`
}

// PunchListItem is one entry of a project's punch list. Item ids are unique
// within the owning project but assigned from the global item id space.
type PunchListItem struct {
	ItemID     int             `json:"item_id"`
	Text       string          `json:"text"`
	IsComplete bool            `json:"is_complete"`
	Photo      *PunchListPhoto `json:"photo,omitempty"`
}

// ProjectPhoto is the metadata of one project photo; the binary payload is
// retrieved from the blob store via BlobKey.
type ProjectPhoto struct {
	PhotoID     int       `json:"photo_id"`
	Description string    `json:"description"`
	BlobKey     string    `json:"blob_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PunchList is a jsonb-backed ordered collection of punch list items.
type PunchList []PunchListItem

// Value implements the driver.Valuer interface
func (p PunchList) Value() (driver.Value, error) {
	if p == nil {
		p = PunchList{}
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *PunchList) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// PhotoList is a jsonb-backed ordered collection of project photo metadata.
type PhotoList []ProjectPhoto

// Value implements the driver.Valuer interface
func (p PhotoList) Value() (driver.Value, error) {
	if p == nil {
		p = PhotoList{}
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *PhotoList) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
}

// ProjectCreateRequest is the payload for creating a project.
type ProjectCreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Address     string          `json:"address"`
	ProjectType string          `json:"project_type"`
	Status      string          `json:"status"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Budget      decimal.Decimal `json:"budget"`
}

// ProjectUpdateRequest is a partial update; nil fields are left unchanged.
// The punch list and photos have their own operations and are not updatable
// through this payload.
type ProjectUpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Address     *string          `json:"address,omitempty"`
	ProjectType *string          `json:"project_type,omitempty"`
	Status      *string          `json:"status,omitempty"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
}
