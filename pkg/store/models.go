package store

import (
	"time"

	"schooldirectory/pkg/domain"
)

// SchoolModel is the GORM model backing the schools table. Website is NOT
// NULL (empty string when not supplied); Image stays a nullable column so
// a record without a photo reads back as nil.
type SchoolModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"not null"`
	Address   string  `gorm:"not null"`
	City      string  `gorm:"not null;index"`
	State     string  `gorm:"not null;index"`
	Contact   string  `gorm:"not null;size:10"`
	EmailID   string  `gorm:"not null"`
	Website   string  `gorm:"not null;default:''"`
	Image     *string
	CreatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name the original schema used.
func (SchoolModel) TableName() string { return "schools" }

func toModel(s domain.School) SchoolModel {
	return SchoolModel{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		Contact:   s.Contact,
		EmailID:   s.EmailID,
		Website:   s.Website,
		Image:     s.Image,
		CreatedAt: s.CreatedAt,
	}
}

func toDomain(m SchoolModel) domain.School {
	return domain.School{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		State:     m.State,
		Contact:   m.Contact,
		EmailID:   m.EmailID,
		Website:   m.Website,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
	}
}
