package domain

import (
	"strings"
	"time"
)

// CleanName trims a submitted name; blank names fail validation on field.
func CleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", BadRequest(CodeValidationFailed, field+" should not be empty")
	}
	return name, nil
}

// Group -> Category -> Sort hierarchy.

type Group struct {
	ID         uint       `gorm:"primaryKey"`
	Name       string     `gorm:"size:191;not null;uniqueIndex"`
	Categories []Category `gorm:"foreignKey:GroupID"`
	SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Group) TableName() string { return "plant_groups" }

type Category struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:191;not null"`
	GroupID uint   `gorm:"index;not null"`
	Sorts   []Sort `gorm:"foreignKey:CategoryID"`
	SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }

type Sort struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:191;not null;uniqueIndex"`
	CategoryID uint   `gorm:"index;not null"`
	SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Sort) TableName() string { return "sorts" }

type CategoryFilter struct {
	GroupID uint   `form:"groupId"`
	Name    string `form:"name"`
}

type SortFilter struct {
	CategoryID uint   `form:"categoryId"`
	Name       string `form:"name"`
}
