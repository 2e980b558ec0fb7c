package catalog

import (
	"errors"
	"fmt"
	"strings"
)

const maxNameLength = 190

// ErrInvalidCategoryName indicates that a category name is empty or exceeds storage bounds.
var ErrInvalidCategoryName = errors.New("catalog: invalid category name")

// NewCategoryName validates raw input and returns a usable category name.
// Names are case-sensitive natural keys; surrounding whitespace is not significant.
func NewCategoryName(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCategoryName)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidCategoryName, maxNameLength)
	}
	return trimmed, nil
}

// Acronym models the primary catalog record: a short form, its expansion, and
// the owning user.
type Acronym struct {
	ID     string `gorm:"column:acronym_id;primaryKey;size:36;not null"`
	Short  string `gorm:"column:short;size:190;not null;index:idx_acronyms_short"`
	Long   string `gorm:"column:long;type:text;not null"`
	UserID string `gorm:"column:user_id;size:36;not null;index:idx_acronyms_user"`
}

// TableName provides the explicit table binding for GORM.
func (Acronym) TableName() string {
	return "acronyms"
}

// Category models a shared tag attachable to many acronyms. The name acts as
// a case-sensitive natural key: the first writer creates it, later writers
// resolve it by name.
type Category struct {
	ID   string `gorm:"column:category_id;primaryKey;size:36;not null"`
	Name string `gorm:"column:name;size:190;not null;uniqueIndex:idx_categories_name"`
}

// TableName provides the explicit table binding for GORM.
func (Category) TableName() string {
	return "categories"
}

// AcronymCategory is the many-to-many edge between one acronym and one
// category. At most one edge exists per (acronym, category) pair.
type AcronymCategory struct {
	ID         string `gorm:"column:edge_id;primaryKey;size:36;not null"`
	AcronymID  string `gorm:"column:acronym_id;size:36;not null;uniqueIndex:idx_edges_pair,priority:1"`
	CategoryID string `gorm:"column:category_id;size:36;not null;uniqueIndex:idx_edges_pair,priority:2;index:idx_edges_category"`
}

// TableName provides the explicit table binding for GORM.
func (AcronymCategory) TableName() string {
	return "acronym_categories"
}

// CreateAcronymRequest describes the input for creating an acronym. Categories
// lists initial category names to attach; nil means none were requested.
type CreateAcronymRequest struct {
	Short      string
	Long       string
	UserID     string
	Categories []string
}

// UpdateAcronymRequest describes the input for updating an acronym in place.
// Categories carries the desired category-name set: nil means the caller did
// not intend to touch categories, an empty slice means detach everything.
type UpdateAcronymRequest struct {
	Short      string
	Long       string
	UserID     string
	Categories []string
}
