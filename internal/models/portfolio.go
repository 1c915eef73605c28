package models

import "fmt"

type Category string

const (
	CategoryExperience    Category = "experience"
	CategoryEducation     Category = "education"
	CategoryProject       Category = "project"
	CategoryCertification Category = "certification"
	CategorySkill         Category = "skill"
	CategoryMilestone     Category = "milestone"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryExperience, CategoryEducation, CategoryProject,
		CategoryCertification, CategorySkill, CategoryMilestone:
		return true
	}
	return false
}

// PortfolioItem is one timeline entry, embedded in its owning user record.
// The ID is client-assigned and only unique within the owner's list.
type PortfolioItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company,omitempty"`
	Date        string   `json:"date"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Category    Category `json:"category"`
}

// Normalize fills schema defaults before the item crosses the store boundary.
func (i *PortfolioItem) Normalize() {
	if i.Category == "" {
		i.Category = CategoryExperience
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
}

// Validate checks the item against the document schema. The full list is
// always replaced wholesale, so this runs per item on every save.
func (i PortfolioItem) Validate() error {
	if !i.Category.Valid() {
		return fmt.Errorf("unknown category %q", i.Category)
	}
	return nil
}
