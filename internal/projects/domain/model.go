package domain

import (
	"encoding/json"
	"time"
)

// DefaultImageURL is used for projects created without an uploaded image.
const DefaultImageURL = "https://res.cloudinary.com/demo/image/upload/v1612541234/portfolio/default-project.png"

// Category groups projects on the portfolio front page.
type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryDesign    Category = "design"
	CategoryMobile    Category = "mobile"
	CategoryFullstack Category = "fullstack"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryFrontend,
	CategoryBackend,
	CategoryDesign,
	CategoryMobile,
	CategoryFullstack,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Project is a single portfolio entry.
// It is storage-agnostic and shared by every store implementation and the HTTP layer.
type Project struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	ImagePublicID string    `json:"imagePublicId"`
	Category      Category  `json:"category"`
	Technologies  []string  `json:"technologies"`
	GithubURL     string    `json:"githubUrl"`
	LiveURL       string    `json:"liveUrl"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MarshalJSON also emits the id as "_id", which older portfolio clients read.
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return json.Marshal(struct {
		LegacyID string `json:"_id"`
		plain
	}{
		LegacyID: p.ID,
		plain:    plain(p),
	})
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Title         *string
	Description   *string
	Image         *string
	ImagePublicID *string
	Category      *Category
	Technologies  *[]string
	GithubURL     *string
	LiveURL       *string
	Featured      *bool
}

// Apply copies every set field of the patch onto p.
func (pt Patch) Apply(p *Project) {
	if pt.Title != nil {
		p.Title = *pt.Title
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
	if pt.ImagePublicID != nil {
		p.ImagePublicID = *pt.ImagePublicID
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Technologies != nil {
		p.Technologies = append([]string{}, (*pt.Technologies)...)
	}
	if pt.GithubURL != nil {
		p.GithubURL = *pt.GithubURL
	}
	if pt.LiveURL != nil {
		p.LiveURL = *pt.LiveURL
	}
	if pt.Featured != nil {
		p.Featured = *pt.Featured
	}
}

// WithImage returns a copy of the patch that points the project at a newly stored asset.
func (pt Patch) WithImage(url, publicID string) Patch {
	pt.Image = &url
	pt.ImagePublicID = &publicID
	return pt
}

// Clone returns a deep copy so callers cannot mutate a store's internal state.
func (p Project) Clone() Project {
	if p.Technologies != nil {
		p.Technologies = append([]string{}, p.Technologies...)
	}
	return p
}
