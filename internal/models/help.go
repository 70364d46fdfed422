package models

import "time"

// HelpSection is a node of the in-app help tree. Content is markup produced by the
// rich-text editor and is stored verbatim.
type HelpSection struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parentId,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HelpNode is a section with its nested children.
type HelpNode struct {
	HelpSection
	Children []HelpNode `json:"children,omitempty"`
}

// CreateHelpSectionRequest creates a help section.
type CreateHelpSectionRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
	Order    int     `json:"order" validate:"min=0"`
}

// UpdateHelpSectionRequest changes the provided fields of a help section.
type UpdateHelpSectionRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content  *string `json:"content,omitempty"`
	ParentID *string `json:"parentId,omitempty"`
	Order    *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}
