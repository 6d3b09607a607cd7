package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/osis-sub000/core"
)

type News struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	AuthorID    string    `json:"author_id"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at,omitempty"` // UTC; zero until published
	CreatedAt   time.Time `json:"created_at"`             // UTC
	UpdatedAt   time.Time `json:"updated_at"`             // UTC
}

type GalleryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	PhotoRef  string    `json:"photo_ref"`
	Caption   string    `json:"caption"`
	TakenAt   time.Time `json:"taken_at"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewNews struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (nn *NewNews) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	return validate.Struct(nn)
}

type UpdateNews struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (un *UpdateNews) Validate(validate *validator.Validate, orig News) error {
	if title := core.CleanString(un.Title); title != "" {
		un.Title = title
	} else {
		un.Title = orig.Title
	}
	if un.Body == "" {
		un.Body = orig.Body
	}
	return validate.Struct(un)
}

type NewGalleryItem struct {
	Title    string    `json:"title" validate:"required"`
	PhotoRef string    `json:"photo_ref" validate:"required"`
	Caption  string    `json:"caption"`
	TakenAt  time.Time `json:"taken_at"`
}

func (ng *NewGalleryItem) Validate(validate *validator.Validate) error {
	ng.Title = core.CleanString(ng.Title)
	ng.Caption = core.CleanString(ng.Caption)
	return validate.Struct(ng)
}
