package content

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNewsNotFound    = errors.New("news post not found")
	ErrGalleryNotFound = errors.New("gallery item not found")
)

type (
	Repository interface {
		CreateNews(ctx context.Context, n News) (News, error)
		// QueryNews returns posts, most recent first. publishedOnly hides drafts.
		QueryNews(ctx context.Context, publishedOnly bool) ([]News, error)
		GetNewsByID(ctx context.Context, id string) (News, error)
		UpdateNews(ctx context.Context, n News) (News, error)
		DeleteNewsByID(ctx context.Context, ids ...string) error

		CreateGalleryItem(ctx context.Context, item GalleryItem) (GalleryItem, error)
		QueryGalleryItems(ctx context.Context) ([]GalleryItem, error)
		DeleteGalleryItemsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateNews(ctx context.Context, authorID string, nn NewNews) (News, error) {
	now := time.Now().UTC()
	return svc.repo.CreateNews(ctx, News{
		Title:     nn.Title,
		Body:      nn.Body,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryNews(ctx context.Context, publishedOnly bool) ([]News, error) {
	return svc.repo.QueryNews(ctx, publishedOnly)
}

func (svc *Service) GetNews(ctx context.Context, id string) (News, error) {
	return svc.repo.GetNewsByID(ctx, id)
}

func (svc *Service) UpdateNews(ctx context.Context, id string, un UpdateNews) (News, error) {
	n, err := svc.repo.GetNewsByID(ctx, id)
	if err != nil {
		return News{}, err
	}
	n.Title = un.Title
	n.Body = un.Body
	n.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNews(ctx, n)
}

// SetPublished publishes or unpublishes a post.
// The public portal only lists published posts.
func (svc *Service) SetPublished(ctx context.Context, id string, published bool) (News, error) {
	n, err := svc.repo.GetNewsByID(ctx, id)
	if err != nil {
		return News{}, err
	}
	n.Published = published
	if published && n.PublishedAt.IsZero() {
		n.PublishedAt = time.Now().UTC()
	}
	n.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNews(ctx, n)
}

func (svc *Service) DeleteNews(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteNewsByID(ctx, ids...)
}

func (svc *Service) AddGalleryItem(ctx context.Context, ng NewGalleryItem) (GalleryItem, error) {
	return svc.repo.CreateGalleryItem(ctx, GalleryItem{
		Title:     ng.Title,
		PhotoRef:  ng.PhotoRef,
		Caption:   ng.Caption,
		TakenAt:   ng.TakenAt,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) QueryGallery(ctx context.Context) ([]GalleryItem, error) {
	return svc.repo.QueryGalleryItems(ctx)
}

func (svc *Service) DeleteGalleryItems(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteGalleryItemsByID(ctx, ids...)
}
