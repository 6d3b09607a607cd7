package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core/content"
)

type contentRepository struct {
	news    *newsTable
	gallery *galleryTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{news: db.news, gallery: db.gallery}
}

func (repo *contentRepository) CreateNews(ctx context.Context, n content.News) (content.News, error) {
	repo.news.Lock()
	defer repo.news.Unlock()

	n.ID = uuid.New().String()
	repo.news.table[n.ID] = &n
	return n, nil
}

func (repo *contentRepository) QueryNews(ctx context.Context, publishedOnly bool) ([]content.News, error) {
	repo.news.RLock()
	defer repo.news.RUnlock()

	posts := make([]content.News, 0, len(repo.news.table))
	for _, n := range repo.news.table {
		if publishedOnly && !n.Published {
			continue
		}
		posts = append(posts, *n)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *contentRepository) GetNewsByID(ctx context.Context, id string) (content.News, error) {
	repo.news.RLock()
	defer repo.news.RUnlock()

	if n, ok := repo.news.table[id]; ok {
		return *n, nil
	}
	return content.News{}, content.ErrNewsNotFound
}

func (repo *contentRepository) UpdateNews(ctx context.Context, n content.News) (content.News, error) {
	repo.news.Lock()
	defer repo.news.Unlock()

	orig, ok := repo.news.table[n.ID]
	if !ok {
		return content.News{}, content.ErrNewsNotFound
	}
	orig.Title = n.Title
	orig.Body = n.Body
	orig.Published = n.Published
	orig.PublishedAt = n.PublishedAt
	orig.UpdatedAt = n.UpdatedAt
	return *orig, nil
}

func (repo *contentRepository) DeleteNewsByID(ctx context.Context, ids ...string) error {
	repo.news.Lock()
	defer repo.news.Unlock()
	for _, id := range ids {
		delete(repo.news.table, id)
	}
	return nil
}

func (repo *contentRepository) CreateGalleryItem(ctx context.Context, item content.GalleryItem) (content.GalleryItem, error) {
	repo.gallery.Lock()
	defer repo.gallery.Unlock()

	item.ID = uuid.New().String()
	repo.gallery.table[item.ID] = &item
	return item, nil
}

func (repo *contentRepository) QueryGalleryItems(ctx context.Context) ([]content.GalleryItem, error) {
	repo.gallery.RLock()
	defer repo.gallery.RUnlock()

	items := make([]content.GalleryItem, 0, len(repo.gallery.table))
	for _, item := range repo.gallery.table {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (repo *contentRepository) DeleteGalleryItemsByID(ctx context.Context, ids ...string) error {
	repo.gallery.Lock()
	defer repo.gallery.Unlock()
	for _, id := range ids {
		delete(repo.gallery.table, id)
	}
	return nil
}
