package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/content"
)

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) *contentRepository {
	return &contentRepository{db: db}
}

const newsColumns = `id, title, body, author_id AS "authorid", published,
	COALESCE(published_at, 'epoch'::timestamptz) AS "publishedat",
	created_at AS "createdat", updated_at AS "updatedat"`

func (repo contentRepository) CreateNews(ctx context.Context, n content.News) (content.News, error) {
	n.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO news (id, title, body, author_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.Title, n.Body, n.AuthorID, n.Published, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	if err != nil {
		return content.News{}, errors.Wrap(err, "inserting news")
	}
	return n, nil
}

func (repo contentRepository) QueryNews(ctx context.Context, publishedOnly bool) ([]content.News, error) {
	q := `SELECT ` + newsColumns + ` FROM news`
	if publishedOnly {
		q += " WHERE published"
	}
	q += " ORDER BY created_at DESC"

	posts := make([]content.News, 0)
	if err := repo.db.SelectContext(ctx, &posts, q); err != nil {
		return nil, errors.Wrap(err, "querying news")
	}
	return posts, nil
}

func (repo contentRepository) GetNewsByID(ctx context.Context, id string) (content.News, error) {
	var n content.News
	err := repo.db.GetContext(ctx, &n, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return content.News{}, content.ErrNewsNotFound
	}
	if err != nil {
		return content.News{}, errors.Wrap(err, "finding news")
	}
	return n, nil
}

func (repo contentRepository) UpdateNews(ctx context.Context, n content.News) (content.News, error) {
	var publishedAt interface{}
	if !n.PublishedAt.IsZero() {
		publishedAt = n.PublishedAt.UTC()
	}
	res, err := repo.db.ExecContext(ctx, `
		UPDATE news SET title = $2, body = $3, published = $4, published_at = $5, updated_at = $6
		WHERE id = $1`,
		n.ID, n.Title, n.Body, n.Published, publishedAt, n.UpdatedAt.UTC())
	if err != nil {
		return content.News{}, errors.Wrap(err, "updating news")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return content.News{}, content.ErrNewsNotFound
	}
	return repo.GetNewsByID(ctx, n.ID)
}

func (repo contentRepository) DeleteNewsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM news WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting news")
}

func (repo contentRepository) CreateGalleryItem(ctx context.Context, item content.GalleryItem) (content.GalleryItem, error) {
	item.ID = uuid.New().String()
	var takenAt interface{}
	if !item.TakenAt.IsZero() {
		takenAt = item.TakenAt.UTC()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO gallery_item (id, title, photo_ref, caption, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.Title, item.PhotoRef, item.Caption, takenAt, item.CreatedAt.UTC())
	if err != nil {
		return content.GalleryItem{}, errors.Wrap(err, "inserting gallery item")
	}
	return item, nil
}

func (repo contentRepository) QueryGalleryItems(ctx context.Context) ([]content.GalleryItem, error) {
	items := make([]content.GalleryItem, 0)
	err := repo.db.SelectContext(ctx, &items, `
		SELECT id, title, photo_ref AS "photoref", caption,
			COALESCE(taken_at, 'epoch'::timestamptz) AS "takenat", created_at AS "createdat"
		FROM gallery_item ORDER BY taken_at DESC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying gallery items")
	}
	return items, nil
}

func (repo contentRepository) DeleteGalleryItemsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM gallery_item WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting gallery items")
}
