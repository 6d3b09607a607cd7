package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core/content"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
)

func newTestService(t *testing.T) *content.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return content.NewService(dummydb.NewContentRepository(db))
}

func TestNewsLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	post, err := svc.CreateNews(ctx, "mbr-1", content.NewNews{
		Title: "LDKS registration open",
		Body:  "Sign up at the secretariat before Friday.",
	})
	if err != nil {
		t.Fatalf("CreateNews() failed: %v", err)
	}
	if post.Published {
		t.Error("CreateNews() produced a published post, want a draft")
	}

	// drafts are invisible to the public listing
	pub, err := svc.QueryNews(ctx, true)
	if err != nil {
		t.Fatalf("QueryNews() failed: %v", err)
	}
	if len(pub) != 0 {
		t.Errorf("len(QueryNews(published)) = %d, want 0", len(pub))
	}

	post, err = svc.SetPublished(ctx, post.ID, true)
	if err != nil {
		t.Fatalf("SetPublished() failed: %v", err)
	}
	if !post.Published || post.PublishedAt.IsZero() {
		t.Errorf("SetPublished() = %+v, want published with a timestamp", post)
	}

	pub, err = svc.QueryNews(ctx, true)
	if err != nil {
		t.Fatalf("QueryNews() failed: %v", err)
	}
	if len(pub) != 1 {
		t.Errorf("len(QueryNews(published)) = %d, want 1", len(pub))
	}

	post, err = svc.SetPublished(ctx, post.ID, false)
	if err != nil {
		t.Fatalf("SetPublished() failed: %v", err)
	}
	if post.Published {
		t.Error("SetPublished(false) left the post published")
	}
}

func TestGallery(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	item, err := svc.AddGalleryItem(ctx, content.NewGalleryItem{
		Title:    "LDKS day one",
		PhotoRef: "gallery/ldks-2026-01.jpg",
		TakenAt:  time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddGalleryItem() failed: %v", err)
	}

	items, err := svc.QueryGallery(ctx)
	if err != nil {
		t.Fatalf("QueryGallery() failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("QueryGallery() = %+v, want [%s]", items, item.ID)
	}

	if err = svc.DeleteGalleryItems(ctx, item.ID); err != nil {
		t.Fatalf("DeleteGalleryItems() failed: %v", err)
	}
	items, _ = svc.QueryGallery(ctx)
	if len(items) != 0 {
		t.Errorf("len(QueryGallery()) = %d after delete, want 0", len(items))
	}
}

func TestGetNews_notFound(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.GetNews(context.Background(), "nope"); !errors.Is(err, content.ErrNewsNotFound) {
		t.Errorf("GetNews() error = %v, want %v", err, content.ErrNewsNotFound)
	}
}
