package services

import (
	"context"
	"errors"
	"testing"
)

func TestAddPhotoAssignsSequentialIDs(t *testing.T) {
	d, _, blobs, _ := newTestContextWithBlobs(t)
	ctx := context.Background()

	first, err := d.AddPhoto(ctx, 1, []PhotoUpload{
		{Data: []byte("img1")},
		{Data: []byte("img2")},
	}, "framing day")
	if err != nil {
		t.Fatalf("AddPhoto returned error: %v", err)
	}
	if first[0].PhotoID != 1 || first[1].PhotoID != 2 {
		t.Fatalf("expected photo ids 1 and 2, got %d and %d", first[0].PhotoID, first[1].PhotoID)
	}
	if first[0].Description != "framing day" || first[1].Description != "framing day" {
		t.Fatalf("expected the batch to share one description")
	}

	second, err := d.AddPhoto(ctx, 1, []PhotoUpload{{Data: []byte("img3")}}, "")
	if err != nil {
		t.Fatalf("AddPhoto returned error: %v", err)
	}
	if second[0].PhotoID != 3 {
		t.Fatalf("expected photo id 3, got %d", second[0].PhotoID)
	}

	if blobs.Len() != 3 {
		t.Fatalf("expected 3 stored blobs, got %d", blobs.Len())
	}
	project, _ := d.ProjectByID(1)
	if len(project.Photos) != 3 {
		t.Fatalf("expected 3 photo records, got %d", len(project.Photos))
	}

	data, found, err := d.GetPhoto(ctx, project.Photos[0].BlobKey)
	if err != nil || !found {
		t.Fatalf("GetPhoto failed: found=%v err=%v", found, err)
	}
	if string(data) != "img1" {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestAddPhotoIsAllOrNothing(t *testing.T) {
	d, _, blobs, _ := newTestContextWithBlobs(t)
	ctx := context.Background()

	// Second blob key carries the photo id, so "/2-" hits image two.
	blobs.FailOn("/2-", errors.New("disk write failed"))

	_, err := d.AddPhoto(ctx, 1, []PhotoUpload{
		{Data: []byte("img1")},
		{Data: []byte("img2")},
		{Data: []byte("img3")},
	}, "batch")
	var perr *PartialFailureError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PartialFailureError, got %v", err)
	}

	if blobs.Len() != 0 {
		t.Fatalf("expected every written blob rolled back, got %d remaining", blobs.Len())
	}
	project, _ := d.ProjectByID(1)
	if len(project.Photos) != 0 {
		t.Fatalf("expected no photo metadata committed, got %d", len(project.Photos))
	}
}

func TestAddPhotoSurfacesQuotaExceeded(t *testing.T) {
	d, _, blobs, _ := newTestContextWithBlobs(t)

	blobs.FailOn("/1-", &QuotaExceededError{Key: "photos/1/1", Size: 4})
	_, err := d.AddPhoto(context.Background(), 1, []PhotoUpload{{Data: []byte("img1")}}, "")
	var qerr *QuotaExceededError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
}

func TestAddPhotoRollsBackBlobsOnMetadataFailure(t *testing.T) {
	d, store, blobs, _ := newTestContextWithBlobs(t)

	store.FailNext("update", "project", errors.New("connection reset"))
	_, err := d.AddPhoto(context.Background(), 1, []PhotoUpload{{Data: []byte("img1")}}, "")
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if blobs.Len() != 0 {
		t.Fatalf("expected blobs removed after metadata failure, got %d", blobs.Len())
	}
}

func TestPunchListPhotoLifecycle(t *testing.T) {
	d, _, blobs, _ := newTestContextWithBlobs(t)
	ctx := context.Background()

	item, err := d.AddPunchListPhoto(ctx, 1, 1, []byte("base"), []byte("annotated"))
	if err != nil {
		t.Fatalf("AddPunchListPhoto returned error: %v", err)
	}
	if item.Photo == nil || item.Photo.BaseKey == "" || item.Photo.AnnotatedKey == "" {
		t.Fatalf("expected both photo keys, got %+v", item.Photo)
	}
	if blobs.Len() != 2 {
		t.Fatalf("expected 2 stored blobs, got %d", blobs.Len())
	}

	if err := d.DeletePunchListPhoto(ctx, 1, 1); err != nil {
		t.Fatalf("DeletePunchListPhoto returned error: %v", err)
	}
	project, _ := d.ProjectByID(1)
	if project.PunchList[0].Photo != nil {
		t.Fatalf("expected photo reference cleared")
	}
	if blobs.Len() != 0 {
		t.Fatalf("expected blobs removed, got %d", blobs.Len())
	}

	// Deleting again is a no-op.
	if err := d.DeletePunchListPhoto(ctx, 1, 1); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestAddPunchListPhotoRollsBackOnMetadataFailure(t *testing.T) {
	d, store, blobs, _ := newTestContextWithBlobs(t)

	store.FailNext("update", "project", errors.New("write timeout"))
	_, err := d.AddPunchListPhoto(context.Background(), 1, 2, []byte("base"), nil)
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if blobs.Len() != 0 {
		t.Fatalf("expected blobs rolled back, got %d", blobs.Len())
	}
	project, _ := d.ProjectByID(1)
	if project.PunchList[1].Photo != nil {
		t.Fatalf("expected no photo reference on the item")
	}
}
