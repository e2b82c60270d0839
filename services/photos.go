package services

import (
	"context"
	"errors"
	"fmt"

	"jobsite-api/models"

	"github.com/google/uuid"
)

// PhotoUpload is one image of an AddPhoto call.
type PhotoUpload struct {
	Data []byte
}

// AddPhoto attaches one or more images, described by a single text, to a
// project. Photo ids are sequential within the project, continuing from the
// highest existing id. All blobs are saved first and the metadata commits
// once at the end; if any save fails, the blobs already written are removed
// and nothing is committed.
func (d *DataContext) AddPhoto(ctx context.Context, projectID int, images []PhotoUpload, description string) ([]models.ProjectPhoto, error) {
	if len(images) == 0 {
		return nil, invalid("at least one image is required")
	}
	for i, img := range images {
		if len(img.Data) == 0 {
			return nil, invalid("image %d payload is empty", i+1)
		}
	}
	if d.blobs == nil {
		return nil, invalid("blob store not configured")
	}

	d.lock()
	defer d.unlock()

	current := d.findProject(projectID)
	if current == nil {
		return nil, notFound("project", projectID)
	}

	nextID := 0
	for _, p := range current.Photos {
		if p.PhotoID > nextID {
			nextID = p.PhotoID
		}
	}
	nextID++

	now := d.now()
	added := make([]models.ProjectPhoto, 0, len(images))
	written := make([]string, 0, len(images))
	for i, img := range images {
		photo := models.ProjectPhoto{
			PhotoID:     nextID + i,
			Description: description,
			BlobKey:     fmt.Sprintf("photos/%d/%d-%s", projectID, nextID+i, uuid.NewString()),
			UploadedAt:  now,
		}
		if err := d.blobs.Put(ctx, photo.BlobKey, img.Data); err != nil {
			d.deleteBlobs(ctx, written)
			var quota *QuotaExceededError
			if errors.As(err, &quota) {
				return nil, err
			}
			return nil, &PartialFailureError{Op: "add photos", Err: err}
		}
		written = append(written, photo.BlobKey)
		added = append(added, photo)
	}

	updated := cloneProject(*current)
	updated.Photos = append(updated.Photos, added...)
	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		d.deleteBlobs(ctx, written)
		return nil, err
	}
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)
	return added, nil
}

// GetPhoto retrieves a photo payload by its blob key.
func (d *DataContext) GetPhoto(ctx context.Context, key string) ([]byte, bool, error) {
	if d.blobs == nil {
		return nil, false, nil
	}
	return d.blobs.Get(ctx, key)
}
