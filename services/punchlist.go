package services

import (
	"context"
	"fmt"
	"strings"

	"jobsite-api/models"

	"github.com/google/uuid"
)

// AddPunchListItem appends an item to a project's punch list. Item ids are
// assigned from the global punch item namespace so items never collide across
// projects when queried flatly.
func (d *DataContext) AddPunchListItem(ctx context.Context, projectID int, text string) (models.PunchListItem, error) {
	if strings.TrimSpace(text) == "" {
		return models.PunchListItem{}, invalid("punch list item text is required")
	}

	d.lock()
	defer d.unlock()

	current := d.findProject(projectID)
	if current == nil {
		return models.PunchListItem{}, notFound("project", projectID)
	}

	item := models.PunchListItem{
		ItemID: d.peekID("punch_item"),
		Text:   strings.TrimSpace(text),
	}
	updated := cloneProject(*current)
	updated.PunchList = append(updated.PunchList, item)

	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		return models.PunchListItem{}, err
	}
	d.commitID("punch_item", item.ItemID)
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)
	return item, nil
}

// TogglePunchListItem flips an item's completion flag. Toggling twice
// restores the original state.
func (d *DataContext) TogglePunchListItem(ctx context.Context, projectID, itemID int) (models.PunchListItem, error) {
	d.lock()
	defer d.unlock()

	current := d.findProject(projectID)
	if current == nil {
		return models.PunchListItem{}, notFound("project", projectID)
	}

	updated := cloneProject(*current)
	idx := punchItemIndex(updated.PunchList, itemID)
	if idx < 0 {
		return models.PunchListItem{}, notFound("punch list item", itemID)
	}
	updated.PunchList[idx].IsComplete = !updated.PunchList[idx].IsComplete

	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		return models.PunchListItem{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)
	return updated.PunchList[idx], nil
}

// AddPunchListPhoto attaches a photo to a punch list item: the base image
// always, the annotated copy when given. Blobs are written before the
// metadata commits; if the metadata write fails the blobs are removed again.
func (d *DataContext) AddPunchListPhoto(ctx context.Context, projectID, itemID int, base, annotated []byte) (models.PunchListItem, error) {
	if len(base) == 0 {
		return models.PunchListItem{}, invalid("punch list photo payload is empty")
	}
	if d.blobs == nil {
		return models.PunchListItem{}, invalid("blob store not configured")
	}

	d.lock()
	defer d.unlock()

	current := d.findProject(projectID)
	if current == nil {
		return models.PunchListItem{}, notFound("project", projectID)
	}
	updated := cloneProject(*current)
	idx := punchItemIndex(updated.PunchList, itemID)
	if idx < 0 {
		return models.PunchListItem{}, notFound("punch list item", itemID)
	}

	photo := models.PunchListPhoto{
		BaseKey: fmt.Sprintf("punchlist/%d/%d-base-%s", projectID, itemID, uuid.NewString()),
	}
	written := []string{photo.BaseKey}
	if err := d.blobs.Put(ctx, photo.BaseKey, base); err != nil {
		return models.PunchListItem{}, err
	}
	if len(annotated) > 0 {
		photo.AnnotatedKey = fmt.Sprintf("punchlist/%d/%d-annotated-%s", projectID, itemID, uuid.NewString())
		if err := d.blobs.Put(ctx, photo.AnnotatedKey, annotated); err != nil {
			d.deleteBlobs(ctx, written)
			return models.PunchListItem{}, &PartialFailureError{Op: "add punch list photo", Err: err}
		}
		written = append(written, photo.AnnotatedKey)
	}

	updated.PunchList[idx].Photo = &photo
	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		d.deleteBlobs(ctx, written)
		return models.PunchListItem{}, err
	}
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)
	return updated.PunchList[idx], nil
}

// DeletePunchListPhoto clears an item's photo reference and removes the
// blobs. The metadata commit comes first; blob removal afterwards is
// best-effort since an orphaned blob is harmless while a dangling reference
// is not.
func (d *DataContext) DeletePunchListPhoto(ctx context.Context, projectID, itemID int) error {
	d.lock()
	defer d.unlock()

	current := d.findProject(projectID)
	if current == nil {
		return notFound("project", projectID)
	}
	updated := cloneProject(*current)
	idx := punchItemIndex(updated.PunchList, itemID)
	if idx < 0 {
		return notFound("punch list item", itemID)
	}
	photo := updated.PunchList[idx].Photo
	if photo == nil {
		return nil
	}
	updated.PunchList[idx].Photo = nil

	if err := d.store.UpdateProject(ctx, &updated); err != nil {
		return err
	}
	*current = updated
	d.saveSnapshot(ctx, "projects", d.projects)

	keys := []string{photo.BaseKey}
	if photo.AnnotatedKey != "" {
		keys = append(keys, photo.AnnotatedKey)
	}
	d.deleteBlobs(ctx, keys)
	return nil
}

func (d *DataContext) deleteBlobs(ctx context.Context, keys []string) {
	if d.blobs == nil {
		return
	}
	for _, key := range keys {
		if err := d.blobs.Delete(ctx, key); err != nil {
			d.log.Warnf("failed to delete blob %s: %v", key, err)
		}
	}
}

func punchItemIndex(list models.PunchList, itemID int) int {
	for i := range list {
		if list[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
