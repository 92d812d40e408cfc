package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// ListPhotos returns the public photo list.
func (c *Client) ListPhotos(ctx context.Context) ([]PhotoSummary, error) {
	var photos []PhotoSummary
	if err := c.getJSON(ctx, "/api/life/photos", &photos); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// GetPhoto returns one photo set with its images.
func (c *Client) GetPhoto(ctx context.Context, id int64) (*Photo, error) {
	var p Photo
	if err := c.getJSON(ctx, fmt.Sprintf("/api/life/photos/%d", id), &p); err != nil {
		return nil, fmt.Errorf("get photo %d: %w", id, err)
	}
	return &p, nil
}

// AdminListPhotos returns the photo list through the key protected
// endpoint. It is used to validate the key.
func (c *Client) AdminListPhotos(ctx context.Context) ([]PhotoSummary, error) {
	var photos []PhotoSummary
	if err := c.getJSON(ctx, "/api/life/admin/photos", &photos); err != nil {
		return nil, fmt.Errorf("admin list photos: %w", err)
	}
	return photos, nil
}

// CreatePhoto creates a photo set and returns it with its new id.
func (c *Client) CreatePhoto(ctx context.Context, in PhotoInput) (*Photo, error) {
	var p Photo
	if err := c.sendJSON(ctx, http.MethodPost, "/api/life/admin/photos", in, &p); err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	c.logger.Info("photo created", "id", p.ID, "title", p.Title)
	return &p, nil
}

// UpdatePhoto replaces the fields of a photo set.
func (c *Client) UpdatePhoto(ctx context.Context, id int64, in PhotoInput) (*Photo, error) {
	var p Photo
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/life/admin/photos/%d", id), in, &p); err != nil {
		return nil, fmt.Errorf("update photo %d: %w", id, err)
	}
	c.logger.Info("photo updated", "id", id)
	return &p, nil
}

// DeletePhoto removes a photo set and its images.
func (c *Client) DeletePhoto(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/life/admin/photos/%d", id), nil, "", nil); err != nil {
		return fmt.Errorf("delete photo %d: %w", id, err)
	}
	c.logger.Info("photo deleted", "id", id)
	return nil
}

// UploadPhotoImage adds one image to a photo set.
func (c *Client) UploadPhotoImage(ctx context.Context, id int64, u Upload) error {
	body, contentType, err := u.multipart()
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/life/admin/photos/%d/images", id), body, contentType, nil); err != nil {
		return fmt.Errorf("upload %s to photo %d: %w", u.Name, id, err)
	}
	return nil
}

// UploadPhotoImages uploads files to a photo set one after another.
func (c *Client) UploadPhotoImages(ctx context.Context, id int64, files []Upload) UploadReport {
	return UploadSequential(ctx, files, func(ctx context.Context, u Upload) error {
		return c.UploadPhotoImage(ctx, id, u)
	}, c.logger)
}

// DeletePhotoImage removes one image from a photo set.
func (c *Client) DeletePhotoImage(ctx context.Context, id, imageID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/life/admin/photos/%d/images/%d", id, imageID), nil, "", nil); err != nil {
		return fmt.Errorf("delete image %d of photo %d: %w", imageID, id, err)
	}
	return nil
}

// SetCoverImage marks imageID as the cover of a photo set.
func (c *Client) SetCoverImage(ctx context.Context, id, imageID int64) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/life/admin/photos/%d/images/%d/cover", id, imageID), nil, "", nil); err != nil {
		return fmt.Errorf("set cover %d of photo %d: %w", imageID, id, err)
	}
	return nil
}

// GitHubData returns the synced GitHub snapshot. Before the first sync the
// API answers 404 or 503.
func (c *Client) GitHubData(ctx context.Context) (*GitHubData, error) {
	var d GitHubData
	if err := c.getJSON(ctx, "/api/github/data", &d); err != nil {
		return nil, fmt.Errorf("github data: %w", err)
	}
	return &d, nil
}

// IsSyncPending reports whether err means the GitHub snapshot is not ready.
func IsSyncPending(err error) bool {
	switch StatusOf(err) {
	case http.StatusNotFound, http.StatusServiceUnavailable:
		return true
	}
	return false
}
