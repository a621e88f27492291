package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/perspectshift/internal/backend"
	"github.com/lehigh-university-libraries/perspectshift/internal/images"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

// ErrImageLoaded is returned by Upload once the session holds an image.
// A session never leaves the loaded state.
var ErrImageLoaded = errors.New("session already has an image")

// Controller owns one client session and the four operations that mutate it.
// Backend calls run outside the lock; results are applied under it.
type Controller struct {
	api   backend.API
	newID func() string

	mu    sync.Mutex
	state models.State

	// Requests are numbered as issued; a response applies only when it is
	// newer than the last one applied, so a failed newer request does not
	// block an older one that succeeds later.
	loadSeq        uint64
	loadApplied    uint64
	commentSeq     uint64
	commentApplied uint64
}

// NewController creates an empty session backed by api
func NewController(api backend.API) *Controller {
	return &Controller{
		api:   api,
		newID: uuid.NewString,
		state: models.State{
			Perspective: models.DefaultPerspective,
			Comments:    []models.Comment{},
		},
	}
}

// State returns a copy of the current session
func (c *Controller) State() models.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Comments = make([]models.Comment, len(c.state.Comments))
	copy(s.Comments, c.state.Comments)
	return s
}

// SetDraft stores the composer text
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft = text
}

// Upload sends the first file to the backend and loads its original perspective.
// Remaining files are discarded. On failure the session stays empty.
func (c *Controller) Upload(ctx context.Context, files []images.File) error {
	if len(files) == 0 {
		return nil
	}
	if len(files) > 1 {
		slog.Debug("Discarding extra dropped files", "kept", files[0].Name, "discarded", len(files)-1)
	}
	file := files[0]

	if c.State().HasImage() {
		return ErrImageLoaded
	}

	if err := images.Accept(file); err != nil {
		slog.Warn("Rejected upload", "filename", file.Name, "error", err)
		return err
	}

	imageID, err := c.api.Upload(ctx, file.Name, file.Data)
	if err != nil {
		slog.Error("Failed to upload image", "filename", file.Name, "error", err)
		return fmt.Errorf("failed to upload image: %w", err)
	}

	c.mu.Lock()
	if c.state.ImageID != "" {
		c.mu.Unlock()
		return ErrImageLoaded
	}
	c.state.ImageID = imageID
	c.mu.Unlock()

	slog.Info("Image uploaded successfully", "filename", file.Name, "image_id", imageID)
	return c.LoadPerspective(ctx, models.DefaultPerspective)
}

// LoadPerspective fetches and decodes the rendering for p, makes it current and
// refreshes the comments. A failure leaves the previous image and perspective in
// place. A response older than the last applied load is dropped.
func (c *Controller) LoadPerspective(ctx context.Context, p models.Perspective) error {
	c.mu.Lock()
	imageID := c.state.ImageID
	if imageID == "" {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	payload, err := c.api.Image(ctx, imageID, p)
	if err != nil {
		slog.Error("Failed to load image", "image_id", imageID, "perspective", p, "error", err)
		return fmt.Errorf("failed to load image: %w", err)
	}

	img, err := images.Decode(payload)
	if err != nil {
		slog.Error("Failed to load image", "image_id", imageID, "perspective", p, "error", err)
		return fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	if seq <= c.loadApplied {
		c.mu.Unlock()
		slog.Debug("Dropping superseded perspective response", "image_id", imageID, "perspective", p)
		return nil
	}
	c.loadApplied = seq
	c.state.Current = img
	c.state.Perspective = p
	c.mu.Unlock()

	slog.Debug("Perspective loaded", "image_id", imageID, "perspective", p, "width", img.Width, "height", img.Height)
	return c.RefreshComments(ctx)
}

// RefreshComments replaces the comment list with the backend's list for the current image
func (c *Controller) RefreshComments(ctx context.Context) error {
	c.mu.Lock()
	imageID := c.state.ImageID
	if imageID == "" {
		c.mu.Unlock()
		return nil
	}
	c.commentSeq++
	seq := c.commentSeq
	c.mu.Unlock()

	comments, err := c.api.Comments(ctx, imageID)
	if err != nil {
		slog.Error("Failed to load comments", "image_id", imageID, "error", err)
		return fmt.Errorf("failed to load comments: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.commentApplied || c.state.ImageID != imageID {
		slog.Debug("Dropping superseded comment list", "image_id", imageID)
		return nil
	}
	c.commentApplied = seq
	c.state.Comments = comments
	return nil
}

// SubmitComment posts the draft tagged with the current perspective, then
// refreshes the list. It is a no-op without an image or with an empty draft.
// The draft is cleared up front and is not restored on failure.
func (c *Controller) SubmitComment(ctx context.Context) error {
	c.mu.Lock()
	imageID := c.state.ImageID
	text := c.state.Draft
	perspective := c.state.Perspective
	if imageID == "" || text == "" {
		c.mu.Unlock()
		return nil
	}
	c.state.Draft = ""
	c.mu.Unlock()

	comment := models.Comment{
		ID:          c.newID(),
		ImageID:     imageID,
		Text:        text,
		Perspective: string(perspective),
	}
	if err := c.api.AddComment(ctx, imageID, comment); err != nil {
		slog.Error("Failed to add comment", "image_id", imageID, "error", err)
		return fmt.Errorf("failed to add comment: %w", err)
	}

	slog.Info("Comment added successfully", "image_id", imageID, "comment_id", comment.ID, "perspective", perspective)
	return c.RefreshComments(ctx)
}
