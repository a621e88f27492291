package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

// DefaultBaseURL is where the perspective backend listens in development
const DefaultBaseURL = "http://localhost:8000"

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-2xx status code: %d - %s", e.StatusCode, e.Body)
}

// API is the backend surface the session controller depends on
type API interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	Image(ctx context.Context, imageID string, perspective models.Perspective) (string, error)
	Comments(ctx context.Context, imageID string) ([]models.Comment, error)
	AddComment(ctx context.Context, imageID string, comment models.Comment) error
}

// Client talks to the perspective backend over its REST API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a backend client. A zero timeout means requests never time out.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upload sends the image as multipart field "file" and returns the server-assigned identifier
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload/", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var response struct {
		ImageID string `json:"image_id"`
		Message string `json:"message"`
	}
	if err := c.do(req, &response); err != nil {
		return "", err
	}
	if response.ImageID == "" {
		return "", fmt.Errorf("upload response missing image_id")
	}

	slog.Debug("Backend accepted upload", "filename", filename, "image_id", response.ImageID, "message", response.Message)
	return response.ImageID, nil
}

// Image returns the base64-encoded rendering of the image from the given perspective.
// The perspective is sent as-is.
func (c *Client) Image(ctx context.Context, imageID string, perspective models.Perspective) (string, error) {
	endpoint := fmt.Sprintf("%s/image/%s/%s", c.BaseURL, url.PathEscape(imageID), url.PathEscape(string(perspective)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}

	var response struct {
		Image string `json:"image"`
	}
	if err := c.do(req, &response); err != nil {
		return "", err
	}
	return response.Image, nil
}

// Comments returns the ordered comment list for an image
func (c *Client) Comments(ctx context.Context, imageID string) ([]models.Comment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/comments/"+url.PathEscape(imageID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	var comments []models.Comment
	if err := c.do(req, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// AddComment posts a comment. The response body is not parsed.
func (c *Client) AddComment(ctx context.Context, imageID string, comment models.Comment) error {
	requestBody, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/comment/"+url.PathEscape(imageID), bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// do sends the request and decodes a JSON body into out when out is non-nil
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
