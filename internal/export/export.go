package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

// CommentExport is the YAML document written for an image's comments
type CommentExport struct {
	ImageID    string           `yaml:"image_id"`
	ExportedAt string           `yaml:"exported_at"`
	Count      int              `yaml:"count"`
	Comments   []models.Comment `yaml:"comments"`
}

// Comments writes the comment list to path, choosing the format from the
// extension (.yaml, .yml or .parquet)
func Comments(path, imageID string, comments []models.Comment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = writeYAML(path, imageID, comments)
	case ".parquet":
		err = writeParquet(path, comments)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .yaml, .yml, .parquet)", ext)
	}
	if err != nil {
		return err
	}

	slog.Info("Comments exported", "image_id", imageID, "path", path, "count", len(comments))
	return nil
}

func writeYAML(path, imageID string, comments []models.Comment) error {
	doc := CommentExport{
		ImageID:    imageID,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(comments),
		Comments:   comments,
	}
	if doc.Comments == nil {
		doc.Comments = []models.Comment{}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func writeParquet(path string, comments []models.Comment) error {
	if err := parquet.WriteFile(path, comments); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}
	return nil
}
