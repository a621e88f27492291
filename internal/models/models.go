package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Perspective is a named server-side rendering mode for an uploaded image
type Perspective string

const (
	PerspectiveOriginal Perspective = "original"
	PerspectiveBirdsEye Perspective = "birds_eye"
	PerspectiveWormsEye Perspective = "worms_eye"
)

// DefaultPerspective is the perspective loaded right after an upload
const DefaultPerspective = PerspectiveOriginal

// Perspectives lists the selector options in display order
var Perspectives = []Perspective{
	PerspectiveOriginal,
	PerspectiveBirdsEye,
	PerspectiveWormsEye,
}

// ParsePerspective validates a perspective name against the closed set
func ParsePerspective(s string) (Perspective, error) {
	for _, p := range Perspectives {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown perspective %q (expected original, birds_eye or worms_eye)", s)
}

// Label renders the perspective as a badge title, e.g. "Birds Eye View".
// Unknown values are rendered the same way.
func (p Perspective) Label() string {
	words := strings.Split(string(p), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ") + " View"
}

// OptionLabel is the selector text for the perspective
func (p Perspective) OptionLabel() string {
	switch p {
	case PerspectiveOriginal:
		return "Original View"
	case PerspectiveBirdsEye:
		return "Bird's Eye View"
	case PerspectiveWormsEye:
		return "Worm's Eye View"
	default:
		return p.Label()
	}
}

// Comment is a user note tagged to an image and the perspective active when it was written
type Comment struct {
	ID          string `json:"id" yaml:"id" parquet:"id"`
	ImageID     string `json:"image_id" yaml:"image_id" parquet:"image_id"`
	Text        string `json:"text" yaml:"text" parquet:"text"`
	Perspective string `json:"perspective" yaml:"perspective" parquet:"perspective"`
}

// PerspectiveLabel renders the comment's perspective tag
func (c Comment) PerspectiveLabel() string {
	return Perspective(c.Perspective).Label()
}

// Image is a decoded rendering ready for display
type Image struct {
	Data     []byte `json:"-"`
	Format   string `json:"format"` // "png", "jpeg", "gif"
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// DataURI embeds the image bytes for inline display
func (i *Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// State is a point-in-time copy of a client session
type State struct {
	ImageID     string      `json:"image_id,omitempty"`
	Current     *Image      `json:"current,omitempty"`
	Perspective Perspective `json:"perspective"`
	Comments    []Comment   `json:"comments"`
	Draft       string      `json:"draft,omitempty"`
}

// HasImage reports whether an upload has succeeded
func (s State) HasImage() bool {
	return s.ImageID != ""
}
