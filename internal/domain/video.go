package domain

import (
	"math"
	"strconv"
	"time"
)

// ResourceType is the media service's asset class. It decides which processing
// pipeline the service runs and which delivery path renditions are served from.
type ResourceType string

const (
	ResourceVideo ResourceType = "video"
	ResourceImage ResourceType = "image"
)

// Video is the metadata row persisted after the media service accepted an upload.
// The bytes themselves live in the media service under PublicID.
type Video struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	PublicID       string    `json:"publicId"`
	OriginalSize   string    `json:"originalSize"`
	CompressedSize string    `json:"compressedSize"`
	Duration       float64   `json:"duration"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CompressionPercentage is the rounded share of bytes saved by the media service,
// 1 - compressed/original, as shown on the video card. Never stored.
func (v *Video) CompressionPercentage() int {
	original, err := strconv.ParseFloat(v.OriginalSize, 64)
	if err != nil || original <= 0 {
		return 0
	}
	compressed, err := strconv.ParseFloat(v.CompressedSize, 64)
	if err != nil {
		return 0
	}
	return int(math.Round((1 - compressed/original) * 100))
}

// OptionalText turns an empty form value into an absent one.
func OptionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
