package studio

import (
	"errors"

	"codeberg.org/pixelmind/server/internal/quota"
)

var ErrInvalidRequest = errors.New("invalid request")

type Style string

const (
	StyleRealistic    Style = "realistic"
	StyleArtistic     Style = "artistic"
	StyleAnime        Style = "anime"
	StyleCartoon      Style = "cartoon"
	StyleProfessional Style = "professional"
)

type Intensity string

const (
	IntensitySoft    Intensity = "soft"
	IntensityMedium  Intensity = "medium"
	IntensityDynamic Intensity = "dynamic"
)

const (
	minAnimationSeconds     = 2
	maxAnimationSeconds     = 10
	defaultAnimationSeconds = 5
)

type GenerationConfig struct {
	Prompt      string `json:"prompt" binding:"required"`
	Style       Style  `json:"style"`
	AspectRatio string `json:"aspect_ratio"`
}

type EnhancementConfig struct {
	// raw base64 or a data URL
	Image       string `json:"image" binding:"required"`
	MimeType    string `json:"mime_type"`
	Upscale     bool   `json:"upscale"`
	Sharpen     bool   `json:"sharpen"`
	Denoise     bool   `json:"denoise"`
	ColorAdjust bool   `json:"color_adjust"`
	FaceEnhance bool   `json:"face_enhance"`
}

type AnimationConfig struct {
	// raw base64 or a data URL
	Image       string    `json:"image" binding:"required"`
	MimeType    string    `json:"mime_type"`
	Prompt      string    `json:"prompt" binding:"required"`
	AspectRatio string    `json:"aspect_ratio"`
	Intensity   Intensity `json:"intensity"`
	Duration    int       `json:"duration"`
}

// finished media plus the quota left after producing it
type Result struct {
	DataURL  string       `json:"data_url"`
	MimeType string       `json:"mime_type"`
	Quota    quota.Status `json:"quota"`
}

// receives human readable milestones during long operations
type ProgressFunc func(message string)
