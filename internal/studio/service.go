// Package studio implements the billable media actions: image generation,
// photo enhancement and image-to-video animation. Every action runs through
// the quota gate.
package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"codeberg.org/pixelmind/server/internal/gate"
	"codeberg.org/pixelmind/server/internal/genai"
	"codeberg.org/pixelmind/server/internal/logger"
	"codeberg.org/pixelmind/server/internal/usagelog"
)

const defaultPollInterval = 10 * time.Second

// the generative backend; implemented by *genai.Client
type Generator interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.Media, error)
	EditImage(ctx context.Context, req genai.EditRequest) (*genai.Media, error)
	StartVideo(ctx context.Context, req genai.VideoRequest) (*genai.Operation, error)
	GetOperation(ctx context.Context, name string) (*genai.Operation, error)
	Download(ctx context.Context, uri string) (*genai.Media, error)
}

type Service struct {
	generator    Generator
	gate         *gate.Gate
	pollInterval time.Duration
}

type Option func(*Service)

// sets how often a running video operation is polled
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func NewService(generator Generator, g *gate.Gate, opts ...Option) *Service {
	s := &Service{
		generator:    generator,
		gate:         g,
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// generates an image from a text prompt; counts against the image quota
func (s *Service) GenerateImage(ctx context.Context, userID string, cfg GenerationConfig) (*Result, error) {
	cfg.Prompt = strings.TrimSpace(cfg.Prompt)
	if cfg.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}

	if cfg.Style == "" {
		cfg.Style = StyleRealistic
	}

	if _, ok := stylePhrases[cfg.Style]; !ok {
		return nil, fmt.Errorf("%w: unknown style %q", ErrInvalidRequest, cfg.Style)
	}

	if cfg.AspectRatio == "" {
		cfg.AspectRatio = "1:1"
	}

	apiRatio, ok := imageAspectRatios[cfg.AspectRatio]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, cfg.AspectRatio)
	}

	return s.run(ctx, userID, usagelog.ActionImageGeneration, func(ctx context.Context) (*genai.Media, error) {
		media, err := s.generator.GenerateImage(ctx, genai.ImageRequest{
			Prompt:      buildImagePrompt(cfg.Prompt, cfg.Style),
			AspectRatio: apiRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("image generation failed: %w", err)
		}

		return media, nil
	})
}

// improves an uploaded photo; shares the image quota with generation
func (s *Service) EnhanceImage(ctx context.Context, userID string, cfg EnhancementConfig) (*Result, error) {
	if !cfg.Upscale && !cfg.Sharpen && !cfg.Denoise && !cfg.ColorAdjust && !cfg.FaceEnhance {
		return nil, fmt.Errorf("%w: select at least one enhancement", ErrInvalidRequest)
	}

	image, mimeType, err := decodeImage(cfg.Image, cfg.MimeType)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, userID, usagelog.ActionImageEnhancement, func(ctx context.Context) (*genai.Media, error) {
		media, err := s.generator.EditImage(ctx, genai.EditRequest{
			Image:    image,
			MimeType: mimeType,
			Prompt:   buildEnhancementPrompt(cfg),
		})
		if err != nil {
			return nil, fmt.Errorf("image enhancement failed: %w", err)
		}

		return media, nil
	})
}

// turns an image into a short video; counts against the video quota.
// progress may be nil.
func (s *Service) AnimateImage(ctx context.Context, userID string, cfg AnimationConfig, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(string) {}
	}

	cfg.Prompt = strings.TrimSpace(cfg.Prompt)
	if cfg.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}

	if cfg.AspectRatio == "" {
		cfg.AspectRatio = "16:9"
	}

	if !videoAspectRatios[cfg.AspectRatio] {
		return nil, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, cfg.AspectRatio)
	}

	if cfg.Intensity == "" {
		cfg.Intensity = IntensityMedium
	}

	if _, ok := intensityPhrases[cfg.Intensity]; !ok {
		return nil, fmt.Errorf("%w: unknown intensity %q", ErrInvalidRequest, cfg.Intensity)
	}

	if cfg.Duration == 0 {
		cfg.Duration = defaultAnimationSeconds
	}

	if cfg.Duration < minAnimationSeconds || cfg.Duration > maxAnimationSeconds {
		return nil, fmt.Errorf("%w: duration must be between %d and %d seconds",
			ErrInvalidRequest, minAnimationSeconds, maxAnimationSeconds)
	}

	image, mimeType, err := decodeImage(cfg.Image, cfg.MimeType)
	if err != nil {
		return nil, err
	}

	progress("checking animation credits...")

	return s.run(ctx, userID, usagelog.ActionVideoGeneration, func(ctx context.Context) (*genai.Media, error) {
		return s.renderVideo(ctx, cfg, image, mimeType, progress)
	})
}

func (s *Service) renderVideo(ctx context.Context, cfg AnimationConfig, image []byte, mimeType string, progress ProgressFunc) (*genai.Media, error) {
	op, err := s.generator.StartVideo(ctx, genai.VideoRequest{
		Prompt:      buildAnimationPrompt(cfg),
		Image:       image,
		MimeType:    mimeType,
		AspectRatio: cfg.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}

	progress("generating your animation...")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for polls := 0; !op.Done; {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("video generation abandoned: %w", ctx.Err())
		case <-ticker.C:
		}

		polls++

		op, err = s.generator.GetOperation(ctx, op.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to poll video operation: %w", err)
		}

		switch polls {
		case 2:
			progress("rendering motion frames...")
		case 5:
			progress(fmt.Sprintf("processing %ds animation...", cfg.Duration))
		}

		logger.Debug("video operation polled", "operation", op.Name, "polls", polls, "done", op.Done)
	}

	if op.Error != nil {
		return nil, fmt.Errorf("video generation failed: %w", op.Error)
	}

	if op.VideoURI == "" {
		return nil, fmt.Errorf("video operation returned no download link: %w", genai.ErrNoMedia)
	}

	progress("downloading final video...")

	media, err := s.generator.Download(ctx, op.VideoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}

	return media, nil
}

// executes op behind the gate and attaches the post-action quota status
func (s *Service) run(ctx context.Context, userID string, action usagelog.Action, op func(context.Context) (*genai.Media, error)) (*Result, error) {
	media, err := gate.Execute(ctx, s.gate, userID, action, op)
	if err != nil {
		return nil, err
	}

	result := &Result{DataURL: media.DataURL(), MimeType: media.MimeType}

	if status, err := s.gate.Status(context.WithoutCancel(ctx), userID, action); err == nil {
		result.Quota = status
	}

	return result, nil
}

// accepts raw base64 or a data URL; the data URL's type wins over an empty mimeType
func decodeImage(raw, mimeType string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", fmt.Errorf("%w: image is required", ErrInvalidRequest)
	}

	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data URL", ErrInvalidRequest)
		}

		if mimeType == "" {
			mimeType, _, _ = strings.Cut(header, ";")
		}

		raw = payload
	}

	if mimeType == "" {
		mimeType = "image/png"
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported mime type %q", ErrInvalidRequest, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image is not valid base64", ErrInvalidRequest)
	}

	return data, mimeType, nil
}
