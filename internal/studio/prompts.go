package studio

import (
	"fmt"
	"strings"
)

var stylePhrases = map[Style]string{
	StyleRealistic:    "in a highly detailed realistic cinematic style, professional lighting",
	StyleArtistic:     "in a beautiful artistic digital painting style, vibrant colors",
	StyleAnime:        "in a modern high-quality anime style, clean lines, vibrant shading",
	StyleCartoon:      "in a playful 3D cartoon style, smooth textures, expressive characters",
	StyleProfessional: "in a professional studio photography style, clean background, sharp focus",
}

// aspect ratios accepted from clients, mapped to what the image model supports
var imageAspectRatios = map[string]string{
	"1:1":  "1:1",
	"4:5":  "3:4",
	"16:9": "16:9",
	"9:16": "9:16",
}

var videoAspectRatios = map[string]bool{
	"16:9": true,
	"9:16": true,
}

var intensityPhrases = map[Intensity]string{
	IntensitySoft:    "Keep the motion subtle and gentle.",
	IntensityMedium:  "Use natural, moderate motion.",
	IntensityDynamic: "Use energetic, dynamic motion for both camera and subject.",
}

func buildImagePrompt(prompt string, style Style) string {
	return fmt.Sprintf("%s. %s", prompt, stylePhrases[style])
}

func buildEnhancementPrompt(cfg EnhancementConfig) string {
	var steps []string

	if cfg.Upscale {
		steps = append(steps, "increase resolution and reconstruct missing details for high definition")
	}
	if cfg.Sharpen {
		steps = append(steps, "apply professional sharpening and clarify blurry edges")
	}
	if cfg.Denoise {
		steps = append(steps, "remove digital noise, grain and compression artifacts")
	}
	if cfg.ColorAdjust {
		steps = append(steps, "optimize dynamic range, vibrant colors and professional lighting balance")
	}
	if cfg.FaceEnhance {
		steps = append(steps, "detect faces and restore skin texture, eyes and facial features with high fidelity")
	}

	return fmt.Sprintf("Act as a professional high-end photo editor. "+
		"Your task is to process the attached image applying exactly these enhancements: %s.\n"+
		"YOU MUST RETURN THE MODIFIED IMAGE. Do not change the fundamental composition, "+
		"only improve the quality according to the instructions.", strings.Join(steps, ", "))
}

func buildAnimationPrompt(cfg AnimationConfig) string {
	return fmt.Sprintf("%s. The animation must be smooth and feel like it lasts exactly %d seconds. %s Focus on cinematic realism.",
		cfg.Prompt, cfg.Duration, intensityPhrases[cfg.Intensity])
}
