package media

import "codeberg.org/pixelmind/server/internal/studio"

// MediaResponse is returned by every successful media action
type MediaResponse = studio.Result

// GenerateRequest is the body of POST /images/generate
type GenerateRequest = studio.GenerationConfig

// EnhanceRequest is the body of POST /images/enhance
type EnhanceRequest = studio.EnhancementConfig

// AnimateRequest is the body of POST /videos/animate
type AnimateRequest = studio.AnimationConfig
