package genai

import (
	"encoding/base64"
	"fmt"
)

type Config struct {
	APIKey     string
	BaseURL    string // defaults to the public generativelanguage endpoint
	ImageModel string // e.g., "gemini-2.5-flash-image"
	VideoModel string // e.g., "veo-3.1-fast-generate-preview"
}

// generated or downloaded media
type Media struct {
	MimeType string
	Data     []byte
}

// encodes the media as a data URL the browser can render directly
func (m *Media) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", m.MimeType, base64.StdEncoding.EncodeToString(m.Data))
}

type ImageRequest struct {
	Prompt      string
	AspectRatio string
}

type EditRequest struct {
	Image    []byte
	MimeType string
	Prompt   string
}

type VideoRequest struct {
	Prompt      string
	Image       []byte
	MimeType    string
	AspectRatio string
}

// a long-running video generation job
type Operation struct {
	Name     string
	Done     bool
	VideoURI string
	Error    *OperationError
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("video operation failed (%d): %s", e.Code, e.Message)
}

// wire types for generateContent

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// wire types for predictLongRunning

type videoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution"`
	SampleCount int    `json:"sampleCount"`
}

type predictRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type operationResponse struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *OperationError `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}
