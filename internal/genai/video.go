package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
)

// starts a Veo job animating the given image; poll it with GetOperation
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (*Operation, error) {
	instance := videoInstance{Prompt: req.Prompt}

	if len(req.Image) > 0 {
		mimeType := req.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}

		instance.Image = &videoImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.Image),
			MimeType:           mimeType,
		}
	}

	body := predictRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio: req.AspectRatio,
			Resolution:  videoResolution,
			SampleCount: 1,
		},
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.config.BaseURL, c.config.VideoModel)

	var resp operationResponse
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	if resp.Name == "" {
		return nil, fmt.Errorf("video operation started without a name")
	}

	return resp.toOperation(), nil
}

// fetches the current state of a long-running operation
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var resp operationResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.config.BaseURL, name), nil, &resp); err != nil {
		return nil, err
	}

	return resp.toOperation(), nil
}

// downloads a generated file by URI
func (c *Client) Download(ctx context.Context, uri string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrNoMedia
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "video/mp4"
	}

	return &Media{MimeType: mimeType, Data: data}, nil
}

func (r *operationResponse) toOperation() *Operation {
	op := &Operation{Name: r.Name, Done: r.Done, Error: r.Error}

	if r.Response != nil {
		if samples := r.Response.GenerateVideoResponse.GeneratedSamples; len(samples) > 0 {
			op.VideoURI = samples[0].Video.URI
		}
	}

	return op
}
