package cvanalysis

import (
	"bytes"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"sals-backend/internal/apperr"
)

const (
	DefaultOCRURL = "https://app.nanonets.com/api/v2/OCR/Model/e3d6d8b4-8c6e-4b1e-8b4a-2c5f8a9b3c7d/LabelFile/"
	ocrTimeout    = 30 * time.Second
)

type ocrResponse struct {
	Result []struct {
		Prediction []struct {
			Label   string `json:"label"`
			OCRText string `json:"ocr_text"`
		} `json:"prediction"`
	} `json:"result"`
}

// OCRClient uploads a file to the label-extraction model and returns the
// recognised fields keyed by label.
type OCRClient struct {
	client *resty.Client
	url    string
}

func NewOCRClient(url, apiKey string) *OCRClient {
	if url == "" {
		url = DefaultOCRURL
	}

	client := resty.New().
		SetTimeout(ocrTimeout).
		SetHeader("Accept", "application/json").
		SetJSONUnmarshaler(json.Unmarshal)
	if apiKey != "" {
		client.SetBasicAuth(apiKey, "")
	}

	return &OCRClient{client: client, url: url}
}

func (c *OCRClient) Extract(ctx context.Context, upload Upload) (map[string]string, error) {
	var result ocrResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", upload.Filename, bytes.NewReader(upload.Content)).
		SetResult(&result).
		Post(c.url)
	if err != nil {
		return nil, apperr.Collaborator(err, "ocr request")
	}
	if !resp.IsSuccess() {
		return nil, apperr.Collaborator(nil, "ocr returned %d", resp.StatusCode())
	}

	fields := map[string]string{}
	if len(result.Result) == 0 {
		return fields, nil
	}
	for _, p := range result.Result[0].Prediction {
		if p.Label != "" && p.OCRText != "" {
			fields[p.Label] = p.OCRText
		}
	}
	return fields, nil
}
