package api

import (
	"context"
	"io"
	"time"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	imageField       = "image"
	imageFileName    = "throat.jpg"
	imageContentType = "image/jpeg"
)

// Analyze uploads a normalized JPEG with the session cookie and returns the
// verdict. Transport failures, non-2xx replies and replies lacking both
// prediction and label are upload errors. There is no retry.
func (c *Client) Analyze(ctx context.Context, token string, image io.Reader) (*ClassificationResult, error) {
	start := time.Now()

	body, contentType, err := httpclient.MultipartBody(nil, httpclient.FilePart{
		FieldName:   imageField,
		FileName:    imageFileName,
		ContentType: imageContentType,
		Content:     image,
	})
	if err != nil {
		return nil, transportError(err, errors.CategoryUpload, pathAnalyze)
	}

	resp, err := c.http.Post(ctx, c.endpoint(pathAnalyze), contentType, body, c.sessionCookie(token))
	if err != nil {
		return nil, transportError(err, errors.CategoryUpload, pathAnalyze)
	}

	r, err := c.readResponse(resp)
	if err != nil {
		return nil, transportError(err, errors.CategoryUpload, pathAnalyze)
	}

	if !r.ok() {
		return nil, serverError(r.errorMessage(), errors.CategoryUpload, pathAnalyze, r.status)
	}

	result, ok := normalizeVerdict(r.data, time.Now())
	if !ok {
		return nil, serverError("response contained no prediction", errors.CategoryUpload, pathAnalyze, r.status)
	}

	c.log.Info("image analyzed",
		logger.String("label", string(result.Label)),
		logger.Bool("has_probability", result.HasProbability),
		logger.Duration("duration", time.Since(start)))

	return result, nil
}

// normalizeVerdict prefers prediction over label. Probabilities outside [0,1]
// are treated as absent.
func normalizeVerdict(data envelope, received time.Time) (*ClassificationResult, bool) {
	raw := data.Prediction
	if raw == "" {
		raw = data.Label
	}
	if raw == "" {
		return nil, false
	}

	label := ParseLabel(raw)
	result := &ClassificationResult{
		Label:     label,
		Positive:  label.Positive(),
		Timestamp: received,
	}
	if p := data.Probability; p != nil && *p >= 0 && *p <= 1 {
		result.Probability = *p
		result.HasProbability = true
	}
	return result, true
}
