package api

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/errors"
)

func TestAnalyze_StrepVerdict(t *testing.T) {
	c, mock := newTestAPI(t)

	mock.RegisterResponder(http.MethodPost, testBaseURL+pathAnalyze,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "sess-1", sessionCookieValue(req))

			require.NoError(t, req.ParseMultipartForm(1<<20))
			file, header, err := req.FormFile("image")
			require.NoError(t, err)
			defer func() { _ = file.Close() }()
			assert.Equal(t, "throat.jpg", header.Filename)
			assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
			data, _ := io.ReadAll(file)
			assert.Equal(t, "jpeg-bytes", string(data))

			return jsonResponder(http.StatusOK, `{"prediction":"strep","probability":0.82}`)(req)
		})

	result, err := c.Analyze(t.Context(), "sess-1", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, LabelStrep, result.Label)
	assert.True(t, result.Positive)
	assert.True(t, result.HasProbability)
	assert.InDelta(t, 0.82, result.Probability, 1e-9)
	assert.False(t, result.Timestamp.IsZero())
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestAnalyze_VerdictNormalization(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		label       Label
		positive    bool
		hasProb     bool
		probability float64
	}{
		{name: "label only", body: `{"label":"healthy","probability":0.1}`, label: LabelHealthy, hasProb: true, probability: 0.1},
		{name: "prediction preferred over label", body: `{"prediction":"strep","label":"healthy"}`, label: LabelStrep, positive: true},
		{name: "case insensitive", body: `{"prediction":"Strep"}`, label: LabelStrep, positive: true},
		{name: "probability missing", body: `{"prediction":"healthy"}`, label: LabelHealthy},
		{name: "probability out of range", body: `{"prediction":"strep","probability":82}`, label: LabelStrep, positive: true},
		{name: "probability zero", body: `{"prediction":"healthy","probability":0}`, label: LabelHealthy, hasProb: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newTestAPI(t)
			mock.RegisterResponder(http.MethodPost, testBaseURL+pathAnalyze, jsonResponder(http.StatusOK, tt.body))

			result, err := c.Analyze(t.Context(), "tok", strings.NewReader("img"))
			require.NoError(t, err)
			assert.Equal(t, tt.label, result.Label)
			assert.Equal(t, tt.positive, result.Positive)
			assert.Equal(t, tt.hasProb, result.HasProbability)
			assert.InDelta(t, tt.probability, result.Probability, 1e-9)
		})
	}
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		message   string
	}{
		{
			name:      "missing prediction and label",
			responder: jsonResponder(http.StatusOK, `{"probability":0.5}`),
			message:   "response contained no prediction",
		},
		{
			name:      "non-json success",
			responder: httpmock.NewStringResponder(http.StatusOK, "<html>ok</html>"),
			message:   "response contained no prediction",
		},
		{
			name:      "server error with message",
			responder: jsonResponder(http.StatusInternalServerError, `{"error":"model unavailable"}`),
			message:   "model unavailable",
		},
		{
			name:      "server error without body",
			responder: httpmock.NewStringResponder(http.StatusBadGateway, ""),
			message:   genericErrorMessage,
		},
		{
			name:      "transport failure",
			responder: httpmock.NewErrorResponder(errors.NewStd("connection refused")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newTestAPI(t)
			mock.RegisterResponder(http.MethodPost, testBaseURL+pathAnalyze, tt.responder)

			result, err := c.Analyze(t.Context(), "tok", strings.NewReader("img"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, errors.ErrUpload)
			if tt.message != "" {
				assert.Equal(t, tt.message, ServerMessage(err))
			} else {
				assert.Empty(t, ServerMessage(err))
			}
			assert.Equal(t, 1, mock.GetTotalCallCount(), "no automatic retry")
		})
	}
}

func TestAnalyze_NoSessionCookieWhenTokenEmpty(t *testing.T) {
	c, mock := newTestAPI(t)
	mock.RegisterResponder(http.MethodPost, testBaseURL+pathAnalyze,
		func(req *http.Request) (*http.Response, error) {
			assert.Empty(t, req.Cookies())
			return jsonResponder(http.StatusOK, `{"prediction":"healthy"}`)(req)
		})

	_, err := c.Analyze(t.Context(), "", strings.NewReader("img"))
	require.NoError(t, err)
}
