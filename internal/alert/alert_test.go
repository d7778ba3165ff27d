package alert

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/errors"
)

func categorized(cat errors.ErrorCategory) error {
	return errors.Newf("boom").Category(cat).Build()
}

func TestFromError_DistinctAlertPerFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Alert
	}{
		{name: "permission", err: errors.ErrPermissionDenied, want: Alert{"Permission Required", "You need to grant camera access to use this feature."}},
		{name: "processing", err: errors.ErrProcessing, want: Alert{"Error", "Image processing failed"}},
		{name: "not authenticated", err: errors.ErrNotAuthenticated, want: Alert{"Not Logged In", "You need to log in before submitting an image."}},
		{name: "no image", err: errors.ErrNoImage, want: Alert{"No Image", "Please capture or upload an image first."}},
		{name: "upload", err: errors.ErrUpload, want: Alert{"Upload Failed", "Could not analyze the image. Try again."}},
		{name: "session", err: errors.ErrSession, want: Alert{"Error", "Session ID not found. Please try again."}},
		{name: "storage", err: errors.ErrStorage, want: Alert{"Error", "Failed to save session. Please try again."}},
		{name: "auth without server message", err: errors.ErrAuth, want: Alert{"Error", "Login failed. Wrong credentials"}},
		{name: "busy", err: errors.ErrBusy, want: Alert{"Please Wait", "An upload is already in progress."}},
	}

	seen := map[Alert]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.want, got)

			wrapped := errors.New(tt.err).Component("test").Build()
			assert.Equal(t, tt.want, FromError(wrapped), "category survives wrapping")
		})
		if other, dup := seen[tt.want]; dup {
			t.Errorf("%s and %s share an alert", tt.name, other)
		}
		seen[tt.want] = tt.name
	}
}

func TestFromError_Silent(t *testing.T) {
	assert.True(t, FromError(nil).IsZero())
	assert.True(t, FromError(errors.ErrCanceled).IsZero(), "dismissed picker shows nothing")
}

func TestFromError_ServerMessage(t *testing.T) {
	err := errors.Newf("Username already exists").
		Category(errors.CategoryAuth).
		Context("server_message", "Username already exists").
		Build()

	assert.Equal(t, Alert{"Error", "Username already exists"}, FromError(err))
	assert.Equal(t, Alert{"Error", "Username already exists"}, ForRegistration(err))
	assert.Equal(t, Alert{"Error", "Registration failed."}, ForRegistration(errors.ErrAuth))
}

func TestFromError_Fallbacks(t *testing.T) {
	assert.Equal(t, "Could not reach the server. Please try again.", FromError(categorized(errors.CategoryNetwork)).Message)
	assert.Equal(t, "An error occurred. Please try again.", FromError(errors.NewStd("plain")).Message)
	assert.Equal(t, "boom", FromError(categorized(errors.CategoryValidation)).Message)
}

func TestTerminalDialog_Show(t *testing.T) {
	t.Run("non-interactive only prints", func(t *testing.T) {
		var out bytes.Buffer
		d := &TerminalDialog{In: strings.NewReader(""), Out: &out}

		require.NoError(t, d.Show(t.Context(), MedicalHelp))
		assert.Contains(t, out.String(), "[Seek Medical Help]")
		assert.NotContains(t, out.String(), "Press Enter")
	})

	t.Run("interactive waits for enter", func(t *testing.T) {
		var out bytes.Buffer
		d := &TerminalDialog{In: strings.NewReader("\n"), Out: &out, Interactive: true}

		require.NoError(t, d.Show(t.Context(), NoHistory))
		assert.Contains(t, out.String(), "You have no previous records.")
		assert.Contains(t, out.String(), "Press Enter")
	})

	t.Run("zero alert", func(t *testing.T) {
		var out bytes.Buffer
		d := &TerminalDialog{Out: &out, Interactive: true}
		require.NoError(t, d.Show(t.Context(), Alert{}))
		assert.Empty(t, out.String())
	})

	t.Run("context canceled while waiting", func(t *testing.T) {
		r, w := ioPipe(t)
		d := &TerminalDialog{In: r, Out: &bytes.Buffer{}, Interactive: true}

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		err := d.Show(ctx, LoggedOut)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		_ = w.Close()
	})
}

func TestTerminalDialog_Confirm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		assumeYes   bool
		want        bool
	}{
		{name: "yes", input: "y\n", interactive: true, want: true},
		{name: "YES", input: "YES\n", interactive: true, want: true},
		{name: "default no", input: "\n", interactive: true, want: false},
		{name: "anything else", input: "maybe\n", interactive: true, want: false},
		{name: "non-interactive", input: "y\n", want: false},
		{name: "assume yes", assumeYes: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &TerminalDialog{In: strings.NewReader(tt.input), Out: &bytes.Buffer{}, Interactive: tt.interactive, AssumeYes: tt.assumeYes}
			got, err := d.Confirm(t.Context(), Alert{Title: "Camera", Message: "Allow camera access?"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalDialog_PromptSequence(t *testing.T) {
	var out bytes.Buffer
	d := &TerminalDialog{In: strings.NewReader("alice\ny\n"), Out: &out, Interactive: true}

	name, err := d.Prompt(t.Context(), "Username")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	ok, err := d.Confirm(t.Context(), Alert{Title: "Login", Message: "Continue?"})
	require.NoError(t, err)
	assert.True(t, ok, "second line must not be lost to the first read")
	assert.Contains(t, out.String(), "Username: ")
}

func TestTerminalDialog_PromptNonInteractive(t *testing.T) {
	d := &TerminalDialog{In: strings.NewReader("alice\n"), Out: &bytes.Buffer{}}
	_, err := d.Prompt(t.Context(), "Username")
	require.Error(t, err)
}
