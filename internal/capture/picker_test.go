package capture

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/errors"
)

func TestDevicePicker_Library(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "throat.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("x"), 0o600))

	tests := []struct {
		name     string
		path     string
		sentinel error
	}{
		{name: "existing file", path: photo},
		{name: "dismissed", path: "", sentinel: errors.ErrCanceled},
		{name: "missing file", path: filepath.Join(dir, "nope.jpg"), sentinel: errors.ErrProcessing},
		{name: "directory", path: dir, sentinel: errors.ErrProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &DevicePicker{LibraryPath: tt.path}
			picked, err := p.Pick(t.Context(), SourceLibrary)
			if tt.sentinel != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.sentinel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, photo, picked.Path)
			assert.Nil(t, picked.Cleanup, "user files are never cleaned up")
		})
	}
}

func TestDevicePicker_Camera(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	t.Run("command writes photo", func(t *testing.T) {
		p := &DevicePicker{
			CameraCommand: "/bin/sh",
			CameraArgs:    []string{"-c", `printf 'jpeg' > "$0"`},
			TempDir:       t.TempDir(),
		}
		picked, err := p.Pick(t.Context(), SourceCamera)
		require.NoError(t, err)
		require.NotNil(t, picked.Cleanup)

		data, err := os.ReadFile(picked.Path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", string(data))

		picked.Cleanup()
		_, err = os.Stat(picked.Path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("command fails", func(t *testing.T) {
		p := &DevicePicker{CameraCommand: "/bin/sh", CameraArgs: []string{"-c", "echo device busy >&2; exit 1"}, TempDir: t.TempDir()}
		_, err := p.Pick(t.Context(), SourceCamera)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errors.ErrCanceled)
		assert.ErrorIs(t, err, errors.ErrProcessing)

		var ee *errors.EnhancedError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "/bin/sh", ee.GetContext()["command"])
		assert.Contains(t, ee.GetContext()["output"], "device busy")
	})

	t.Run("missing binary", func(t *testing.T) {
		p := &DevicePicker{CameraCommand: filepath.Join(t.TempDir(), "no-such-camera"), TempDir: t.TempDir()}
		_, err := p.Pick(t.Context(), SourceCamera)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryProcessing))
	})

	t.Run("dismissed without photo", func(t *testing.T) {
		p := &DevicePicker{CameraCommand: "/bin/sh", CameraArgs: []string{"-c", "exit 0"}, TempDir: t.TempDir()}
		_, err := p.Pick(t.Context(), SourceCamera)
		assert.ErrorIs(t, err, errors.ErrCanceled)
	})

	t.Run("not configured", func(t *testing.T) {
		p := &DevicePicker{}
		_, err := p.Pick(t.Context(), SourceCamera)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	})
}
