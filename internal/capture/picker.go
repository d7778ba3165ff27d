package capture

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// DevicePicker picks from the library by path and from the camera by running
// an external capture command that writes the photo to the path given as its
// last argument.
type DevicePicker struct {
	LibraryPath   string   // file chosen by the user; empty means the picker was dismissed
	CameraCommand string   // e.g. fswebcam or libcamera-still
	CameraArgs    []string // arguments before the output path
	TempDir       string   // where camera captures are written; empty uses os.TempDir
}

// Pick implements Picker.
func (d *DevicePicker) Pick(ctx context.Context, source Source) (Picked, error) {
	if source == SourceCamera {
		return d.pickCamera(ctx)
	}
	return d.pickLibrary()
}

func (d *DevicePicker) pickLibrary() (Picked, error) {
	if d.LibraryPath == "" {
		return Picked{}, canceledError(SourceLibrary)
	}
	info, err := os.Stat(d.LibraryPath)
	if err != nil {
		return Picked{}, errors.New(err).
			Component("capture").
			Category(errors.CategoryProcessing).
			FileContext(d.LibraryPath, 0).
			Context("operation", "pick_library").
			Build()
	}
	if !info.Mode().IsRegular() {
		return Picked{}, errors.Newf("not a regular file: %s", filepath.Base(d.LibraryPath)).
			Component("capture").
			Category(errors.CategoryProcessing).
			FileContext(d.LibraryPath, 0).
			Build()
	}
	return Picked{Path: d.LibraryPath}, nil
}

// pickCamera runs the capture command. A command that exits cleanly without
// producing a file is treated as the user dismissing the camera; a command
// that fails is a processing error.
func (d *DevicePicker) pickCamera(ctx context.Context) (Picked, error) {
	if d.CameraCommand == "" {
		return Picked{}, errors.Newf("no camera command configured").
			Component("capture").
			Category(errors.CategoryConfiguration).
			Context("setting", "capture.camera.command").
			Build()
	}

	dir := d.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	out := filepath.Join(dir, "sayah-capture-"+uuid.NewString()+".jpg")
	cleanup := func() { _ = os.Remove(out) }

	args := append(append([]string{}, d.CameraArgs...), out)
	cmd := exec.CommandContext(ctx, d.CameraCommand, args...) //nolint:gosec // command comes from the user's own config
	output, runErr := cmd.CombinedOutput()

	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		cleanup()
		switch {
		case ctx.Err() != nil:
			return Picked{}, errors.New(ctx.Err()).
				Component("capture").
				Category(errors.CategoryCanceled).
				Build()
		case runErr != nil:
			logger.Global().Module("capture").Warn("camera command failed",
				logger.String("command", d.CameraCommand),
				logger.Error(runErr),
				logger.String("output", string(output)))
			return Picked{}, errors.Newf("camera command %s failed: %w", filepath.Base(d.CameraCommand), runErr).
				Component("capture").
				Category(errors.CategoryProcessing).
				Context("command", d.CameraCommand).
				Context("output", truncateOutput(output)).
				Build()
		}
		return Picked{}, canceledError(SourceCamera)
	}

	return Picked{Path: out, Cleanup: cleanup}, nil
}

// maxCommandOutput bounds the command output kept on an error.
const maxCommandOutput = 512

func truncateOutput(output []byte) string {
	if len(output) > maxCommandOutput {
		output = output[:maxCommandOutput]
	}
	return string(output)
}

func canceledError(source Source) error {
	return errors.New(errors.ErrCanceled).
		Component("capture").
		Category(errors.CategoryCanceled).
		Context("source", source.String()).
		Build()
}
