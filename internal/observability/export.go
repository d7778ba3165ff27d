package observability

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// WriteTextFile writes the registry in text exposition format to path.
// The file is replaced atomically so node_exporter never reads a partial file.
func (m *Metrics) WriteTextFile(path string) error {
	if path == "" {
		return errors.Newf("metrics textfile path is empty").
			Component("metrics").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Component("metrics").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Build()
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.New(err).
			Component("metrics").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "write_textfile").
			Build()
	}

	logger.Global().Module("metrics").Debug("metrics exported", logger.String("path", path))
	return nil
}
