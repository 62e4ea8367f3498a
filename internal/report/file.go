package report

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// NewFileEmitter picks the file format from the path's extension
func NewFileEmitter(path string, logger *zap.Logger) Emitter {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewExcelEmitter(path, logger)
	}
	return NewCSVEmitter(path, logger)
}
