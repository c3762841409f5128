// Package validation checks input and output locations before an analysis
// run touches them.
package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "returnscli/internal/errors"
)

// SupportedInputExtensions lists the table formats the loader reads.
var SupportedInputExtensions = []string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}

// FileValidator provides the file checks shared by the executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputFile checks that path is a readable table file.
// Missing files are NOT_FOUND; directories, Office lock files and unknown
// extensions are VALIDATION errors.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist", slog.String("file", path))
		return apperrors.NewNotFoundError("input file " + filepath.Base(path)).WithContext("path", path)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError("input path is a directory").WithContext("path", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("refusing temporary Excel lock file", slog.String("file", path))
		return apperrors.NewAppValidationError("input is a temporary Excel lock file").WithContext("path", path)
	}
	if !supported(filepath.Ext(base)) {
		return apperrors.NewAppValidationError("unsupported input format").
			WithContext("path", path).
			WithContext("extension", filepath.Ext(base))
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("input file is not readable", err).WithContext("path", path)
	}
	_ = f.Close()

	v.logger.Debug("input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputs validates every path and returns the first failure.
func (v *FileValidator) ValidateInputs(paths ...string) error {
	for _, p := range paths {
		if err := v.ValidateInputFile(p); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("path", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("path", dir)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

func supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedInputExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
