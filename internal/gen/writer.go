package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"field-projection/internal/logging"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrOutputCollision is returned when two generated files would be written to
// the same path, e.g. several packages sharing one output directory.
var ErrOutputCollision = errors.New("generated files share an output path")

// Path returns where the file is written. An empty outputDir means the
// directory of the file's package.
func (f GeneratedFile) Path(outputDir string) string {
	if outputDir == "" {
		outputDir = f.Dir
	}

	return filepath.Join(outputDir, f.Filename)
}

// CheckTargets reports an ErrOutputCollision when two files of different
// packages resolve to the same output path.
func CheckTargets(files []GeneratedFile, outputDir string) error {
	owners := make(map[string]string, len(files))

	for _, file := range files {
		outputPath := file.Path(outputDir)
		if owner, ok := owners[outputPath]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, owner, file.Package, outputPath)
		}

		owners[outputPath] = file.Package
	}

	return nil
}

// WriteFiles writes all generated files. Files go to outputDir when it is set,
// otherwise next to their package. Directories are created as needed. Nothing
// is written when two files collide.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	if err := CheckTargets(files, outputDir); err != nil {
		return err
	}

	for _, file := range files {
		outputPath := file.Path(outputDir)

		if err := os.MkdirAll(filepath.Dir(outputPath), dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		logging.Logger().Info("wrote descriptor sets",
			zap.String("package", file.Package),
			zap.String("path", outputPath))
	}

	return nil
}

// Stale returns the paths of files whose content on disk differs from the
// generated content, including missing files.
func Stale(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := CheckTargets(files, outputDir); err != nil {
		return nil, err
	}

	var stale []string

	for _, file := range files {
		outputPath := file.Path(outputDir)

		current, err := os.ReadFile(outputPath)
		if errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, outputPath)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", outputPath, err)
		}

		if !bytes.Equal(current, file.Content) {
			stale = append(stale, outputPath)
		}
	}

	return stale, nil
}
