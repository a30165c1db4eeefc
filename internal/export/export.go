// Package export produces a downloadable zip archive of a series: one HTML
// file per chapter, numbered so the files sort in reading order.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

// WriteSeriesZip streams a zip of the series' chapters to w. Draft
// chapters are included; export is an author-only operation.
func WriteSeriesZip(ctx context.Context, w io.Writer, series *models.Series, chapters []*models.Chapter) error {
	tmpDir, err := os.MkdirTemp("", "series-export-")
	if err != nil {
		return fmt.Errorf("failed to create export staging dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, ch := range chapters {
		name := fmt.Sprintf("%03d-%s.html", ch.ChapterNumber, slug.Normalize(ch.Title))
		content := fmt.Sprintf("<h1>%s</h1>\n%s\n", ch.Title, ch.Body)
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to stage chapter %d: %w", ch.ChapterNumber, err)
		}
	}

	root := slug.Normalize(series.Title)
	if root == "" {
		root = series.ID
	}
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		tmpDir: root,
	})
	if err != nil {
		return fmt.Errorf("failed to collect export files: %w", err)
	}

	format := archives.Zip{}
	if err := format.Archive(ctx, w, files); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}
