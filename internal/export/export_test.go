package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/casadosescritores/escritores-go/internal/models"
)

func TestWriteSeriesZip(t *testing.T) {
	series := &models.Series{ID: "abc", Title: "Minha Série"}
	chapters := []*models.Chapter{
		{ChapterNumber: 1, Title: "O Começo", Body: "<p>era uma vez</p>"},
		{ChapterNumber: 2, Title: "O Meio", Body: "<p>continua</p>"},
	}

	var buf bytes.Buffer
	if err := WriteSeriesZip(context.Background(), &buf, series, chapters); err != nil {
		t.Fatalf("WriteSeriesZip failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}

	var names []string
	contents := make(map[string]string)
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		rc.Close()
		contents[f.Name] = string(data)
	}

	if len(names) != 2 {
		t.Fatalf("archive has %d files, want 2: %v", len(names), names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "minha-serie/") {
			t.Errorf("entry %q not under the series directory", name)
		}
		if !strings.HasSuffix(name, ".html") {
			t.Errorf("entry %q is not an html file", name)
		}
	}

	first := "minha-serie/001-o-comeco.html"
	body, ok := contents[first]
	if !ok {
		t.Fatalf("archive missing %q, has %v", first, names)
	}
	if !strings.Contains(body, "<h1>O Começo</h1>") || !strings.Contains(body, "era uma vez") {
		t.Errorf("chapter file content wrong: %q", body)
	}
}
