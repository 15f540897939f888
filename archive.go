package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Archiver writes the raw HTML bodies of fetched articles to Markdown
// files for later audit. Archiving failures are logged and never
// interrupt the import.
type Archiver struct {
	dir       string
	converter *md.Converter
}

// NewArchiver creates an archiver writing into dir.
func NewArchiver(dir string) *Archiver {
	return &Archiver{
		dir:       dir,
		converter: md.NewConverter("", true, nil),
	}
}

// ArchiveEnvelope dumps each result item's body as Markdown. Items
// without an HTML body are skipped.
func (a *Archiver) ArchiveEnvelope(env FetchEnvelope) {
	items, ok := env.Result.([]any)
	if !ok {
		return
	}
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		body, _ := fields["body"].(string)
		if body == "" {
			continue
		}
		title, _ := fields["title"].(string)
		if err := a.archiveItem(title, body); err != nil {
			log.Printf("Warning: archiving %q: %v", title, err)
		}
	}
}

func (a *Archiver) archiveItem(title, body string) error {
	markdown, err := a.converter.ConvertString(body)
	if err != nil {
		return fmt.Errorf("converting body: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	if title == "" {
		title = defaultTitle
	}
	filename := filepath.Join(a.dir, slugify(title)+".md")
	content := fmt.Sprintf("# %s\n\n%s\n", title, strings.TrimSpace(markdown))
	return os.WriteFile(filename, []byte(content), 0644)
}

// slugify builds a filesystem-safe name from an article title.
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}

	if slug == "" {
		return "article"
	}
	return slug
}
