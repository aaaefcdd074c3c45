package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tendant/simple-catalog/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by the seed command.
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
	Content    []SeedContent  `yaml:"content"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
}

// SeedContent references its categories by name. Entries with a source are
// skipped when content with the same source already exists.
type SeedContent struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	ReleaseDate   string   `yaml:"release_date"`
	Duration      string   `yaml:"duration"`
	Rating        *float64 `yaml:"rating"`
	CoverImageURL string   `yaml:"cover_image_url"`
	ThumbnailURL  string   `yaml:"thumbnail_url"`
	VideoURL      string   `yaml:"video_url"`
	TrailerURL    string   `yaml:"trailer_url"`
	Starring      []string `yaml:"starring"`
	Director      string   `yaml:"director"`
	Language      string   `yaml:"language"`
	Country       string   `yaml:"country"`
	Tags          []string `yaml:"tags"`
	ContentType   string   `yaml:"content_type"`
	Featured      bool     `yaml:"featured"`
	Trending      bool     `yaml:"trending"`
	SourceName    *string  `yaml:"source_name"`
	SourceID      *int     `yaml:"source_id"`
	Categories    []string `yaml:"categories"`
}

// SeedReport counts what a seed run created and what it found in place.
type SeedReport struct {
	CategoriesCreated  int `json:"categories_created"`
	CategoriesExisting int `json:"categories_existing"`
	ContentCreated     int `json:"content_created"`
	ContentExisting    int `json:"content_existing"`
}

func readSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSeed(f)
}

func decodeSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i, c := range seed.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
	}
	for i, c := range seed.Content {
		if strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("content[%d]: title is required", i)
		}
		if (c.SourceName == nil) != (c.SourceID == nil) {
			return nil, fmt.Errorf("content[%d]: source_name and source_id must be set together", i)
		}
	}
	return &seed, nil
}

// applySeed creates the categories and content of seed that are not stored yet.
func applySeed(ctx context.Context, svc catalog.Service, seed *SeedFile) (SeedReport, error) {
	var report SeedReport
	ids := make(map[string]string, len(seed.Categories))

	for _, c := range seed.Categories {
		name := strings.TrimSpace(c.Name)
		existing, err := svc.GetCategoryByName(ctx, name)
		switch {
		case err == nil:
			report.CategoriesExisting++
			ids[name] = existing.ID.String()
			continue
		case !catalog.IsNotFound(err):
			return report, fmt.Errorf("category %q: %w", name, err)
		}

		created, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{
			Name:        name,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
		})
		if err != nil {
			return report, fmt.Errorf("category %q: %w", name, err)
		}
		report.CategoriesCreated++
		ids[name] = created.ID.String()
	}

	for _, c := range seed.Content {
		if c.SourceName != nil {
			_, err := svc.GetContentBySource(ctx, *c.SourceName, *c.SourceID, catalog.Unresolved())
			if err == nil {
				report.ContentExisting++
				continue
			}
			if !catalog.IsNotFound(err) {
				return report, fmt.Errorf("content %q: %w", c.Title, err)
			}
		}

		categoryIDs, err := seedCategoryIDs(ctx, svc, ids, c.Categories)
		if err != nil {
			return report, fmt.Errorf("content %q: %w", c.Title, err)
		}

		_, err = svc.CreateContent(ctx, catalog.CreateContentRequest{
			Title:         c.Title,
			Description:   c.Description,
			ReleaseDate:   c.ReleaseDate,
			Duration:      c.Duration,
			Rating:        c.Rating,
			CoverImageURL: c.CoverImageURL,
			ThumbnailURL:  c.ThumbnailURL,
			VideoURL:      c.VideoURL,
			TrailerURL:    c.TrailerURL,
			Starring:      c.Starring,
			Director:      c.Director,
			Language:      c.Language,
			Country:       c.Country,
			Tags:          c.Tags,
			ContentType:   c.ContentType,
			Featured:      c.Featured,
			Trending:      c.Trending,
			SourceName:    c.SourceName,
			SourceID:      c.SourceID,
			CategoryIDs:   categoryIDs,
		})
		if err != nil {
			return report, fmt.Errorf("content %q: %w", c.Title, err)
		}
		report.ContentCreated++
	}

	return report, nil
}

// seedCategoryIDs maps category names to ids, looking up names the seed file
// itself does not define.
func seedCategoryIDs(ctx context.Context, svc catalog.Service, known map[string]string, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if id, ok := known[name]; ok {
			out = append(out, id)
			continue
		}
		cat, err := svc.GetCategoryByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		known[name] = cat.ID.String()
		out = append(out, known[name])
	}
	return out, nil
}
