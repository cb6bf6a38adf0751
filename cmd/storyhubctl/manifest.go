package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"storyhub/pkg/htmltext"
	"storyhub/pkg/story/service"
)

// manifest is one story as written in an import file.
type manifest struct {
	service.CreateInput  `yaml:",inline"`
	service.ContentInput `yaml:",inline"`
}

type manifestFile struct {
	Stories []manifest `yaml:"stories"`
}

// fileDefaults fill the story fields that plain text and HTML files cannot carry.
type fileDefaults struct {
	title string
	from  string
	to    string
	tags  []string
}

// loadManifests reads a YAML/JSON manifest (one story or a "stories" list),
// or a single .html/.txt file combined with the flag defaults.
func loadManifests(path string, def fileDefaults) ([]manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return decodeManifests(raw)
	case ".html", ".htm":
		title, _, err := htmltext.Extract(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		m := def.manifest(title, path)
		m.OriginalHTML = string(raw)
		return []manifest{m}, nil
	case ".txt", ".md":
		m := def.manifest("", path)
		m.OriginalText = string(raw)
		return []manifest{m}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

func decodeManifests(raw []byte) ([]manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if len(file.Stories) > 0 {
		return file.Stories, nil
	}
	var one manifest
	if err := yaml.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return []manifest{one}, nil
}

func (d fileDefaults) manifest(pageTitle, path string) manifest {
	title := d.title
	if title == "" {
		title = pageTitle
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return manifest{CreateInput: service.CreateInput{
		Title:            title,
		OriginalLanguage: d.from,
		TargetLanguage:   d.to,
		Tags:             d.tags,
	}}
}
