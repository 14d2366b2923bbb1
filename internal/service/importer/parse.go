package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/quotehub/quotehub-backend/internal/codec"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// bundleFile is one decoded entity payload from an upload.
type bundleFile struct {
	Entity domain.DataType
	Format domain.Format
	Name   string
	Raw    []byte
	Rows   []domain.Row
}

// parsedBundle is the result of the parse step.
type parsedBundle struct {
	Files    map[domain.DataType]*bundleFile
	Warnings []string
	Total    int
}

// zipMagic is the local-file-header signature every zip starts with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// parseBundle decodes an uploaded bundle (zip of per-entity files) or
// a single-entity payload. Unrecognized archive members are skipped
// with a warning; a payload that yields no usable files is an error.
func parseBundle(filename string, content []byte, hint domain.DataType) (*parsedBundle, error) {
	if len(content) == 0 {
		return nil, domain.NewValidationError("file", "uploaded file is empty")
	}

	if strings.EqualFold(path.Ext(filename), ".zip") || bytes.HasPrefix(content, zipMagic) {
		return parseArchive(content)
	}
	return parseSingle(filename, content, hint)
}

func parseArchive(content []byte) (*parsedBundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read bundle archive: %w", err)
	}

	out := &parsedBundle{Files: make(map[domain.DataType]*bundleFile)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if strings.HasPrefix(name, ".") {
			continue
		}

		entity, format, ok := matchFilename(name)
		if !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("skipping unrecognized file %q", name))
			continue
		}
		if _, dup := out.Files[entity]; dup {
			out.Warnings = append(out.Warnings, fmt.Sprintf("skipping duplicate file for %s: %q", entity, name))
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open bundle member %q: %w", name, err)
		}
		raw, err := io.ReadAll(rc)
		if cErr := rc.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return nil, fmt.Errorf("read bundle member %q: %w", name, err)
		}

		bf, err := decodeFile(entity, format, name, raw)
		if err != nil {
			return nil, err
		}
		out.Files[entity] = bf
		out.Total += len(bf.Rows)
	}

	if len(out.Files) == 0 {
		return nil, domain.NewValidationError("file", "bundle contains no recognizable entity files")
	}
	return out, nil
}

func parseSingle(filename string, content []byte, hint domain.DataType) (*parsedBundle, error) {
	entity, format, ok := matchFilename(path.Base(filename))
	if !ok {
		// Fall back to the caller-provided entity type; the format
		// still has to come from the extension.
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
		f := domain.Format(ext)
		if hint == "" || !hint.IsValid() || !f.IsValid() {
			return nil, domain.NewValidationError("file",
				fmt.Sprintf("cannot determine entity type and format from %q", filename))
		}
		entity, format = hint, f
	}

	bf, err := decodeFile(entity, format, path.Base(filename), content)
	if err != nil {
		return nil, err
	}
	return &parsedBundle{
		Files: map[domain.DataType]*bundleFile{entity: bf},
		Total: len(bf.Rows),
	}, nil
}

func decodeFile(entity domain.DataType, format domain.Format, name string, raw []byte) (*bundleFile, error) {
	rows, err := codec.Decode(string(raw), format, entity)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	return &bundleFile{
		Entity: entity,
		Format: format,
		Name:   name,
		Raw:    raw,
		Rows:   rows,
	}, nil
}

// matchFilename maps a basename like "quote-tags.json" to its entity
// type and format. Hyphens and underscores are interchangeable.
func matchFilename(name string) (domain.DataType, domain.Format, bool) {
	ext := path.Ext(name)
	format := domain.Format(strings.ToLower(strings.TrimPrefix(ext, ".")))
	if !format.IsValid() {
		return "", "", false
	}

	base := name[:len(name)-len(ext)]
	entity, ok := domain.ParseDataType(base)
	if !ok {
		return "", "", false
	}
	return entity, format, true
}
