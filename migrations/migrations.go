package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed schema/**/*.sql
var schemaFS embed.FS

// Schema returns the embedded schema filesystem
func Schema() fs.FS {
	fs, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		panic(err) // should never happen since we control the embed path
	}
	return fs
}

// SQL concatenates all embedded schema files in path order into a single
// script suitable for sqlitex.ExecuteScript or equivalent.
func SQL() (string, error) {
	var files []string
	schema := Schema()

	err := fs.WalkDir(schema, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk embedded schema files: %w", err)
	}

	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		content, err := fs.ReadFile(schema, f)
		if err != nil {
			return "", fmt.Errorf("failed to read schema file %s: %w", f, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
