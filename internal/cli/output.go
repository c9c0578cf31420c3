package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackplan/stackplan/pkg/pipeline"
)

// basePath derives the base output path from the output and input file
// paths. An empty output falls back to the input with its extension
// stripped; an output carrying a known format extension loses it.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes rendered artifacts to disk. A single format
// goes to the output path directly (or input-derived); multiple formats
// each get the base path plus their extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if len(formats) == 1 {
		format := formats[0]
		path := output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printSuccess("Wrote %s", format)
		printFile(path)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printSuccess("Wrote %d artifacts", len(formats))
	return nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
