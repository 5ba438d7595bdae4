package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
)

// stdio selects standard input or output in place of a file path.
const stdio = "-"

// readDescriptor loads the descriptor at path, or from stdin for "-".
func readDescriptor(cmd *cobra.Command, path string) (graph.Descriptor, error) {
	if path == stdio {
		return graph.ReadDescriptor(cmd.InOrStdin())
	}
	d, err := graph.ReadDescriptorFile(path)
	if err != nil {
		return graph.Descriptor{}, fmt.Errorf("load descriptor %s: %w", path, err)
	}
	return d, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output ends in a known format extension, that extension is stripped.
func basePath(output, input string, known []string) string {
	if output == "" {
		if input == stdio {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, k := range known {
		if strings.EqualFold(strings.TrimPrefix(ext, "."), k) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeFile writes data to path after validating the path.
func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
