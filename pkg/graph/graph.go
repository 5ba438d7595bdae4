package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a Layout as indented JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
// The file is created with 0644 permissions.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeAndClose(l, f)
}

// writeAndClose encodes l to wc and closes it. A failed Close is reported
// when the encode succeeded, since buffered data may not have been flushed.
func writeAndClose(l Layout, wc io.WriteCloser) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return WriteLayout(l, wc)
}

// ReadLayout decodes a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	return l, validateLayout(l)
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, validateLayout(l)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

// validateLayout checks that every edge and layer entry refers to a node the
// layout either placed or reported as a discrepancy.
func validateLayout(l Layout) error {
	known := make(map[string]struct{}, len(l.Nodes)+len(l.Unplaced))
	for _, n := range l.Nodes {
		known[n.ID] = struct{}{}
	}
	for _, ids := range [][]string{l.Unplaced, l.Missing} {
		for _, id := range ids {
			known[id] = struct{}{}
		}
	}
	for _, e := range l.Edges {
		for _, id := range [2]string{e.From, e.To} {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("edge %s -> %s references unknown node %q", e.From, e.To, id)
			}
		}
	}
	for i, layer := range l.Layers {
		for _, id := range layer {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("layer %d references unknown node %q", i, id)
			}
		}
	}
	return nil
}
