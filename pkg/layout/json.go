package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalGraph serializes a graph to indented JSON. The encoding is
// stable for identical graphs: slices keep their order and map keys are
// sorted by the encoder, so the bytes are usable as cache key input.
func MarshalGraph(g *Graph) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("nil graph")
	}
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes a graph from JSON.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if g.Clusters == nil {
		g.Clusters = make(map[string]Cluster)
	}
	return &g, nil
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(w io.Writer, g *Graph) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadGraph reads a graph from JSON in r.
func ReadGraph(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return UnmarshalGraph(data)
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}
