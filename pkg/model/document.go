package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a model document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is the on-disk shape of a GraphModel used by fixtures and the CLI.
// Exactly one of Cluster or Flow must match Kind.
type Document struct {
	Kind    Kind          `json:"kind" yaml:"kind"`
	Cluster *ClusterModel `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Flow    *FlowModel    `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// FormatFromPath picks a format by file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads a document and builds the GraphModel through the validating
// constructors.
func Decode(r io.Reader, format Format) (GraphModel, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return GraphModel{}, fmt.Errorf("decode json model: %w", err)
		}
	case FormatYAML, "":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return GraphModel{}, fmt.Errorf("decode yaml model: %w", err)
		}
	default:
		return GraphModel{}, fmt.Errorf("decode model: unsupported format %q", format)
	}
	return doc.Build()
}

// Build validates the document and returns the GraphModel it describes.
func (d Document) Build() (GraphModel, error) {
	switch d.Kind {
	case KindCluster:
		if d.Cluster == nil {
			return GraphModel{}, fmt.Errorf("%w: kind cluster without cluster section", ErrInvalidModel)
		}
		m, err := NewClusterModel(d.Cluster.Primary, d.Cluster.Clusters)
		if err != nil {
			return GraphModel{}, err
		}
		return FromCluster(m), nil
	case KindFlow:
		if d.Flow == nil {
			return GraphModel{}, fmt.Errorf("%w: kind flow without flow section", ErrInvalidModel)
		}
		m, err := NewFlowModel(d.Flow.Steps, d.Flow.Transfers)
		if err != nil {
			return GraphModel{}, err
		}
		return FromFlow(m), nil
	default:
		return GraphModel{}, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
}

// LoadFile reads a model document from disk.
func LoadFile(path string) (GraphModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GraphModel{}, fmt.Errorf("read model %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data), FormatFromPath(path))
}

// Encode writes g as a document.
func Encode(w io.Writer, g GraphModel, format Format) error {
	doc := Document{Kind: g.Kind(), Cluster: g.Cluster(), Flow: g.Flow()}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("encode model: unsupported format %q", format)
	}
}
