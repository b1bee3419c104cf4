// Package campus loads the static campus tables and assembles the
// immutable routing core shared by every request.
package campus

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"campus_router/pkg/geo"
)

// ErrConfig is wrapped by every failure to load or assemble a campus.
var ErrConfig = errors.New("campus configuration error")

//go:embed default_campus.yaml
var defaultCampus []byte

// Dataset is the on-disk form of a campus: places, junctions and the
// segments joining them.
type Dataset struct {
	Name      string           `yaml:"name"`
	Center    *PointRecord     `yaml:"center,omitempty"`
	Places    []PlaceRecord    `yaml:"places"`
	Junctions []JunctionRecord `yaml:"junctions"`
	Segments  []SegmentRecord  `yaml:"segments"`
}

type PointRecord struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type PlaceRecord struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type JunctionRecord struct {
	ID  string  `yaml:"id"`
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// SegmentRecord is a pair of junction IDs, written as a flow sequence
// ("[J01, J02]").
type SegmentRecord struct {
	A, B string
}

func (s *SegmentRecord) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: segment must list exactly two junction ids", value.Line)
	}
	for _, n := range value.Content {
		if n.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: junction id must be a scalar", n.Line)
		}
	}
	s.A = value.Content[0].Value
	s.B = value.Content[1].Value
	return nil
}

func (s SegmentRecord) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: s.A},
			{Kind: yaml.ScalarNode, Value: s.B},
		},
	}, nil
}

// Parse decodes a YAML dataset. Unknown fields are rejected.
func Parse(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty dataset", ErrConfig)
		}
		return nil, fmt.Errorf("%w: decode dataset: %w", ErrConfig, err)
	}
	return &ds, nil
}

// Load reads a YAML dataset from path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset: %w", ErrConfig, err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Default returns the dataset compiled into the binary.
func Default() (*Dataset, error) {
	return Parse(strings.NewReader(string(defaultCampus)))
}

// Write encodes ds as YAML.
func (ds *Dataset) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return enc.Close()
}

// CenterPoint returns the configured map centre, or the mean of all place
// and junction coordinates when none is set.
func (ds *Dataset) CenterPoint() geo.Point {
	if ds.Center != nil {
		return geo.Point{Lat: ds.Center.Lat, Lng: ds.Center.Lng}
	}
	var lat, lng float64
	n := 0
	for _, p := range ds.Places {
		lat, lng, n = lat+p.Lat, lng+p.Lng, n+1
	}
	for _, j := range ds.Junctions {
		lat, lng, n = lat+j.Lat, lng+j.Lng, n+1
	}
	if n == 0 {
		return geo.Point{}
	}
	return geo.Point{Lat: lat / float64(n), Lng: lng / float64(n)}
}

// Restrict returns a copy of ds holding only the listed junctions and the
// segments between them. Places are kept as they are.
func (ds *Dataset) Restrict(junctionIDs []string) *Dataset {
	keep := make(map[string]bool, len(junctionIDs))
	for _, id := range junctionIDs {
		keep[id] = true
	}

	out := &Dataset{
		Name:   ds.Name,
		Center: ds.Center,
		Places: append([]PlaceRecord(nil), ds.Places...),
	}
	for _, j := range ds.Junctions {
		if keep[j.ID] {
			out.Junctions = append(out.Junctions, j)
		}
	}
	for _, s := range ds.Segments {
		if keep[s.A] && keep[s.B] {
			out.Segments = append(out.Segments, s)
		}
	}
	return out
}
