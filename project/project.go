// Package project persists composition sessions as JSON. The record shapes
// mirror exactly what the engine consumes: the ordered instance list, the
// flat scoped value mapping and the color slot list. Storage policy is the
// caller's business.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/glslfx/glslfx"
)

// Project is one serializable composition session.
type Project struct {
	Name    string           `json:"name,omitempty"`
	Effects []Effect         `json:"effects"`
	Values  map[string]Value `json:"values,omitempty"`
	Colors  []string         `json:"colors,omitempty"`
}

// Effect is a persisted effect placement.
type Effect struct {
	ID      string `json:"id"`
	Effect  string `json:"effect"`
	Enabled bool   `json:"enabled"`
}

// Value is the JSON shape of a typed parameter value. The kind tag selects
// the meaningful payload fields.
type Value struct {
	Kind string  `json:"kind"`
	Num  float32 `json:"num,omitempty"`
	X    float32 `json:"x,omitempty"`
	Y    float32 `json:"y,omitempty"`
	Hex  string  `json:"hex,omitempty"`
}

func encodeValue(v glslfx.Value) Value {
	return Value{Kind: v.Kind.String(), Num: v.Num, X: v.Vec.X, Y: v.Vec.Y, Hex: v.Hex}
}

func (v Value) decode() (glslfx.Value, error) {
	k, err := glslfx.ParseKind(v.Kind)
	if err != nil {
		return glslfx.Value{}, err
	}
	out := glslfx.Value{Kind: k, Num: v.Num, Hex: v.Hex}
	out.Vec.X, out.Vec.Y = v.X, v.Y
	return out, nil
}

// Snapshot captures the stack's current state.
func Snapshot(s *glslfx.Stack) Project {
	p := Project{Colors: s.Colors()}
	for _, inst := range s.Instances() {
		p.Effects = append(p.Effects, Effect{ID: inst.ID, Effect: inst.Effect, Enabled: inst.Enabled})
	}
	values := s.Values()
	if len(values) > 0 {
		p.Values = make(map[string]Value, len(values))
		for id, v := range values {
			p.Values[id] = encodeValue(v)
		}
	}
	return p
}

// Apply restores a project into a fresh stack over the registry.
func Apply(p Project, reg *glslfx.Registry) (*glslfx.Stack, error) {
	instances := make([]glslfx.Instance, len(p.Effects))
	for i, e := range p.Effects {
		instances[i] = glslfx.Instance{ID: e.ID, Effect: e.Effect, Enabled: e.Enabled}
	}
	values := make(map[string]glslfx.Value, len(p.Values))
	for id, pv := range p.Values {
		v, err := pv.decode()
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", id, err)
		}
		values[id] = v
	}
	s := glslfx.NewStack(reg)
	if err := s.Restore(instances, values, p.Colors); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the project as indented JSON.
func Save(w io.Writer, p Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Load reads a project written by Save.
func Load(r io.Reader) (Project, error) {
	var p Project
	err := json.NewDecoder(r).Decode(&p)
	return p, err
}

// SaveFile writes the project to a file, creating or truncating it.
func SaveFile(filename string, p Project) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := Save(fp, p); err != nil {
		return err
	}
	return fp.Close()
}

// LoadFile reads a project file.
func LoadFile(filename string) (Project, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return Project{}, err
	}
	defer fp.Close()
	return Load(fp)
}
