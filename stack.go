package glslfx

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopedID joins an instance id and a parameter id into a globally unique
// identifier. Collisions are impossible by construction: instance ids are
// unique per placement, parameter ids are unique within one effect, and the
// delimiter is forbidden inside both components.
func ScopedID(instanceID, paramID string) string {
	return instanceID + string(ScopeDelimiter) + paramID
}

// UniformName returns the uniform name of a scoped parameter.
func UniformName(instanceID, paramID string) string {
	return "u" + string(ScopeDelimiter) + ScopedID(instanceID, paramID)
}

// ColorUniformName returns the uniform name of a color slot.
func ColorUniformName(slot int) string {
	return "u_color" + strconv.Itoa(slot)
}

// Instance is one concrete placement of an effect in the user's composition.
type Instance struct {
	// ID is opaque, unique per placement and never reused, even when the
	// same effect id is added twice.
	ID string
	// Effect references a Definition id in the registry. The reference may
	// dangle mid-edit; composition skips it silently.
	Effect string
	// Enabled excludes the instance from composition without removing it.
	Enabled bool
}

// Stack holds the user-ordered effect instances (activation order), their
// flat scoped-parameter value mapping and the color slot list. It is the
// whole mutable, UI-facing state the composition engine reads; every
// structural change is followed by a full recomposition by the caller.
type Stack struct {
	reg       *Registry
	instances []*Instance
	values    map[string]Value
	colors    []string
	nextID    int
}

// NewStack returns an empty stack over the given registry.
func NewStack(reg *Registry) *Stack {
	return &Stack{reg: reg, values: make(map[string]Value)}
}

// Registry returns the catalog the stack was built over.
func (s *Stack) Registry() *Registry { return s.reg }

// Add appends a new enabled instance of the effect and seeds its scoped
// parameter values with the declared defaults.
func (s *Stack) Add(effectID string) (*Instance, error) {
	eff, ok := s.reg.Lookup(effectID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, effectID)
	}
	s.nextID++
	inst := &Instance{
		ID:      "fx" + strconv.Itoa(s.nextID),
		Effect:  effectID,
		Enabled: true,
	}
	for _, p := range eff.Params {
		s.values[ScopedID(inst.ID, p.ID)] = p.Default
	}
	s.instances = append(s.instances, inst)
	return inst, nil
}

// Remove deletes the instance and its scoped values. Unknown ids are a no-op.
func (s *Stack) Remove(instanceID string) {
	idx := s.index(instanceID)
	if idx < 0 {
		return
	}
	inst := s.instances[idx]
	if eff, ok := s.reg.Lookup(inst.Effect); ok {
		for _, p := range eff.Params {
			delete(s.values, ScopedID(inst.ID, p.ID))
		}
	}
	s.instances = append(s.instances[:idx], s.instances[idx+1:]...)
}

// Toggle flips an instance's enabled flag and reports the new state.
func (s *Stack) Toggle(instanceID string) (enabled, ok bool) {
	idx := s.index(instanceID)
	if idx < 0 {
		return false, false
	}
	s.instances[idx].Enabled = !s.instances[idx].Enabled
	return s.instances[idx].Enabled, true
}

// Move repositions an instance within the activation order. The destination
// is clamped to the contiguous run of same-category instances around the
// moved one, so an instance can never cross into a foreign category's index
// range; a drop that would land there degenerates to the nearest legal slot
// or a no-op. Reports whether the order changed.
func (s *Stack) Move(instanceID string, to int) bool {
	from := s.index(instanceID)
	if from < 0 {
		return false
	}
	eff, ok := s.reg.Lookup(s.instances[from].Effect)
	if !ok {
		return false // Dangling reference, category unknown.
	}
	lo, hi := from, from
	for lo > 0 && s.sameCategory(lo-1, eff.Category) {
		lo--
	}
	for hi < len(s.instances)-1 && s.sameCategory(hi+1, eff.Category) {
		hi++
	}
	if to < lo {
		to = lo
	} else if to > hi {
		to = hi
	}
	if to == from {
		return false
	}
	inst := s.instances[from]
	if to < from {
		copy(s.instances[to+1:from+1], s.instances[to:from])
	} else {
		copy(s.instances[from:to], s.instances[from+1:to+1])
	}
	s.instances[to] = inst
	return true
}

// Restore replaces the stack's whole state with a persisted session.
// Instance ids are preserved so scoped value keys stay bindable; the id
// generator resumes past the highest restored "fx<N>" id so future Add calls
// never reuse one. Dangling effect references are kept, matching the
// mid-edit tolerance of composition. Colors are re-parsed and normalized.
func (s *Stack) Restore(instances []Instance, values map[string]Value, colors []string) error {
	if len(colors) > MaxColorSlots {
		return fmt.Errorf("color slots capped at %d, got %d", MaxColorSlots, len(colors))
	}
	seen := make(map[string]bool, len(instances))
	restored := make([]*Instance, 0, len(instances))
	nextID := 0
	for _, in := range instances {
		if err := ValidateIdentifier(in.ID); err != nil {
			return fmt.Errorf("instance id %q: %w", in.ID, err)
		}
		if seen[in.ID] {
			return fmt.Errorf("duplicate instance id %q", in.ID)
		}
		seen[in.ID] = true
		if n, err := strconv.Atoi(strings.TrimPrefix(in.ID, "fx")); err == nil && n > nextID {
			nextID = n
		}
		in := in
		restored = append(restored, &in)
	}
	normColors := make([]string, len(colors))
	for i, c := range colors {
		rgb, err := ParseColor(c)
		if err != nil {
			return fmt.Errorf("color slot %d: %w", i, err)
		}
		normColors[i] = FormatColor(rgb)
	}
	s.instances = restored
	s.nextID = nextID
	s.values = make(map[string]Value, len(values))
	for k, v := range values {
		s.values[k] = v
	}
	s.colors = normColors
	return nil
}

func (s *Stack) sameCategory(idx int, cat Category) bool {
	eff, ok := s.reg.Lookup(s.instances[idx].Effect)
	return ok && eff.Category == cat
}

func (s *Stack) index(instanceID string) int {
	for i, inst := range s.instances {
		if inst.ID == instanceID {
			return i
		}
	}
	return -1
}

// Instances returns the activation-ordered instance list. The slice is a
// copy; the pointed-to instances are live.
func (s *Stack) Instances() []*Instance {
	return append([]*Instance(nil), s.instances...)
}

// SetValue stores a scoped parameter value.
func (s *Stack) SetValue(scopedID string, v Value) { s.values[scopedID] = v }

// Value returns the stored value of a scoped parameter.
func (s *Stack) Value(scopedID string) (Value, bool) {
	v, ok := s.values[scopedID]
	return v, ok
}

// Values returns a copy of the flat scoped-parameter value mapping.
func (s *Stack) Values() map[string]Value {
	m := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		m[k] = v
	}
	return m
}

// AddColor appends a color slot. Accepts hex or named colors and reports an
// error past the slot cap or for unparseable colors.
func (s *Stack) AddColor(c string) error {
	if len(s.colors) >= MaxColorSlots {
		return fmt.Errorf("color slots capped at %d", MaxColorSlots)
	}
	rgb, err := ParseColor(c)
	if err != nil {
		return err
	}
	s.colors = append(s.colors, FormatColor(rgb))
	return nil
}

// SetColor replaces the color in a slot.
func (s *Stack) SetColor(slot int, c string) error {
	if slot < 0 || slot >= len(s.colors) {
		return fmt.Errorf("color slot %d out of range", slot)
	}
	rgb, err := ParseColor(c)
	if err != nil {
		return err
	}
	s.colors[slot] = FormatColor(rgb)
	return nil
}

// RemoveColor deletes a color slot, shifting later slots down.
func (s *Stack) RemoveColor(slot int) {
	if slot < 0 || slot >= len(s.colors) {
		return
	}
	s.colors = append(s.colors[:slot], s.colors[slot+1:]...)
}

// Colors returns the ordered color slot list as "#rrggbb" strings.
func (s *Stack) Colors() []string {
	return append([]string(nil), s.colors...)
}
