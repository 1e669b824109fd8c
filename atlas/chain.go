package atlas

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAxis  = errors.New("field already used as an axis")
	ErrAxisOutOfRange = errors.New("axis position out of range")
)

// FilterChain is the ordered list of grouping axes chosen by the user.
// A slot may be unset (empty id) while the user is still editing it.
// No concrete field id appears in more than one slot.
type FilterChain struct {
	axes []FieldID
}

// NewFilterChain builds a chain by appending each id in order
func NewFilterChain(ids ...FieldID) (*FilterChain, error) {
	c := &FilterChain{}
	for _, id := range ids {
		if err := c.AppendAxis(id); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len returns the number of slots, including unset ones
func (c *FilterChain) Len() int {
	return len(c.axes)
}

// AppendAxis adds a slot at the end. An empty id adds an unset slot.
func (c *FilterChain) AppendAxis(id FieldID) error {
	if err := c.validate(len(c.axes), id); err != nil {
		return err
	}
	c.axes = append(c.axes, id)
	return nil
}

// RemoveAxis deletes the slot at position
func (c *FilterChain) RemoveAxis(position int) error {
	if position < 0 || position >= len(c.axes) {
		return fmt.Errorf("%w: %d", ErrAxisOutOfRange, position)
	}
	c.axes = append(c.axes[:position:position], c.axes[position+1:]...)
	return nil
}

// SetAxis replaces the field at position. An empty id clears the slot.
func (c *FilterChain) SetAxis(position int, id FieldID) error {
	if position < 0 || position >= len(c.axes) {
		return fmt.Errorf("%w: %d", ErrAxisOutOfRange, position)
	}
	if err := c.validate(position, id); err != nil {
		return err
	}
	c.axes[position] = id
	return nil
}

// validate checks that id may occupy position without breaking the chain invariants
func (c *FilterChain) validate(position int, id FieldID) error {
	if id == "" {
		return nil
	}
	if _, err := LookupField(id); err != nil {
		return err
	}
	for i, existing := range c.axes {
		if i != position && existing == id {
			return fmt.Errorf("%w: %q", ErrDuplicateAxis, id)
		}
	}
	return nil
}

// ListAxes returns a copy of every slot in order
func (c *FilterChain) ListAxes() []FieldID {
	axes := make([]FieldID, len(c.axes))
	copy(axes, c.axes)
	return axes
}

// ConcreteAxes returns the set slots in order, skipping unset ones
func (c *FilterChain) ConcreteAxes() []FieldID {
	axes := make([]FieldID, 0, len(c.axes))
	for _, id := range c.axes {
		if id != "" {
			axes = append(axes, id)
		}
	}
	return axes
}

// IsComplete reports whether the chain is non-empty and every slot is set
func (c *FilterChain) IsComplete() bool {
	if len(c.axes) == 0 {
		return false
	}
	for _, id := range c.axes {
		if id == "" {
			return false
		}
	}
	return true
}

// AvailableFieldsFor lists the fields a UI should offer for the slot at position:
// fields not used by another slot and not in the domain opposite to a restricted
// field chosen elsewhere. position may equal Len() to describe a new slot.
//
// The result is only a hint. ComputeGroups accepts chains that ignore it.
func (c *FilterChain) AvailableFieldsFor(position int) []FieldSpec {
	used := make(map[FieldID]bool, len(c.axes))
	excluded := make(map[Domain]bool, 2)
	for i, id := range c.axes {
		if i == position || id == "" {
			continue
		}
		used[id] = true
		if domain, err := FieldDomain(id); err == nil && domain.Restricted() {
			excluded[domain.Opposite()] = true
		}
	}

	available := make([]FieldSpec, 0, len(catalog))
	for _, spec := range catalog {
		if used[spec.ID] || excluded[spec.Domain] {
			continue
		}
		available = append(available, spec)
	}
	return available
}
