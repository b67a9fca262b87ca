package style

import (
	"errors"
	"fmt"
)

// Attribute is a boolean style flag that document instructions can nest.
type Attribute uint8

const (
	Bold Attribute = iota

	attributeCount
)

var (
	ErrUnderflow        = errors.New("style stack underflow")
	ErrUnknownAttribute = errors.New("unknown style attribute")
)

var attributeNames = [attributeCount]string{
	Bold: "bold",
}

func (a Attribute) String() string {
	if a < attributeCount {
		return attributeNames[a]
	}
	return fmt.Sprintf("attribute(%d)", uint8(a))
}

// Valid reports whether a names a known attribute.
func (a Attribute) Valid() bool {
	return a < attributeCount
}

// ParseAttribute resolves an attribute by its lowercase name.
func ParseAttribute(name string) (Attribute, error) {
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// Style is the resolved set of attributes applied to one rendered line.
type Style struct {
	Bold bool
}

// Stack tracks one nesting counter per attribute. An attribute is active
// while its counter is above zero.
type Stack struct {
	depth [attributeCount]uint32
}

// Push opens one level of attr.
func (s *Stack) Push(attr Attribute) error {
	if !attr.Valid() {
		return fmt.Errorf("push: %w: %d", ErrUnknownAttribute, uint8(attr))
	}
	s.depth[attr]++
	return nil
}

// Pop closes one level of attr. An unmatched pop leaves the counter at zero
// and returns ErrUnderflow.
func (s *Stack) Pop(attr Attribute) error {
	if !attr.Valid() {
		return fmt.Errorf("pop: %w: %d", ErrUnknownAttribute, uint8(attr))
	}
	if s.depth[attr] == 0 {
		return fmt.Errorf("pop %s: %w", attr, ErrUnderflow)
	}
	s.depth[attr]--
	return nil
}

// Active reports whether attr is currently enabled.
func (s *Stack) Active(attr Attribute) bool {
	return attr.Valid() && s.depth[attr] > 0
}

// Current resolves the stack into the style for the next line.
func (s *Stack) Current() Style {
	return Style{Bold: s.Active(Bold)}
}
