// Package document holds the decoded document program: an immutable
// instruction stream plus the text blob its Text instructions address.
package document

import (
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/atomicstack/swb-reader/internal/style"
)

// Op identifies the instruction variant.
type Op uint8

const (
	OpText Op = iota
	OpPush
	OpPop
	OpEndLine
	OpStop
)

var (
	ErrAddressOutOfRange = errors.New("text address out of range")
	ErrInvalidEncoding   = errors.New("text address splits or contains invalid utf-8")
	ErrUnknownOp         = errors.New("unknown instruction")
)

var opNames = map[Op]string{
	OpText:    "text",
	OpPush:    "push",
	OpPop:     "pop",
	OpEndLine: "endline",
	OpStop:    "stop",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Address is a byte range into the program's text blob.
type Address struct {
	Offset int
	Length int
}

func (a Address) end() int {
	return a.Offset + a.Length
}

func (a Address) String() string {
	return fmt.Sprintf("[%d:%d]", a.Offset, a.end())
}

// Instruction is one step of the document program. Addr is meaningful for
// OpText, Attr for OpPush and OpPop.
type Instruction struct {
	Op   Op
	Addr Address
	Attr style.Attribute
}

func Text(offset, length int) Instruction {
	return Instruction{Op: OpText, Addr: Address{Offset: offset, Length: length}}
}

func Push(attr style.Attribute) Instruction {
	return Instruction{Op: OpPush, Attr: attr}
}

func Pop(attr style.Attribute) Instruction {
	return Instruction{Op: OpPop, Attr: attr}
}

func EndLine() Instruction {
	return Instruction{Op: OpEndLine}
}

func Stop() Instruction {
	return Instruction{Op: OpStop}
}

func (in Instruction) String() string {
	switch in.Op {
	case OpText:
		return "text" + in.Addr.String()
	case OpPush, OpPop:
		return in.Op.String() + "(" + in.Attr.String() + ")"
	default:
		return in.Op.String()
	}
}

// Program is a validated, immutable document. The zero value is an empty
// program.
type Program struct {
	code []Instruction
	text []byte
}

// New validates code against text and returns a Program that owns copies of
// both. Every Text address must lie inside text on UTF-8 boundaries, every
// opcode must be known and every Push/Pop must name a known attribute.
func New(code []Instruction, text []byte) (*Program, error) {
	for i, in := range code {
		if err := validate(in, text); err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
		}
	}
	return &Program{
		code: append([]Instruction(nil), code...),
		text: append([]byte(nil), text...),
	}, nil
}

func validate(in Instruction, text []byte) error {
	switch in.Op {
	case OpText:
		return checkAddress(in.Addr, text)
	case OpPush, OpPop:
		if !in.Attr.Valid() {
			return fmt.Errorf("%w: %d", style.ErrUnknownAttribute, uint8(in.Attr))
		}
		return nil
	case OpEndLine, OpStop:
		return nil
	default:
		return ErrUnknownOp
	}
}

func checkAddress(a Address, text []byte) error {
	if a.Offset < 0 || a.Length < 0 || a.end() > len(text) || a.end() < a.Offset {
		return fmt.Errorf("%w: %s of %d bytes", ErrAddressOutOfRange, a, len(text))
	}
	if !utf8.Valid(text[a.Offset:a.end()]) {
		return fmt.Errorf("%w: %s", ErrInvalidEncoding, a)
	}
	return nil
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.code)
}

// All iterates the instruction stream in order.
func (p *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(int, Instruction) bool) {
		for i, in := range p.code {
			if !yield(i, in) {
				return
			}
		}
	}
}

// Text resolves an address into the text blob. Out-of-range or badly
// encoded addresses fail instead of being truncated.
func (p *Program) Text(a Address) (string, error) {
	if err := checkAddress(a, p.text); err != nil {
		return "", err
	}
	return string(p.text[a.Offset:a.end()]), nil
}

// LineCount returns the number of logical lines (Text and EndLine
// instructions) before the first Stop.
func (p *Program) LineCount() int {
	n := 0
	for _, in := range p.code {
		switch in.Op {
		case OpText, OpEndLine:
			n++
		case OpStop:
			return n
		}
	}
	return n
}
