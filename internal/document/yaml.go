package document

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/swb-reader/internal/style"
)

// yamlProgram is the explicit listing format:
//
//	text: "HelloWorld"
//	code:
//	  - {op: text, offset: 0, length: 5}
//	  - {op: endline}
//	  - {op: push, attr: bold}
type yamlProgram struct {
	Text string            `yaml:"text"`
	Code []yamlInstruction `yaml:"code"`
}

type yamlInstruction struct {
	Op     string `yaml:"op"`
	Offset int    `yaml:"offset"`
	Length int    `yaml:"length"`
	Attr   string `yaml:"attr"`
}

// DecodeYAML reads an explicit instruction listing.
func DecodeYAML(r io.Reader) (*Program, error) {
	var doc yamlProgram
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	code := make([]Instruction, 0, len(doc.Code))
	for i, entry := range doc.Code {
		in, err := entry.instruction()
		if err != nil {
			return nil, fmt.Errorf("code[%d]: %w", i, err)
		}
		code = append(code, in)
	}
	return New(code, []byte(doc.Text))
}

func (y yamlInstruction) instruction() (Instruction, error) {
	switch y.Op {
	case "text":
		return Text(y.Offset, y.Length), nil
	case "push", "pop":
		attr, err := style.ParseAttribute(y.Attr)
		if err != nil {
			return Instruction{}, err
		}
		if y.Op == "push" {
			return Push(attr), nil
		}
		return Pop(attr), nil
	case "endline":
		return EndLine(), nil
	case "stop":
		return Stop(), nil
	default:
		return Instruction{}, fmt.Errorf("%w: %q", ErrUnknownOp, y.Op)
	}
}
