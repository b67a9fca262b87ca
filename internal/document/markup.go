package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/swb-reader/internal/style"
)

const headingPrefix = "# "

// Builder accumulates instructions and the text blob they address.
type Builder struct {
	code []Instruction
	text strings.Builder
}

// Text appends s to the blob and emits a Text instruction for it.
func (b *Builder) Text(s string) {
	offset := b.text.Len()
	b.text.WriteString(s)
	b.code = append(b.code, Text(offset, len(s)))
}

func (b *Builder) Push(attr style.Attribute) { b.code = append(b.code, Push(attr)) }
func (b *Builder) Pop(attr style.Attribute)  { b.code = append(b.code, Pop(attr)) }
func (b *Builder) EndLine()                  { b.code = append(b.code, EndLine()) }
func (b *Builder) Stop()                     { b.code = append(b.code, Stop()) }

// Build validates the accumulated program.
func (b *Builder) Build() (*Program, error) {
	return New(b.code, []byte(b.text.String()))
}

// Compile turns line markup into a program:
//
//	(blank line)   EndLine
//	# heading      Push(bold) Text Pop(bold)
//	{bold}         Push(bold)
//	{/bold}        Pop(bold)
//	{stop}         Stop
//	anything else  Text
//
// A Stop is always appended.
func Compile(r io.Reader) (*Program, error) {
	var b Builder
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if err := compileLine(&b, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read markup: %w", err)
	}
	b.Stop()
	return b.Build()
}

func compileLine(b *Builder, line string) error {
	switch {
	case line == "":
		b.EndLine()
	case strings.HasPrefix(line, headingPrefix):
		b.Push(style.Bold)
		b.Text(strings.TrimPrefix(line, headingPrefix))
		b.Pop(style.Bold)
	case strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}"):
		return compileDirective(b, line[1:len(line)-1])
	default:
		b.Text(line)
	}
	return nil
}

func compileDirective(b *Builder, name string) error {
	if name == "stop" {
		b.Stop()
		return nil
	}
	closing := strings.HasPrefix(name, "/")
	attr, err := style.ParseAttribute(strings.TrimPrefix(name, "/"))
	if err != nil {
		return fmt.Errorf("directive {%s}: %w", name, err)
	}
	if closing {
		b.Pop(attr)
	} else {
		b.Push(attr)
	}
	return nil
}
