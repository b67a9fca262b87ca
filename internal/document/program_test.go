package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atomicstack/swb-reader/internal/style"
	"github.com/atomicstack/swb-reader/internal/testutil"
)

func TestNewRejectsBadAddresses(t *testing.T) {
	text := []byte("Hello, 世界")
	tests := []struct {
		name string
		in   Instruction
		want error
	}{
		{name: "past end", in: Text(5, 20), want: ErrAddressOutOfRange},
		{name: "negative offset", in: Text(-1, 2), want: ErrAddressOutOfRange},
		{name: "negative length", in: Text(2, -1), want: ErrAddressOutOfRange},
		{name: "split rune", in: Text(7, 2), want: ErrInvalidEncoding},
		{name: "unknown op", in: Instruction{Op: Op(99)}, want: ErrUnknownOp},
		{name: "unknown attr", in: Push(style.Attribute(9)), want: style.ErrUnknownAttribute},
	}
	for _, tc := range tests {
		_, err := New([]Instruction{tc.in}, text)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewAcceptsWholeRunes(t *testing.T) {
	text := []byte("Hello, 世界")
	prog, err := New([]Instruction{Text(7, 6), Stop()}, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := prog.Text(instructionAt(t, prog, 0).Addr)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "世界" {
		t.Fatalf("expected %q, got %q", "世界", got)
	}
}

func TestProgramOwnsItsInputs(t *testing.T) {
	code := []Instruction{Text(0, 5)}
	text := []byte("Hello")
	prog, err := New(code, text)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	code[0] = Stop()
	text[0] = 'J'
	if instructionAt(t, prog, 0).Op != OpText {
		t.Fatalf("program code changed through caller slice")
	}
	got, _ := prog.Text(instructionAt(t, prog, 0).Addr)
	if got != "Hello" {
		t.Fatalf("program text changed through caller slice: %q", got)
	}
}

func TestTextFailsInsteadOfTruncating(t *testing.T) {
	prog, err := New(nil, []byte("abc"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := prog.Text(Address{Offset: 1, Length: 5}); !errors.Is(err, ErrAddressOutOfRange) {
		t.Fatalf("expected ErrAddressOutOfRange, got %v", err)
	}
}

func TestLineCountStopsAtStop(t *testing.T) {
	prog, err := New([]Instruction{Text(0, 1), EndLine(), Push(style.Bold), Text(1, 1), Stop(), Text(0, 1)}, []byte("ab"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := prog.LineCount(); got != 3 {
		t.Fatalf("expected 3 lines, got %d", got)
	}
}

func TestCompileMarkup(t *testing.T) {
	src := strings.Join([]string{
		"# Title",
		"",
		"plain",
		"{bold}",
		"loud",
		"{/bold}",
		"{stop}",
		"after",
	}, "\n")
	prog, err := Compile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var got []string
	for _, in := range prog.All() {
		got = append(got, in.String())
	}
	want := []string{
		"push(bold)", "text[0:5]", "pop(bold)",
		"endline",
		"text[5:10]",
		"push(bold)", "text[10:14]", "pop(bold)",
		"stop",
		"text[14:19]",
		"stop",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("instructions mismatch (-want +got):\n%s", diff)
	}
	text, err := prog.Text(instructionAt(t, prog, 6).Addr)
	if err != nil || text != "loud" {
		t.Fatalf("expected %q, got %q (%v)", "loud", text, err)
	}
}

func TestCompileRejectsUnknownDirective(t *testing.T) {
	_, err := Compile(strings.NewReader("ok\n{italic}\n"))
	if !errors.Is(err, style.ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
text: "HelloWorld"
code:
  - {op: text, offset: 0, length: 5}
  - {op: endline}
  - {op: push, attr: bold}
  - {op: text, offset: 5, length: 5}
  - {op: pop, attr: bold}
  - {op: stop}
`
	prog, err := DecodeYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Instruction{Text(0, 5), EndLine(), Push(style.Bold), Text(5, 5), Pop(style.Bold), Stop()}
	var got []Instruction
	for _, in := range prog.All() {
		got = append(got, in)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAMLRejectsInvalidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "out of range", src: "text: abc\ncode:\n  - {op: text, offset: 1, length: 9}\n", want: ErrAddressOutOfRange},
		{name: "bad op", src: "text: abc\ncode:\n  - {op: jump}\n", want: ErrUnknownOp},
		{name: "bad attr", src: "text: abc\ncode:\n  - {op: push, attr: underline}\n", want: style.ErrUnknownAttribute},
	}
	for _, tc := range tests {
		_, err := DecodeYAML(strings.NewReader(tc.src))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadPicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	markup := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(markup, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	listing := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(listing, []byte("text: ab\ncode:\n  - {op: text, offset: 0, length: 2}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	prog, err := Load(markup)
	if err != nil {
		t.Fatalf("load markup: %v", err)
	}
	if got := prog.Len(); got != 3 {
		t.Fatalf("expected 3 markup instructions, got %d", got)
	}
	prog, err = Load(listing)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if got := prog.Len(); got != 1 {
		t.Fatalf("expected 1 yaml instruction, got %d", got)
	}
	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestListingDisassemblesProgram(t *testing.T) {
	prog, err := Compile(strings.NewReader("Hello\n\n# World\n"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	testutil.AssertGolden(t, "hello.listing", strings.Join(prog.Listing(), "\n")+"\n")
}

func instructionAt(t *testing.T, prog *Program, at int) Instruction {
	t.Helper()
	for i, in := range prog.All() {
		if i == at {
			return in
		}
	}
	t.Fatalf("program has no instruction %d", at)
	return Instruction{}
}
