package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/swb-reader/internal/display"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestResolveScreen(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		size func() (int, int, error)
		want screen
	}{
		{
			name: "explicit",
			cfg:  Config{Width: 40, Height: 16, LineHeight: 1},
			size: fixedSize(100, 50),
			want: screen{width: 40, height: 16, geometry: display.Geometry{Width: 40, Height: 16, LineHeight: 1}},
		},
		{
			name: "terminal with footer",
			cfg:  Config{LineHeight: 2, ShowFooter: true},
			size: fixedSize(100, 31),
			want: screen{width: 100, height: 31, geometry: display.Geometry{Width: 100, Height: 30, LineHeight: 2}},
		},
		{
			name: "no terminal",
			cfg:  Config{Height: 10, LineHeight: 1},
			size: func() (int, int, error) { return 0, 0, errors.New("not a tty") },
			want: screen{width: fallbackWidth, height: 10, geometry: display.Geometry{Width: fallbackWidth, Height: 10, LineHeight: 1}},
		},
	}
	for _, tc := range tests {
		got, err := resolveScreen(tc.cfg, tc.size)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestResolveScreenRejectsTinyDisplays(t *testing.T) {
	_, err := resolveScreen(Config{Width: 10, Height: 2, LineHeight: 3}, fixedSize(0, 0))
	if err == nil {
		t.Fatalf("expected error for display smaller than one line")
	}
}

func TestScrollKeys(t *testing.T) {
	up, down, err := scrollKeys(Config{ScrollUp: "i", ScrollDown: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.String() != "i" || down.String() != "k" {
		t.Fatalf("expected i/k, got %v/%v", up, down)
	}
	if _, _, err := scrollKeys(Config{ScrollUp: "I", ScrollDown: "k"}); err == nil {
		t.Fatalf("expected error for uppercase key")
	}
	if _, _, err := scrollKeys(Config{ScrollUp: "i", ScrollDown: "kk"}); err == nil {
		t.Fatalf("expected error for multi-letter key")
	}
}

func TestRunFailsFastOnBadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("text: ab\ncode:\n  - {op: text, offset: 0, length: 9}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := Run(Config{DocumentPath: path, Width: 20, Height: 5, LineHeight: 1, ScrollUp: "i", ScrollDown: "k"})
	if err == nil || !strings.Contains(err.Error(), "load document") {
		t.Fatalf("expected load fault, got %v", err)
	}
}

func TestIsFault(t *testing.T) {
	if isFault(nil) {
		t.Fatalf("nil is not a fault")
	}
	if isFault(fmt.Errorf("stop: %w", context.Canceled)) {
		t.Fatalf("cancellation is not a fault")
	}
	if !isFault(errors.New("bus fault")) {
		t.Fatalf("expected bus fault to be a fault")
	}
}
