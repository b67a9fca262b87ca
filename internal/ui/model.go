package ui

import (
	"reflect"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/swb-reader/internal/display"
	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/pager"
	"github.com/atomicstack/swb-reader/internal/theme"
)

var styles = theme.Default()

// KeySink receives keystrokes as raw controller entries.
type KeySink interface {
	Tap(code byte) bool
}

// FrameMsg delivers a flushed framebuffer.
type FrameMsg struct {
	Frame display.Snapshot
}

// StatusMsg reports the window currently on screen.
type StatusMsg struct {
	Status pager.Status
}

// FaultMsg reports a fatal task error.
type FaultMsg struct {
	Err error
}

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	UpKey      keyboard.Key
	DownKey    keyboard.Key
}

// Model implements the Bubble Tea model for the reader.
type Model struct {
	sink        KeySink
	keys        keyMap
	frame       display.Snapshot
	hasFrame    bool
	status      pager.Status
	hasStatus   bool
	errMsg      string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	upKey       keyboard.Key
	downKey     keyboard.Key

	handlers map[reflect.Type]msgHandler
}

// NewModel builds a model that forwards key presses to sink.
func NewModel(sink KeySink, opts Options) *Model {
	m := &Model{
		sink:       sink,
		keys:       defaultKeyMap(),
		showFooter: opts.ShowFooter,
		upKey:      opts.UpKey,
		downKey:    opts.DownKey,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(FrameMsg{}):          m.handleFrameMsg,
		reflect.TypeOf(StatusMsg{}):         m.handleStatusMsg,
		reflect.TypeOf(FaultMsg{}):          m.handleFaultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return tea.Quit
	}
	if keyMsg.Type != tea.KeyRunes || keyMsg.Alt || m.sink == nil {
		return nil
	}
	for _, r := range keyMsg.Runes {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			continue
		}
		m.sink.Tap(byte(r))
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	return nil
}

func (m *Model) handleFrameMsg(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(FrameMsg)
	if !ok {
		return nil
	}
	// flushes can race the bridge goroutine; never go backwards
	if m.hasFrame && frame.Frame.Seq <= m.frame.Seq {
		return nil
	}
	m.frame = frame.Frame
	m.hasFrame = true
	return nil
}

func (m *Model) handleStatusMsg(msg tea.Msg) tea.Cmd {
	status, ok := msg.(StatusMsg)
	if !ok {
		return nil
	}
	m.status = status.Status
	m.hasStatus = true
	return nil
}

func (m *Model) handleFaultMsg(msg tea.Msg) tea.Cmd {
	fault, ok := msg.(FaultMsg)
	if !ok || fault.Err == nil {
		return nil
	}
	m.errMsg = fault.Err.Error()
	return tea.Quit
}
