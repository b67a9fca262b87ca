package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/swb-reader/internal/app"
	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/scroll"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	List    bool
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envDocument       = "SWB_READER_DOCUMENT"
	envWidth          = "SWB_READER_WIDTH"
	envHeight         = "SWB_READER_HEIGHT"
	envLineHeight     = "SWB_READER_LINE_HEIGHT"
	envLinesPerScroll = "SWB_READER_LINES_PER_SCROLL"
	envScrollUp       = "SWB_READER_SCROLL_UP"
	envScrollDown     = "SWB_READER_SCROLL_DOWN"
	envShowFooter     = "SWB_READER_FOOTER"
	envFlushInterval  = "SWB_READER_FLUSH_INTERVAL"
	envPollInterval   = "SWB_READER_POLL_INTERVAL"
	envTrace          = "SWB_READER_TRACE"
	envLogFile        = "SWB_READER_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("swb-reader", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	document := fs.String("document", envOrDefault(env, envDocument, ""), "document to display (markup, or .yaml listing)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "display width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "display height in rows (0 uses terminal height)")
	lineHeight := fs.Int("line-height", envOrInt(env, envLineHeight, 1), "rows occupied by one logical line")
	linesPerScroll := fs.Int("lines-per-scroll", envOrInt(env, envLinesPerScroll, scroll.DefaultLinesPerScroll), "logical lines moved per scroll command")
	scrollUp := fs.String("scroll-up", envOrDefault(env, envScrollUp, "i"), "key that scrolls up")
	scrollDown := fs.String("scroll-down", envOrDefault(env, envScrollDown, "k"), "key that scrolls down")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "show a position/help row below the page")
	flushInterval := fs.Duration("flush-interval", envOrDuration(env, envFlushInterval, 16*time.Millisecond), "minimum time between display flushes")
	pollInterval := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, 10*time.Millisecond), "keyboard poll interval when the FIFO is empty")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	list := fs.Bool("list", false, "print the document's instruction listing and exit")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *document == "" && fs.NArg() > 0 {
		*document = fs.Arg(0)
	}

	cfg := Config{
		App: app.Config{
			DocumentPath:   *document,
			Width:          *width,
			Height:         *height,
			LineHeight:     *lineHeight,
			LinesPerScroll: *linesPerScroll,
			ScrollUp:       *scrollUp,
			ScrollDown:     *scrollDown,
			ShowFooter:     *footer,
			FlushInterval:  *flushInterval,
			PollInterval:   *pollInterval,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		List: *list,
		Flags: map[string]string{
			"document":       *document,
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"lineHeight":     strconv.Itoa(*lineHeight),
			"linesPerScroll": strconv.Itoa(*linesPerScroll),
			"scrollUp":       *scrollUp,
			"scrollDown":     *scrollDown,
			"footer":         strconv.FormatBool(*footer),
			"flushInterval":  flushInterval.String(),
			"pollInterval":   pollInterval.String(),
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
			"list":           strconv.FormatBool(*list),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	var errs []error
	if strings.TrimSpace(a.DocumentPath) == "" {
		errs = append(errs, errors.New("a document is required (-document or first argument)"))
	}
	if a.Width < 0 {
		errs = append(errs, fmt.Errorf("width must be >= 0 (got %d)", a.Width))
	}
	if a.Height < 0 {
		errs = append(errs, fmt.Errorf("height must be >= 0 (got %d)", a.Height))
	}
	if a.LineHeight < 1 {
		errs = append(errs, fmt.Errorf("line-height must be >= 1 (got %d)", a.LineHeight))
	}
	if a.LinesPerScroll < 1 {
		errs = append(errs, fmt.Errorf("lines-per-scroll must be >= 1 (got %d)", a.LinesPerScroll))
	}
	up, upErr := parseKey("scroll-up", a.ScrollUp)
	down, downErr := parseKey("scroll-down", a.ScrollDown)
	errs = append(errs, upErr, downErr)
	if upErr == nil && downErr == nil && up == down {
		errs = append(errs, fmt.Errorf("scroll-up and scroll-down must differ (both %q)", a.ScrollUp))
	}
	return errors.Join(errs...)
}

func parseKey(name, value string) (keyboard.Key, error) {
	r := []rune(value)
	if len(r) != 1 {
		return 0, fmt.Errorf("%s must be a single lowercase letter (got %q)", name, value)
	}
	k, ok := keyboard.KeyFor(r[0])
	if !ok {
		return 0, fmt.Errorf("%s must be a single lowercase letter (got %q)", name, value)
	}
	return k, nil
}
