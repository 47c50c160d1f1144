package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Options configures the process logger.
type Options struct {
	Env   string // development -> console output, anything else -> JSON
	Level string
	File  string // optional extra sink, appended to
}

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() { zerolog.DefaultContextLogger = &base }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger. The returned closer releases the log file
// when one was opened.
func Setup(opts Options) (io.Closer, error) {
	var w io.Writer = os.Stdout
	if opts.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w = zerolog.MultiLevelWriter(w, f)
		closer = f
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	SetLogger(zerolog.New(w).Level(level).With().Timestamp().Logger())
	return closer, nil
}

// SetLogger replaces the process logger. Tests use it to capture output.
func SetLogger(l zerolog.Logger) {
	base = l
	zerolog.DefaultContextLogger = &base
}

// Logger returns the process logger.
func Logger() *zerolog.Logger { return &base }

// Middleware stores a request-scoped logger in the request's user context so
// code below the handlers can log through zerolog.Ctx, and writes one access
// line per request once the response status is known.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := base.With().Str("req_id", requestID(c)).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		if err := c.Next(); err != nil {
			// let the app's error handler set the final status
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		Info(c, "http.access", map[string]any{"latency_ms": time.Since(start).Milliseconds()})
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	rid, _ := c.Locals("requestid").(string)
	return rid
}

func event(e *zerolog.Event, c *fiber.Ctx, action string, fields map[string]any) {
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid := requestID(c); rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Str("action", action).Send()
}

// Info records a routine event such as a request served.
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	event(base.Info(), c, action, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	event(base.Info().Bool("audit", true), c, action, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	event(base.Warn(), c, action, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	event(base.Error().Err(err), c, action, fields)
}
