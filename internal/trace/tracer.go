package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // если nil, используется OutputPath
	OutputPath string    // "-" или пусто - stderr; несколько путей через запятую
}

// New creates a Tracer for cfg. LevelOff yields Nop. A comma separated
// OutputPath ("trace.log,-") fans events out to every destination.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Output != nil {
		return NewStreamTracer(cfg.Output, cfg.Level, cfg.Format), nil
	}
	paths := strings.Split(cfg.OutputPath, ",")
	tracers := make([]Tracer, 0, len(paths))
	for _, p := range paths {
		w, err := openOutput(strings.TrimSpace(p))
		if err != nil {
			for _, t := range tracers {
				_ = t.Close()
			}
			return nil, err
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, cfg.Format))
	}
	if len(tracers) == 1 {
		return tracers[0], nil
	}
	return NewMultiTracer(cfg.Level, tracers...), nil
}

func openOutput(path string) (io.Writer, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser не даёт Close закрыть stderr.
type nopCloser struct{ io.Writer }
