package logs

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/reusee/turtleplay/cmds"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var (
	level     = new(slog.LevelVar)
	levelFlag = cmds.Var[string]("-log-level", "debug, info, warn or error")
)

type Logger = *slog.Logger

func (Module) Logger(
	writer Writer,
) Logger {
	if *levelFlag != "" {
		if err := level.UnmarshalText([]byte(*levelFlag)); err != nil {
			panic(err)
		}
	}

	var handlers []slog.Handler
	var local slog.Handler
	if !underSystemd() {
		local = slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, local)
	}

	journal, err := slogjournal.NewHandler(&slogjournal.Options{
		Level:        level,
		ReplaceGroup: journalKey,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
	switch {
	case err == nil:
		handlers = append(handlers, journal)
	case local != nil:
		// no journal socket outside systemd hosts
		record := slog.NewRecord(time.Now(), slog.LevelDebug, "journal unavailable", 0)
		record.AddAttrs(slog.Any("error", err))
		_ = local.Handle(context.Background(), record)
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})
}

// journalKey maps a key to the upper case form journald field names need.
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}
		return '_'
	}, key)
}

// underSystemd reports whether the process runs as a systemd service.
func underSystemd() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.SplitN(strings.TrimSpace(string(content)), ":", 3)
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
