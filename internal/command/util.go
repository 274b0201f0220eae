package command

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/stockroom/inventory-system/internal/infrastructure/store"
	"github.com/stockroom/inventory-system/internal/pkg/config"
	"github.com/stockroom/inventory-system/internal/pkg/idgen"
	"github.com/stockroom/inventory-system/pkg/logger"
)

type configKey struct{}

// prompt writes msg to stderr when in is an interactive terminal and reads
// one line. With mask set the typed characters are not echoed.
func prompt(in io.Reader, msg string, mask bool) ([]byte, error) {
	fd, tty := terminalFd(in)
	if tty {
		if _, err := os.Stderr.WriteString(msg); err != nil {
			return nil, err
		}
		if mask {
			defer os.Stderr.WriteString("\n") //nolint:errcheck // cosmetic
			return term.ReadPassword(fd)
		}
	}
	return readLine(in)
}

func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // fd fits in int
	return fd, term.IsTerminal(fd)
}

// cloned from term.readPasswordLine.
func readLine(in io.Reader) ([]byte, error) {
	var buf [1]byte
	var ret []byte

	for {
		n, err := in.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
			default:
				ret = append(ret, buf[0])
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// env is what every sub-command needs once configuration is resolved.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	ids   *idgen.Generator
	store *store.Store
}

func loadEnv(ctx context.Context) (*env, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration resolution failed")
	}
	log := logger.Get()
	ids, err := idgen.New(cfg.IDNode)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg, ids, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, ids: ids, store: st}, nil
}

func (e *env) close(ctx context.Context) error {
	return e.store.Close(context.WithoutCancel(ctx))
}
