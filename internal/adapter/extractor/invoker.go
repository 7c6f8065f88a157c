package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/alessio/shellescape"
	"github.com/jgivc/mediafetch/internal/adapter/provider"
	"github.com/jgivc/mediafetch/internal/common"
)

const (
	waitDelay = 5 * time.Second
)

type Resolver interface {
	Resolve(url string) string
}

type InvokerConfig struct {
	Binary      string // Extractor executable
	Interpreter string // Used for providers that need plugins
	Module      string
	PluginDir   string
	Timeout     time.Duration
}

type invoker struct {
	cfg      InvokerConfig
	resolver Resolver
	log      *slog.Logger
}

func NewInvoker(cfg InvokerConfig, resolver Resolver, log *slog.Logger) *invoker {
	return &invoker{
		cfg:      cfg,
		resolver: resolver,
		log:      log.With(slog.String("item", "Invoker")),
	}
}

// Command builds the process for url. Both launchers get the same flags; the
// specialized one runs the extractor as an interpreter module and adds the
// plugin directory.
func (i *invoker) Command(ctx context.Context, url string, flags Flags) *exec.Cmd {
	dl := flags.Command()

	var cmd *exec.Cmd
	if provider.IsSpecialized(i.resolver.Resolve(url)) {
		cmd = dl.PluginDirs(i.cfg.PluginDir).SetExecutable(i.cfg.Interpreter).BuildCommand(ctx, "--", url)
		cmd.Args = append([]string{cmd.Args[0], "-m", i.cfg.Module}, cmd.Args[1:]...)
	} else {
		cmd = dl.SetExecutable(i.cfg.Binary).BuildCommand(ctx, "--", url)
	}

	cmd.WaitDelay = waitDelay

	return cmd
}

// Run executes the extractor and returns its standard output.
func (i *invoker) Run(ctx context.Context, url string, flags Flags) ([]byte, error) {
	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	cmd := i.Command(ctx, url, flags)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := i.log.With(slog.String("url", url))
	log.Debug("Run extractor", slog.String("cmd", shellescape.QuoteCommand(cmd.Args)))

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("extractor interrupted: %w", errors.Join(ctxErr, err))
		}

		log.Error("Extractor failed", slog.Any("error", err), slog.String("stderr", stderr.String()))

		return nil, &common.ExtractionError{Stderr: stderr.String(), Err: err}
	}

	log.Debug("Extractor done", slog.Duration("took", time.Since(start)))

	return stdout.Bytes(), nil
}
