// Package main provides the lockhold binary: it opens a file, acquires the
// requested advisory lock, prints "ready" on stdout, and holds the lock
// until interrupted or until the hold duration elapses. It exists both as a
// runnable demonstration of the library and as a counterpart process for
// exercising cross-process lock contention.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	filelock "github.com/mrz1836/go-filelock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command. Flags are bound to Viper so each
// option can also be supplied via the environment (LOCKHOLD_FILE,
// LOCKHOLD_MODE, ...).
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "lockhold",
		Short: "Acquire and hold an advisory whole-file lock",
		Long: `lockhold opens (creating if necessary) the given file, acquires an
advisory whole-file lock on it, prints "ready" on stdout, and holds the
lock until interrupted or until --hold elapses. The lock is released on
exit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v.SetEnvPrefix("lockhold")
			v.AutomaticEnv()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	cmd.Flags().String("file", "", "path of the file to lock (created if missing)")
	cmd.Flags().String("mode", "exclusive", "lock mode: shared or exclusive")
	cmd.Flags().Bool("try", false, "fail immediately instead of waiting when the lock is held")
	cmd.Flags().Duration("hold", 0, "how long to hold the lock (0 holds until interrupted)")
	cmd.Flags().Bool("verbose", false, "enable debug logging on stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	logger := newLogger(v.GetBool("verbose"))

	path := v.GetString("file")
	mode := v.GetString("mode")
	if mode != "shared" && mode != "exclusive" {
		return fmt.Errorf("invalid mode %q: must be shared or exclusive", mode)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close lock file")
		}
	}()

	lk, err := acquire(ctx, v, f, mode, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = lk.Close()
	}()

	logger.Debug().Str("file", path).Str("mode", mode).Msg("lock acquired")
	fmt.Println("ready")

	hold := v.GetDuration("hold")
	if hold > 0 {
		select {
		case <-time.After(hold):
		case <-ctx.Done():
		}
		return nil
	}
	<-ctx.Done()
	return nil
}

// acquire takes the lock in borrowing form so the file stays owned by run's
// defer chain regardless of mode.
func acquire(ctx context.Context, v *viper.Viper, f *os.File, mode string, logger zerolog.Logger) (*filelock.LockRef[*os.File], error) {
	opts := []filelock.Option{filelock.WithLogger(logger)}

	if v.GetBool("try") {
		var (
			lk  *filelock.LockRef[*os.File]
			ok  bool
			err error
		)
		if mode == "shared" {
			lk, ok, err = filelock.TryLockSharedRef(f, opts...)
		} else {
			lk, ok, err = filelock.TryLockExclusiveRef(f, opts...)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", f.Name(), err)
		}
		if !ok {
			return nil, fmt.Errorf("lock on %s is held elsewhere", f.Name())
		}
		return lk, nil
	}

	if mode == "shared" {
		return filelock.LockSharedRef(ctx, f, opts...)
	}
	return filelock.LockExclusiveRef(ctx, f, opts...)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
