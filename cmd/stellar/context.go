package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"stellar/internal/classify"
	"stellar/internal/config"
	"stellar/internal/journal"
	"stellar/internal/logging"
	"stellar/internal/organize"
	"stellar/internal/renamer"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared logger from configuration. Log records go to
// stderr and a session log file; command output stays on stdout.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		outputs := []string{"stderr"}
		if cfg.Paths.LogDir != "" {
			outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "stellar.log"))
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(cfg.Paths.StateDir, cfg.Journal.Retention)
}

// runOptions merges command-line flags with configured defaults. Empty flag
// values fall back to the config file; the recursive flag only wins when the
// user actually set it.
func (c *commandContext) runOptions(cmd *cobra.Command, modeFlag, renameFlag string, recursive, dryRun bool) (organize.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return organize.Options{}, err
	}

	modeValue := modeFlag
	if modeValue == "" {
		modeValue = cfg.Organize.Mode
	}
	mode, err := classify.ParseMode(modeValue)
	if err != nil {
		return organize.Options{}, err
	}

	renameValue := renameFlag
	if renameValue == "" {
		renameValue = cfg.Organize.Rename
	}
	rename, err := renamer.ParseMode(renameValue)
	if err != nil {
		return organize.Options{}, err
	}

	if !cmd.Flags().Changed("recursive") {
		recursive = cfg.Organize.Recursive
	}

	return organize.Options{
		Mode:      mode,
		Rename:    rename,
		Recursive: recursive,
		DryRun:    dryRun,
	}, nil
}
