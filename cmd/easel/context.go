package main

import (
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"easel/internal/config"
)

type commandContext struct {
	configFlag  *string
	noColorFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, noColorFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		noColorFlag: noColorFlag,
	}
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

func (c *commandContext) colorize(writer io.Writer) bool {
	if c.noColorFlag != nil && *c.noColorFlag {
		return false
	}
	return shouldColorize(writer)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
