package main

import (
	"strings"
	"sync"

	"reeldocs/internal/config"
)

type commandContext struct {
	configFlag  *string
	addressFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, addressFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		addressFlag: addressFlag,
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
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiAddress resolves the daemon address: the --address flag wins, then the
// configured bind address.
func (c *commandContext) apiAddress() string {
	if c.addressFlag != nil && strings.TrimSpace(*c.addressFlag) != "" {
		return strings.TrimSpace(*c.addressFlag)
	}
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return ""
	}
	return strings.TrimSpace(cfg.Paths.APIBind)
}

func (c *commandContext) client() (*apiClient, error) {
	address := c.apiAddress()
	token := ""
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		token = strings.TrimSpace(cfg.Paths.APIToken)
	}
	return newAPIClient(address, token)
}
