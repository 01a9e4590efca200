package config

import (
	"fmt"
	"sort"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateServer(); err != nil {
		return err
	}
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validatePageCfgPaths(); err != nil {
		return err
	}
	return cv.validateNavbar()
}

func (cv *configurationValidator) validateServer() error {
	if cv.config.BindPort < 1 || cv.config.BindPort > 65535 {
		return ferrors.ConfigError(fmt.Sprintf("bindport out of range: %d", cv.config.BindPort)).
			WithContext("bindport", cv.config.BindPort).
			Build()
	}
	if cv.config.SiteURL == "" {
		return ferrors.ConfigError("siteurl is required").Build()
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	if cv.config.PageDir == "" {
		return ferrors.ConfigError("pagedir is required").Build()
	}
	if cv.config.ThemeDir == "" {
		return ferrors.ConfigError("themedir is required").Build()
	}
	return nil
}

func (cv *configurationValidator) validatePageCfgPaths() error {
	byCat := cv.config.PageCfgPaths.ByCategory()
	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		if byCat[cat] == "" {
			return ferrors.ConfigError("missing page configuration path").
				WithContext("category", cat).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateNavbar() error {
	for i, nav := range cv.config.Navbar {
		if nav.Link == "" {
			return ferrors.ConfigError("navbar entry has no link").
				WithContext("index", i).
				Build()
		}
	}
	return nil
}
