package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ServerDefaultApplier handles bind address defaults.
type ServerDefaultApplier struct{}

func (s *ServerDefaultApplier) Domain() string { return "server" }

func (s *ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.BindIP == "" {
		cfg.BindIP = "127.0.0.1"
	}
	if cfg.BindPort == 0 {
		cfg.BindPort = 8000
	}
	return nil
}

// PathsDefaultApplier handles discovery and output directory defaults.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "templates"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "static"
	}
	if cfg.Redirects == nil {
		cfg.Redirects = map[string]string{}
	}
	return nil
}

// LoggingDefaultApplier normalizes logging level and format.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// FileTypesDefaultApplier canonicalizes extension keys and class names.
type FileTypesDefaultApplier struct{}

func (f *FileTypesDefaultApplier) Domain() string { return "filetypes" }

func (f *FileTypesDefaultApplier) ApplyDefaults(cfg *Config) error {
	normalized, err := NormalizeFileTypes(cfg.FileTypes)
	if err != nil {
		return err
	}
	cfg.FileTypes = normalized
	return nil
}

var defaultAppliers = []DefaultApplier{
	&ServerDefaultApplier{},
	&PathsDefaultApplier{},
	&LoggingDefaultApplier{},
	&FileTypesDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
