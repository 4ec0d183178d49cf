package config

const (
	defaultStateDir        = "~/.local/share/stellar"
	defaultLogDir          = "~/.local/share/stellar/logs"
	defaultMode            = "category"
	defaultRename          = "skip"
	defaultDebounceSeconds = 2
	defaultRetention       = 50
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Categories: map[string][]string{
			"Documents":    {"pdf", "doc", "docx", "txt", "rtf", "odt", "md", "tex", "epub"},
			"Images":       {"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "heic", "tiff", "raw"},
			"Videos":       {"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v"},
			"Audio":        {"mp3", "wav", "flac", "aac", "ogg", "m4a", "wma", "opus"},
			"Archives":     {"zip", "tar", "gz", "rar", "7z", "bz2", "xz", "iso"},
			"Spreadsheets": {"xls", "xlsx", "csv", "ods", "numbers"},
			"Code":         {"py", "js", "ts", "go", "rs", "c", "cpp", "h", "java", "rb", "sh", "json", "yaml", "toml", "xml", "html", "css", "sql"},
		},
		Protected: Protected{
			System: []string{"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr", "/var", "/System", "/Library", "/Applications"},
			User:   []string{"~/.ssh", "~/.gnupg", "~/.config", "~/.local"},
			Dev:    []string{"~/go", "~/.cargo", "~/.rustup", "~/.npm"},
		},
		Organize: Organize{
			Mode:      defaultMode,
			Rename:    defaultRename,
			Recursive: false,
		},
		Watch: Watch{
			DebounceSeconds: defaultDebounceSeconds,
		},
		Journal: Journal{
			Retention: defaultRetention,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
