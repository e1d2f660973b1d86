package config

const (
	defaultWorkspaceRoot  = "."
	defaultLogDir         = "~/.local/share/easel/logs"
	defaultAgentsDir      = "agents"
	defaultTempDir        = "temp_processing"
	defaultOutputDir      = "output_videos"
	defaultSamplePDF      = "example.pdf"
	defaultCacheDirName   = ".cache"
	defaultMinVersion     = "3.10"
	defaultVenvDir        = "venv"
	defaultRequirements   = "requirements.txt"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultGeminiEnvVar   = "GEMINI_API_KEY"
	defaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultGeminiTimeout  = 10
	defaultJournalDBName  = "journal.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultJournalEnabled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceRoot: defaultWorkspaceRoot,
			LogDir:        defaultLogDir,
		},
		Workspace: Workspace{
			AgentsDir: defaultAgentsDir,
			TempDir:   defaultTempDir,
			OutputDir: defaultOutputDir,
			SamplePDF: defaultSamplePDF,
		},
		Python: Python{
			MinVersion:   defaultMinVersion,
			VenvDir:      defaultVenvDir,
			Requirements: defaultRequirements,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Gemini: Gemini{
			EnvVar:         defaultGeminiEnvVar,
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
			CheckAPI:       true,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
