package deps

// FFmpegInstallHint lists per-platform install commands shown when the
// required media binary is missing.
const FFmpegInstallHint = `Install FFmpeg and re-run setup:
  macOS:         brew install ffmpeg
  Debian/Ubuntu: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Arch:          sudo pacman -S ffmpeg`

// PythonInstallHint is shown when no usable interpreter is found.
const PythonInstallHint = `Install Python 3 and re-run setup:
  macOS:         brew install python
  Debian/Ubuntu: sudo apt install python3 python3-venv
  Fedora:        sudo dnf install python3
  Arch:          sudo pacman -S python`
