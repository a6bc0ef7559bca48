package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/ytdwt-go/internal/domain"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain flag", "--newline", "--newline"},
		{"plain path", "/home/user/Videos", "/home/user/Videos"},
		{"empty", "", "''"},
		{"output template", "/tmp/out/%(title)s.%(ext)s", "'/tmp/out/%(title)s.%(ext)s'"},
		{"height selector", "bestvideo[height<=720]+bestaudio/best[height<=720]", "'bestvideo[height<=720]+bestaudio/best[height<=720]'"},
		{"url with query", "https://www.youtube.com/watch?v=abc&t=1", "'https://www.youtube.com/watch?v=abc&t=1'"},
		{"dir with spaces", "/tmp/my videos", "'/tmp/my videos'"},
		{"single quote", "/tmp/it's here", `'/tmp/it'"'"'s here'`},
		{"dollar and backtick", "$HOME/`x`", "'$HOME/`x`'"},
		{"newline", "a\nb", "'a\nb'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteArg(tt.input))
		})
	}
}

func TestShellEscapeCommand(t *testing.T) {
	assert.Equal(t, "yt-dlp", ShellEscapeCommand("yt-dlp"))
	assert.Equal(t, "yt-dlp --newline ''", ShellEscapeCommand("yt-dlp", "--newline", ""))
}

func TestShellEscapeCommand_FullDownload(t *testing.T) {
	args := BuildYTDLPArgs(domain.DownloadRequest{
		URL:       "https://youtu.be/abc?si=x",
		OutputDir: "/tmp/My Videos",
		AudioOnly: true,
	})

	assert.Equal(t,
		"yt-dlp -o '/tmp/My Videos/%(title)s.%(ext)s' -f bestaudio -x --audio-format mp3 --no-playlist --newline --progress 'https://youtu.be/abc?si=x'",
		ShellEscapeCommand("yt-dlp", args...))
}
