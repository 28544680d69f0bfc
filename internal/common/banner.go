package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

var bannerOut io.Writer = os.Stderr

// PrintBanner displays the application startup banner to stderr.
// role names the process ("server" or "train").
func PrintBanner(config *Config, logger *Logger, role string) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	backend := fmt.Sprintf("%s (%s)", config.LLM.Provider, config.LLM.Model)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888b     d888 Y88b   d88P 888b    888 88888888888 8888888b.`,
		` 8888b   d8888  Y88b d88P  8888b   888     888     888   Y88b`,
		` 88888b.d88888   Y88o88P   88888b  888     888     888    888`,
		` 888Y88888P888    Y888P    888Y88b 888     888     888   d88P`,
		` 888 Y888P 888     888     888 Y88b888     888     8888888P'`,
		` 888  Y8P  888     888     888  Y88888     888     888 T88b`,
		` 888   "   888     888     888   Y8888     888     888  T88b`,
		` 888       888     888     888    Y888     888     888   T88b`,
	}

	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(bannerOut, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(bannerOut, "\n%s  Finansal Danışmanlık%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)

	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Role", role},
	}
	if role == "server" {
		kvLines = append(kvLines, [2]string{"Service URL", serviceURL}, [2]string{"Inference", backend})
	} else {
		kvLines = append(kvLines, [2]string{"Base Model", config.Training.BaseModel}, [2]string{"Output", config.Training.OutputDir})
	}
	for _, kv := range kvLines {
		fmt.Fprintf(bannerOut, "%s  %-16s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("role", role).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(bannerOut, "\n%s\n", hr)
	fmt.Fprintf(bannerOut, "%s  MYNTR - SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(bannerOut, "%s\n\n", hr)

	logger.Info().Msg("Application shutting down")
}
