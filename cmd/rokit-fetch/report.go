package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/fetch"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/launcher"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

var (
	cGreen = lipgloss.Color("118")
	cGold  = lipgloss.Color("220")
	cGray  = lipgloss.Color("246")
	cRed   = lipgloss.Color("203")

	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleVersion = lipgloss.NewStyle().Foreground(cGold).Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(cGreen)
	styleMissing = lipgloss.NewStyle().Foreground(cRed)
	styleDim     = lipgloss.NewStyle().Foreground(cGray)
	styleKey     = lipgloss.NewStyle().Width(8)
)

func renderResult(cfg *config.Config, result *fetch.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("Installed rokit"), styleVersion.Render(result.Version))
	for _, inst := range result.Installed {
		fmt.Fprintf(&b, "  %s %s%s\n",
			styleOK.Render("✓"),
			styleKey.Render(inst.Key.String()),
			styleDim.Render(fmt.Sprintf("%s (%d files)", inst.Asset.Name, inst.Files)))
	}
	for _, key := range result.Missing {
		fmt.Fprintf(&b, "  %s %s%s\n",
			styleMissing.Render("✗"),
			styleKey.Render(key.String()),
			styleDim.Render("no matching release asset"))
	}
	fmt.Fprintf(&b, "%s\n", styleDim.Render(fmt.Sprintf("into %s in %s", cfg.BinDir(), result.Duration.Round(time.Millisecond))))

	return b.String()
}

func renderStatus(cfg *config.Config, rec *fetch.VersionRecord, installed map[platform.Key]string) string {
	var b strings.Builder

	if rec == nil {
		fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("rokit"), styleMissing.Render("not installed"))
		fmt.Fprintf(&b, "%s\n", styleDim.Render("Run 'rokit-fetch' to install it"))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s %s\n",
		styleTitle.Render("rokit"),
		styleVersion.Render(rec.Version),
		styleDim.Render("downloaded "+rec.DownloadedAt))

	for _, key := range platform.AllKeys {
		path, ok := installed[key]
		if ok {
			fmt.Fprintf(&b, "  %s %s%s\n", styleOK.Render("✓"), styleKey.Render(key.String()), styleDim.Render(path))
		} else {
			fmt.Fprintf(&b, "  %s %s%s\n", styleMissing.Render("✗"), styleKey.Render(key.String()), styleDim.Render("missing"))
		}
	}
	fmt.Fprintf(&b, "%s\n", styleDim.Render("root "+cfg.InstallRoot))

	return b.String()
}

// installedKeys returns the binary each platform directory would launch.
func installedKeys(cfg *config.Config) map[platform.Key]string {
	locator := launcher.NewLocator(cfg.InstallRoot, cfg.BinaryName)
	installed := make(map[platform.Key]string)
	for _, key := range platform.AllKeys {
		if path, found, err := locator.Locate(key); err == nil && found {
			installed[key] = path
		}
	}
	return installed
}
