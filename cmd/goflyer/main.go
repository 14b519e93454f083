/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"goflyer/internal/app"
	"goflyer/internal/config"
	"goflyer/internal/crash"
	applog "goflyer/internal/log"
	"goflyer/internal/script"
	"goflyer/internal/templatepack"
	"goflyer/internal/ui"
	"goflyer/internal/version"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func usage() {
	fmt.Println("goflyer — flyer editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goflyer version|-v|--version                       Show version")
	fmt.Println("  goflyer render <script.json> [-o dir] [-preset p]   Replay an editing script and export the flyer")
	fmt.Println("  goflyer config                                     Print the effective configuration")
	fmt.Println("  goflyer pack <overlay> <out.zip> [font]            Bundle an overlay template and export font")
	fmt.Println("  goflyer install-pack <pack.zip> [dir]              Install a template pack and point the config at it")
	fmt.Println("  goflyer ui                                         Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	cfg, token, cfgErr := config.Load()
	applog.Init(app.LogOptions(cfg))
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("goflyer")
		fmt.Println(version.String())
	case "config":
		printConfig(cfg)
	case "pack":
		if len(args) < 4 {
			fmt.Println("pack requires <overlay> and <out.zip>")
			usage()
			os.Exit(2)
		}
		var fontPath string
		if len(args) > 4 {
			fontPath = args[4]
		}
		if err := templatepack.Build(args[2], fontPath, args[3]); err != nil {
			l.Error("pack failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println(okStyle.Render("Created template pack " + args[3]))
	case "install-pack":
		if len(args) < 3 {
			fmt.Println("install-pack requires <pack.zip>")
			usage()
			os.Exit(2)
		}
		os.Exit(installPack(cfg, token, args[2:], l))
	case "render":
		os.Exit(render(cfg, token, args[2:], l))
	case "ui":
		a := app.New(cfg, token)
		defer a.Close()
		defer crash.Recover(a.Session)
		if err := ui.Run(ui.Options{Session: a.Session, Control: a.Control, Logger: applog.WithComponent("ui")}); err != nil {
			fmt.Println("Error:", err)
			a.Close()
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func render(cfg config.AppConfig, token string, args []string, l *slog.Logger) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	out := fs.String("o", cfg.Export.Dir, "output directory")
	preset := fs.String("preset", cfg.Export.Preset, "export preset: web|print")
	// flags may follow the script path
	var path string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		path, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		fmt.Println("render requires <script.json>")
		usage()
		return 2
	}
	abs, _ := filepath.Abs(path)

	sc, err := script.Load(abs)
	if err != nil {
		l.Error("script invalid", slog.String("path", abs), slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}

	a := app.New(cfg, token)
	defer a.Close()
	defer crash.Recover(a.Session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = a.Session.Context(ctx)

	l.Info("render script", slog.String("path", abs), slog.Int("commands", len(sc.Commands)), slog.String("preset", *preset))
	rep, err := script.Run(ctx, a.Session, sc, script.RunOptions{
		BaseDir:  filepath.Dir(abs),
		Exporter: a.Exporter,
		OutDir:   *out,
		Preset:   *preset,
		Logger:   applog.WithComponent("script"),
	})
	if err != nil {
		l.Error("render failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}

	st := a.Session.Snapshot()
	fmt.Println(titleStyle.Render("goflyer render"))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d commands applied, %d captions, background: %t", rep.Applied, len(st.TextElements), st.BackgroundImage != nil)))
	for _, f := range rep.Files {
		fmt.Println(okStyle.Render("  wrote " + f))
	}
	return 0
}

func installPack(cfg config.AppConfig, token string, args []string, l *slog.Logger) int {
	dir := ""
	if len(args) > 1 {
		dir = args[1]
	} else if p, err := config.ConfigPath(); err == nil {
		dir = filepath.Join(filepath.Dir(p), "templates")
	} else {
		dir = "templates"
	}
	res, err := templatepack.Install(args[0], dir)
	if err != nil {
		l.Error("install failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	cfg.Editor.OverlayPath = res.Overlay
	if res.Font != "" {
		cfg.Export.FontPath = res.Font
	}
	if err := config.Save(cfg, token); err != nil {
		l.Error("config save failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	fmt.Println(okStyle.Render("Installed overlay " + res.Overlay))
	if res.Font != "" {
		fmt.Println(okStyle.Render("Installed font " + res.Font))
	}
	if res.Skipped > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d entries skipped", res.Skipped)))
	}
	return 0
}

func printConfig(cfg config.AppConfig) {
	path, err := config.ConfigPath()
	if err != nil {
		path = "(unavailable)"
	}
	fmt.Println(titleStyle.Render("goflyer config"))
	fmt.Println(dimStyle.Render("file: " + path))
	rows := []struct{ key, val string }{
		{"editor.overlay_path", cfg.Editor.OverlayPath},
		{"editor.display_width", fmt.Sprintf("%g", cfg.Editor.DisplayWidth)},
		{"export.dir", cfg.Export.Dir},
		{"export.font_path", cfg.Export.FontPath},
		{"export.preset", cfg.Export.Preset},
		{"telemetry.opt_in", fmt.Sprintf("%t", cfg.Telemetry.OptIn)},
		{"telemetry.events_url", cfg.Telemetry.EventsURL},
		{"telemetry.crash_url", cfg.Telemetry.CrashURL},
		{"telemetry.timeout_ms", fmt.Sprintf("%d", cfg.Telemetry.TimeoutMs)},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"logging.file", cfg.Logging.File},
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-22s %s", r.key, r.val)
		if env, ok := config.EnvOverrideFor(r.key); ok {
			line += dimStyle.Render("  (from " + env + ")")
		}
		fmt.Println(line)
	}
}
