package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jedawel/lenssafe/internal/alert"
	"github.com/jedawel/lenssafe/internal/app"
	"github.com/jedawel/lenssafe/internal/config"
	"github.com/jedawel/lenssafe/internal/server"
	"github.com/jedawel/lenssafe/internal/store"
	"github.com/jedawel/lenssafe/internal/tray"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	cameraID := flag.Int("camera", -1, "Camera source ID (overrides config)")
	addr := flag.String("addr", "", "Dashboard listen address (overrides config)")
	noTray := flag.Bool("no-tray", false, "Run headless without the system tray")
	flag.Parse()

	fmt.Println("LensSafe - Eye-Rubbing Monitor")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *cameraID >= 0 {
		cfg.Camera.Source = *cameraID
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".lenssafe")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "lenssafe.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Alert sinks
	sinks := []alert.Sink{
		alert.ConsoleSink{},
		alert.StoreSink{Alerts: st.Alerts()},
	}
	if cfg.Alert.SoundEnabled {
		if audio, err := alert.NewAudioSink(); err == nil {
			sinks = append(sinks, audio)
		} else {
			log.Printf("Sound alerts disabled: %v", err)
		}
	}
	if cfg.Alert.Command != "" {
		parts := strings.Fields(cfg.Alert.Command)
		timeout := time.Duration(cfg.Alert.CommandTimeoutMs) * time.Millisecond
		sinks = append(sinks, alert.NewCommandSink(parts[0], parts[1:], timeout))
	}

	dispatcher := alert.NewDispatcher(cfg.Cooldown(), sinks...)

	application := app.New(app.Config{
		Settings:   cfg,
		Store:      st,
		Dispatcher: dispatcher,
	})

	// Dashboard server
	srv := server.New(server.Config{
		StaticDir:  findWebDir(),
		Store:      st,
		Camera:     application.Camera(),
		Status:     application.Status,
		SetEnabled: application.SetEnabled,
		Overlay:    cfg.Display.ShowOverlay,
		ShowFPS:    cfg.Display.ShowFPS,
	})

	application.OnStatus(func(status app.Status) {
		srv.Events().Publish("status", status)
	})
	dispatcher.AddSink(alert.FuncSink{
		SinkName: "events",
		Fn: func(at time.Time) {
			srv.Events().Publish("alert", map[string]any{"triggered_at": at.Format(time.RFC3339)})
		},
	})

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer application.Stop()

	go func() {
		log.Printf("Dashboard listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	t := tray.New()
	t.OnToggle(application.SetEnabled)
	t.OnDashboard(func() {
		openBrowser("http://localhost" + cfg.Server.Addr)
	})
	t.OnQuit(application.Stop)
	dispatcher.AddSink(alert.FuncSink{SinkName: "tray", Fn: t.SetLastAlert})

	// Blocks until quit is selected from the tray menu
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.lenssafe/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".lenssafe", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
