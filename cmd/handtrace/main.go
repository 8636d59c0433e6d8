// Command handtrace runs the depth-camera hand-gesture recognition
// service: it captures depth frames, traces and recognizes gestures, and
// exposes the result over an HTTP+WebSocket API and (on macOS) a system
// tray icon.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/handtrace/internal/app"
	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/server"
	"github.com/ayusman/handtrace/internal/store"
	"github.com/ayusman/handtrace/internal/tray"
)

func main() {
	fmt.Println("HandTrace - Hand Gesture Recognition")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".handtrace")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "handtrace.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Store:     st,
		PluginDir: filepath.Join(dataDir, "plugins"),
		CameraID:  0,
	})

	if err := application.LoadGestures(); err != nil {
		log.Printf("Failed to load gestures: %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}

	events := server.NewEventsHandler()
	t := tray.New()

	application.FingertipLocationsReady = func(fingertips []finger.Fingertip) {
		events.Broadcast(server.Event{Kind: server.EventFingertips, Data: fingertips})
	}
	application.GestureRecognized = func(name string, meanPathCost float64) {
		events.Broadcast(server.Event{
			Kind: server.EventGestureRecognize,
			Data: server.GestureRecognizedData{Name: name, MeanPathCost: meanPathCost},
		})
		t.SetLastGesture(name)
	}

	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		log.Printf("Failed to start depth capture (continuing without it): %v", err)
	} else {
		defer application.Stop()
	}

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Events:    events,
	})

	go runTray(t, application)

	addr := ":8080"
	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runTray starts the macOS system tray icon, wiring its enable/disable
// toggle to the App's own enabled switch. It is safe to call on platforms
// without a tray implementation: systray.Run blocks until Quit is called
// from within onReady, which never fires without a real tray backend.
func runTray(t *tray.Tray, application *app.App) {
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnQuit(func() {
		application.Stop()
		os.Exit(0)
	})
	t.Run()
}

// findWebDir searches for the static web assets in common locations:
// "web", "../web", "../../web" relative to the working directory, then
// ~/.handtrace/web. Returns the first existing directory, or "" if none
// is found (the server then serves no static files at all).
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handtrace", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
