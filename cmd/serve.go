package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Bil00u/cement-kiln-simulator/kiln"
)

var (
	listenAddr     string  // HTTP listen address
	tickIntervalMs int     // Wall-clock milliseconds between ticks
	serveDt        float64 // Simulated seconds advanced per tick
)

// commandRequest is the body of POST /command.
type commandRequest struct {
	Action string            `json:"action"` // start, stop, reset, config
	Config *kiln.ConfigPatch `json:"config,omitempty"`
}

// serveCmd runs the simulation on a wall-clock ticker and exposes it to the
// presentation layer over HTTP: read-only state/history polling plus a
// command endpoint for lifecycle and config changes.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the kiln simulation over HTTP at a fixed wall-clock cadence",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		driver, err := buildDriver()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		runID := uuid.NewString()
		geo := kiln.DefaultGeometry()
		geo.MotorSpeedRPM = motorSpeedRPM

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// The driving loop: fixed wall-clock cadence mapped to a fixed
		// simulated dt. Ticks while stopped or idle are no-op reports.
		go func() {
			ticker := time.NewTicker(time.Duration(tickIntervalMs) * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := driver.Tick(serveDt); err != nil && !kiln.IsReason(err, kiln.ReasonNotRunning) {
						logrus.Warnf("tick reported: %v", err)
					}
				}
			}
		}()

		server := &http.Server{
			Addr:    listenAddr,
			Handler: handlers.CombinedLoggingHandler(os.Stdout, newRouter(driver, runID, geo)),
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			logrus.Info("shutting down")
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		logrus.Infof("run %s listening on %s (tick every %dms, dt=%.2fs)", runID, listenAddr, tickIntervalMs, serveDt)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http server: %v", err)
		}
	},
}

// newRouter wires the presentation-facing routes.
func newRouter(driver *kiln.Driver, runID string, geo kiln.KilnGeometry) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/state", func(w http.ResponseWriter, _ *http.Request) {
		state := driver.State()
		resp := map[string]any{
			"runId":         runID,
			"state":         state,
			"rotationAngle": geo.RotationAngle(state.Time),
			"quality":       kiln.QualityFor(state.Temperature),
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodGet)

	r.HandleFunc("/history", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"runId":   runID,
			"samples": driver.History(),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/command", func(w http.ResponseWriter, req *http.Request) {
		var body commandRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		switch body.Action {
		case "start":
			driver.Start()
		case "stop":
			driver.Stop()
		case "reset":
			driver.Reset()
		case "config":
			if body.Config == nil {
				http.Error(w, "config action requires a config patch", http.StatusBadRequest)
				return
			}
			if err := driver.Apply(*body.Config); err != nil {
				// Prior valid config is retained; surface the condition.
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	serveCmd.Flags().IntVar(&tickIntervalMs, "tick-interval", 200, "Wall-clock milliseconds between ticks")
	serveCmd.Flags().Float64Var(&serveDt, "dt", 1.0, "Simulated seconds advanced per tick")
}
