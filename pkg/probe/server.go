package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mittwald/redistatus/internal/config"
	"github.com/mittwald/redistatus/pkg/redisstatus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Handler serves the status of every configured instance. Each request
// runs exactly one check of exactly one instance; nothing is cached.
type Handler struct {
	probes map[string]Probe
}

func NewHandler(probes map[string]Probe) *Handler {
	return &Handler{probes: probes}
}

func NewProbeHandler(cfg *config.Ignition) (*Handler, error) {
	probes, err := buildProbesFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return NewHandler(probes), nil
}

func (h *Handler) Router() *mux.Router {
	m := mux.NewRouter()
	m.Path("/v1/instances").Methods(http.MethodGet).HandlerFunc(h.HandleInstances)
	m.Path("/v1/instance/{instance}/status").Methods(http.MethodGet).HandlerFunc(h.HandleStatus)
	return m
}

func (h *Handler) HandleInstances(res http.ResponseWriter, req *http.Request) {
	response := InstancesResponse{Instances: make([]string, 0, len(h.probes))}
	for name := range h.probes {
		response.Instances = append(response.Instances, name)
	}
	sort.Strings(response.Instances)

	writeJSON(res, http.StatusOK, &response)
}

func (h *Handler) HandleStatus(res http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["instance"]

	p, ok := h.probes[name]
	if !ok {
		writeJSON(res, http.StatusNotFound, &ProbeResult{Name: name, Message: fmt.Sprintf("instance %q is not configured", name)})
		return
	}

	err := p.CheckStatus(req.Context())
	result := &ProbeResult{Name: name, OK: err == nil}
	status := http.StatusOK

	var unhealthy *redisstatus.UnhealthyError
	switch {
	case err == nil:
	case errors.As(err, &unhealthy):
		status = http.StatusServiceUnavailable
		result.Message = unhealthy.Reason
	default:
		log.WithFields(log.Fields{"kind": "probe", "name": name, "err": err}).Error("status check failed")
		status = http.StatusInternalServerError
		result.Message = err.Error()
	}

	writeJSON(res, status, result)
}

func RunProbeServer(ph *Handler, signals chan os.Signal, port int) error {
	server := http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           ph.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		for s := range signals {
			if s == syscall.SIGINT || s == syscall.SIGTERM {
				log.WithField("receivedSignal", s.String()).Info("shutting down probe server")

				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				_ = server.Shutdown(ctx)
				cancel()
				return
			}
		}
	}()

	err := server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}

	return nil
}

func buildProbesFromConfig(cfg *config.Ignition) (map[string]Probe, error) {
	result := make(map[string]Probe)
	for i := range cfg.Instances {
		checker, err := cfg.Instances[i].NewStatusChecker()
		if err != nil {
			return nil, err
		}
		result[cfg.Instances[i].Name] = checker
	}
	return result, nil
}

func writeJSON(res http.ResponseWriter, status int, body interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(body)
}
