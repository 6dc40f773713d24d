package runtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/louisbranch/vergence/internal/device"
	apperrors "github.com/louisbranch/vergence/internal/errors"
	"github.com/louisbranch/vergence/internal/geometry"
	"github.com/louisbranch/vergence/internal/platform/grpc/pagination"
	"github.com/louisbranch/vergence/internal/runtime"
	"github.com/louisbranch/vergence/internal/status"
	"github.com/louisbranch/vergence/internal/storage"
	"github.com/louisbranch/vergence/internal/storage/sqlite"
	"github.com/louisbranch/vergence/internal/telemetry"
	"github.com/louisbranch/vergence/internal/telemetry/events"
)

// listPageSizes bounds the events page size.
var listPageSizes = pagination.PageSizeConfig{Default: 100, Max: 1000}

type handler struct {
	runtime *runtime.Runtime
	svc     device.Service
	store   *sqlite.Store
	emitter *telemetry.Emitter
}

// newHandler builds the admin mux over the runtime core.
func newHandler(host *runtime.Runtime, svc device.Service, store *sqlite.Store, emitter *telemetry.Emitter) *http.ServeMux {
	h := &handler{runtime: host, svc: svc, store: store, emitter: emitter}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/v1/status", h.handleStatus)
	mux.HandleFunc("/v1/system", h.handleSystem)
	mux.HandleFunc("/v1/events", h.handleEvents)
	return mux
}

func (h *handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleStatus serves a fresh diagnostic snapshot collected over a
// short-lived device session.
func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := status.Collect(r.Context(), h.svc)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.emitter.Emit(r.Context(), storage.TelemetryEvent{
		EventName:    events.SnapshotCollected,
		Severity:     string(telemetry.SeverityInfo),
		SystemSerial: snap.SerialNumber,
		Attributes: map[string]any{
			"fov_degrees":  snap.FovDegrees,
			"refresh_rate": snap.RefreshRate,
		},
	}); err != nil {
		log.Printf("telemetry emit %s: %v", events.SnapshotCollected, err)
	}
	writeJSON(w, http.StatusOK, snap)
}

// systemReport is the full system payload assembled from the runtime cache:
// identity properties, projection geometry, sizing, and blend modes.
type systemReport struct {
	Properties   runtime.SystemProperties       `json:"properties"`
	HandTracking runtime.HandTrackingProperties `json:"hand_tracking"`
	Projection   projectionReport               `json:"projection"`
	Viewport     device.ViewportSize            `json:"viewport"`
	BlendModes   []string                       `json:"blend_modes"`
	AdapterID    string                         `json:"adapter_id"`
	RefreshRate  float64                        `json:"refresh_rate"`
}

type projectionReport struct {
	CantingDegrees float64      `json:"canting_degrees"`
	Mode           string       `json:"mode"`
	Eyes           [2]eyeReport `json:"eyes"`
}

type eyeReport struct {
	Orientation geometry.Quat `json:"orientation"`
	Fov         geometry.Fov  `json:"fov"`
}

// handleSystem acquires the system (re-acquisition refreshes an existing
// one) and reports the cached snapshot plus display timing.
func (h *handler) handleSystem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	id, err := h.runtime.AcquireSystem(ctx, runtime.FormFactorHeadMountedDisplay)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.runtime.RefreshDisplayInfo(ctx); err != nil {
		writeError(w, err)
		return
	}

	hand := runtime.HandTrackingProperties{}
	props, err := h.runtime.SystemProperties(id, &hand)
	if err != nil {
		writeError(w, err)
		return
	}
	projection, err := h.runtime.Projection()
	if err != nil {
		writeError(w, err)
		return
	}
	viewport, err := h.runtime.RecommendedViewportSize()
	if err != nil {
		writeError(w, err)
		return
	}
	adapter, err := h.runtime.AdapterID()
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, err := h.runtime.RefreshRate()
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.runtime.EnumerateEnvironmentBlendModes(id, runtime.ViewConfigurationPrimaryStereo, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	modes := make([]runtime.EnvironmentBlendMode, count)
	if _, err := h.runtime.EnumerateEnvironmentBlendModes(id, runtime.ViewConfigurationPrimaryStereo, modes); err != nil {
		writeError(w, err)
		return
	}
	names := make([]string, len(modes))
	for i, mode := range modes {
		names[i] = mode.String()
	}

	writeJSON(w, http.StatusOK, systemReport{
		Properties:   props,
		HandTracking: hand,
		Projection:   projectionFor(projection),
		Viewport:     viewport,
		BlendModes:   names,
		AdapterID:    adapter,
		RefreshRate:  refresh,
	})
}

func projectionFor(projection geometry.Projection) projectionReport {
	report := projectionReport{
		CantingDegrees: geometry.RadToDeg(projection.CantingAngle),
		Mode:           projection.Mode.String(),
	}
	for i, eye := range projection.Eyes {
		report.Eyes[i] = eyeReport{Orientation: eye.Orientation, Fov: eye.Fov}
	}
	return report
}

// eventsPage pages through recorded telemetry events by sequence number.
type eventsPage struct {
	Events       []storage.TelemetryEvent `json:"events"`
	NextAfterSeq uint64                   `json:"next_after_seq"`
}

func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.Error(w, "telemetry store is not configured", http.StatusServiceUnavailable)
		return
	}

	var afterSeq uint64
	if raw := r.URL.Query().Get("after_seq"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid after_seq", http.StatusBadRequest)
			return
		}
		afterSeq = parsed
	}
	var requested int32
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid page_size", http.StatusBadRequest)
			return
		}
		requested = int32(parsed)
	}

	limit := pagination.ClampPageSize(requested, listPageSizes)
	recorded, err := h.store.ListTelemetryEvents(r.Context(), afterSeq, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	page := eventsPage{Events: recorded, NextAfterSeq: afterSeq}
	if len(recorded) > 0 {
		page.NextAfterSeq = recorded[len(recorded)-1].Seq
	}
	writeJSON(w, http.StatusOK, page)
}

// writeJSON writes JSON responses with a consistent content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// errorResponse carries a failed operation's code and message.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	httpStatus := http.StatusInternalServerError
	switch code {
	case apperrors.CodeValidationFailure:
		httpStatus = http.StatusBadRequest
	case apperrors.CodeHandleInvalid, apperrors.CodeSystemInvalid, apperrors.CodeNotFound:
		httpStatus = http.StatusNotFound
	case apperrors.CodeSystemUnavailable:
		httpStatus = http.StatusServiceUnavailable
	case apperrors.CodeFormFactorUnsupported, apperrors.CodeViewConfigUnsupported:
		httpStatus = http.StatusUnprocessableEntity
	case apperrors.CodeDeviceServiceFatal, apperrors.CodeDisplayInvalid:
		httpStatus = http.StatusBadGateway
	}
	writeJSON(w, httpStatus, errorResponse{Code: string(code), Message: err.Error()})
}
