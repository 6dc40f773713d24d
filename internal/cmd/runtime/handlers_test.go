package runtime

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	sim "github.com/louisbranch/vergence/internal/device/devicesim"
	"github.com/louisbranch/vergence/internal/runtime"
	"github.com/louisbranch/vergence/internal/status"
	"github.com/louisbranch/vergence/internal/storage"
	"github.com/louisbranch/vergence/internal/storage/sqlite"
	"github.com/louisbranch/vergence/internal/telemetry"
	"github.com/louisbranch/vergence/internal/telemetry/events"
)

// newTestHandler wires the admin mux over an in-process simulated headset.
func newTestHandler(t *testing.T, profile sim.Profile, store *sqlite.Store) (*http.ServeMux, *sim.Device) {
	t.Helper()

	dev, err := sim.New(profile)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	var emitter *telemetry.Emitter
	if store != nil {
		emitter = telemetry.NewEmitter(store)
	}
	host := runtime.New(dev, runtime.Options{
		Extensions: []string{runtime.ExtensionHandTracking},
		Emitter:    emitter,
	})
	return newHandler(host, dev, store, emitter), dev
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "runtime.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(recorder.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func TestHandleHealthz(t *testing.T) {
	mux, _ := newTestHandler(t, sim.ProfileCanted(), nil)

	recorder := get(t, mux, "/healthz")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if body := recorder.Body.String(); body != "OK" {
		t.Fatalf("expected OK body, got %q", body)
	}
}

func TestHandleStatusSnapshot(t *testing.T) {
	store := openTestStore(t)
	mux, _ := newTestHandler(t, sim.ProfileCanted(), store)

	recorder := get(t, mux, "/v1/status")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	snap := decodeBody[status.Snapshot](t, recorder)
	if snap.RefreshRate != 90 {
		t.Fatalf("expected refresh rate 90, got %v", snap.RefreshRate)
	}
	if !snap.ParallelProjection {
		t.Fatal("expected a canted headset to report parallel projection")
	}
	if math.Abs(snap.CantingDegrees-10) > 1e-6 {
		t.Fatalf("expected canting 10 degrees, got %v", snap.CantingDegrees)
	}
	if math.Abs(snap.FovDegrees-130) > 1e-6 {
		t.Fatalf("expected 130 degree fov, got %v", snap.FovDegrees)
	}
	if snap.Firmware != "2.14" {
		t.Fatalf("expected firmware 2.14, got %q", snap.Firmware)
	}
	if snap.SerialNumber == "" {
		t.Fatal("expected a serial number")
	}

	recorded, err := store.ListTelemetryEvents(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected one telemetry event, got %d", len(recorded))
	}
	if recorded[0].EventName != events.SnapshotCollected {
		t.Fatalf("expected %s, got %q", events.SnapshotCollected, recorded[0].EventName)
	}
	if recorded[0].SystemSerial != snap.SerialNumber {
		t.Fatalf("expected serial %q on the event, got %q", snap.SerialNumber, recorded[0].SystemSerial)
	}
}

func TestHandleStatusMethodNotAllowed(t *testing.T) {
	mux, _ := newTestHandler(t, sim.ProfileCanted(), nil)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/status", nil))
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestHandleStatusDeviceDown(t *testing.T) {
	mux, dev := newTestHandler(t, sim.ProfileCanted(), nil)
	dev.SetRunning(false)

	recorder := get(t, mux, "/v1/status")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
	response := decodeBody[errorResponse](t, recorder)
	if response.Code != "SYSTEM_UNAVAILABLE" {
		t.Fatalf("expected SYSTEM_UNAVAILABLE, got %q", response.Code)
	}
}

func TestHandleSystemReport(t *testing.T) {
	mux, _ := newTestHandler(t, sim.ProfileCanted(), nil)

	recorder := get(t, mux, "/v1/system")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	report := decodeBody[systemReport](t, recorder)
	if report.Properties.SystemName != "Panorama 8K (aapvr)" {
		t.Fatalf("unexpected system name %q", report.Properties.SystemName)
	}
	if report.Properties.VendorID != 0x2c87 {
		t.Fatalf("unexpected vendor id %#x", report.Properties.VendorID)
	}
	if !report.HandTracking.SupportsHandTracking {
		t.Fatal("expected hand tracking to be negotiated")
	}
	if report.Projection.Mode != "parallel" {
		t.Fatalf("expected parallel projection, got %q", report.Projection.Mode)
	}
	if math.Abs(report.Projection.CantingDegrees-10) > 1e-6 {
		t.Fatalf("expected canting 10 degrees, got %v", report.Projection.CantingDegrees)
	}
	if len(report.BlendModes) != 1 || report.BlendModes[0] != "opaque" {
		t.Fatalf("expected [opaque], got %v", report.BlendModes)
	}
	if report.AdapterID != "sim-adapter-0" {
		t.Fatalf("unexpected adapter id %q", report.AdapterID)
	}
	if report.RefreshRate != 90 {
		t.Fatalf("expected refresh rate 90, got %v", report.RefreshRate)
	}
	if report.Viewport.Width == 0 || report.Viewport.Height == 0 {
		t.Fatalf("expected a sized viewport, got %+v", report.Viewport)
	}
}

func TestHandleSystemDeviceDown(t *testing.T) {
	mux, dev := newTestHandler(t, sim.ProfileCanted(), nil)
	dev.SetRunning(false)

	recorder := get(t, mux, "/v1/system")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
}

func TestHandleEventsPagination(t *testing.T) {
	store := openTestStore(t)
	mux, _ := newTestHandler(t, sim.ProfileCanted(), store)

	for i := 0; i < 3; i++ {
		err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
			EventName: events.DisplayRefreshed,
			Severity:  string(telemetry.SeverityInfo),
		})
		if err != nil {
			t.Fatalf("append event %d: %v", i, err)
		}
	}

	recorder := get(t, mux, "/v1/events?page_size=2")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	page := decodeBody[eventsPage](t, recorder)
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page.Events))
	}
	if page.NextAfterSeq != page.Events[1].Seq {
		t.Fatalf("expected next_after_seq %d, got %d", page.Events[1].Seq, page.NextAfterSeq)
	}

	recorder = get(t, mux, "/v1/events?page_size=2&after_seq=2")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	page = decodeBody[eventsPage](t, recorder)
	if len(page.Events) != 1 {
		t.Fatalf("expected 1 remaining event, got %d", len(page.Events))
	}
	if page.Events[0].Seq != 3 {
		t.Fatalf("expected seq 3, got %d", page.Events[0].Seq)
	}
}

func TestHandleEventsInvalidQuery(t *testing.T) {
	store := openTestStore(t)
	mux, _ := newTestHandler(t, sim.ProfileCanted(), store)

	if recorder := get(t, mux, "/v1/events?after_seq=abc"); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad after_seq, got %d", recorder.Code)
	}
	if recorder := get(t, mux, "/v1/events?page_size=-1"); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page_size, got %d", recorder.Code)
	}
}

func TestHandleEventsWithoutStore(t *testing.T) {
	mux, _ := newTestHandler(t, sim.ProfileCanted(), nil)

	recorder := get(t, mux, "/v1/events")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
}
