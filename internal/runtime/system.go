package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/vergence/internal/device"
	apperrors "github.com/louisbranch/vergence/internal/errors"
	"github.com/louisbranch/vergence/internal/geometry"
	"github.com/louisbranch/vergence/internal/storage"
	"github.com/louisbranch/vergence/internal/telemetry"
	"github.com/louisbranch/vergence/internal/telemetry/events"
)

// ErrSystemNotCreated reports access to cached state before any successful
// acquisition.
var ErrSystemNotCreated = apperrors.New(apperrors.CodeHandleInvalid, "no system has been acquired")

// ensureSession makes sure a device session exists. Unavailability is
// returned as the raw device.ErrUnavailable sentinel so AcquireSystem can
// report an absent headset; any other failure is fatal.
func (r *Runtime) ensureSession(ctx context.Context) error {
	if r.session != nil {
		return nil
	}
	sess, err := r.svc.CreateSession(ctx)
	if err != nil {
		if errors.Is(err, device.ErrUnavailable) {
			return err
		}
		return apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "create device session", err)
	}
	r.session = sess
	return nil
}

// AcquireSystem establishes (or refreshes) the cached system snapshot and
// returns the stable system handle. A missing headset and a stopped vendor
// service both come back as CodeSystemUnavailable, which callers treat as
// "not found" rather than as a failure.
//
// The snapshot is staged: nothing in the cache changes until every device
// fetch has succeeded, so a failed re-acquisition leaves the previous
// snapshot intact.
func (r *Runtime) AcquireSystem(ctx context.Context, form FormFactor) (SystemID, error) {
	switch form {
	case FormFactorHeadMountedDisplay:
	case FormFactorUnspecified:
		return 0, apperrors.New(apperrors.CodeValidationFailure, "form factor is required")
	default:
		return 0, apperrors.WithMetadata(apperrors.CodeFormFactorUnsupported,
			"only head-mounted displays are supported",
			map[string]string{"form_factor": form.String()})
	}

	if err := r.ensureSession(ctx); err != nil {
		if errors.Is(err, device.ErrUnavailable) {
			return 0, r.unavailable(ctx, err)
		}
		return 0, r.refreshFailed(ctx, err)
	}

	status, err := r.session.HmdStatus(ctx)
	if err != nil {
		if errors.Is(err, device.ErrUnavailable) {
			return 0, r.unavailable(ctx, err)
		}
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "query hmd status", err))
	}
	if !status.Available() {
		return 0, r.unavailable(ctx, nil)
	}

	info, err := r.session.HmdInfo(ctx)
	if err != nil {
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "fetch hmd info", err))
	}

	floorHeight, err := r.session.FloatConfig(ctx, device.ConfigEyeHeight, 0)
	if err != nil {
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "read eye height", err))
	}
	preferNative, err := r.session.IntConfig(ctx, device.ConfigUseNativeFov, 0)
	if err != nil {
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "read native fov preference", err))
	}

	var raw [2]device.EyeRenderInfo
	for eye := device.EyeLeft; eye <= device.EyeRight; eye++ {
		raw[eye], err = r.session.EyeRenderInfo(ctx, eye)
		if err != nil {
			return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal,
				fmt.Sprintf("fetch %s eye render info", eye), err))
		}
	}

	projection := geometry.ComputeProjection([2]geometry.EyeGeometry{
		{Orientation: raw[0].HmdToEyePose.Orientation, Fov: raw[0].Fov},
		{Orientation: raw[1].HmdToEyePose.Orientation, Fov: raw[1].Fov},
	}, preferNative != 0)

	sizing := projection.SizingFov(raw[device.EyeLeft].Fov)
	viewport, err := r.session.FovTextureSize(ctx, device.EyeLeft, sizing, 1.0)
	if err != nil {
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "size render target", err))
	}

	if err := r.session.SetTrackingOrigin(ctx, device.TrackingOriginEyeLevel); err != nil {
		return 0, r.refreshFailed(ctx, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "set tracking origin", err))
	}

	// Every fetch succeeded; commit the snapshot. Eye orientations are
	// stored in their effective form so pose consumers never see the
	// physical canting in parallel mode.
	effective := raw
	for i := range effective {
		effective[i].HmdToEyePose.Orientation = projection.Eyes[i].Orientation
	}
	r.hmdInfo = info
	r.eyeInfo = effective
	r.floorHeight = floorHeight
	r.projection = projection
	r.viewport = viewport
	r.created = true

	_ = r.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName:    events.SystemAcquired,
		Severity:     string(telemetry.SeverityInfo),
		SystemSerial: info.SerialNumber,
		Attributes: map[string]any{
			"product":         info.ProductName,
			"mode":            projection.Mode.String(),
			"canting_degrees": geometry.RadToDeg(projection.CantingAngle),
		},
	})
	return systemID, nil
}

// unavailable reports an absent headset, the expected no-device outcome.
func (r *Runtime) unavailable(ctx context.Context, cause error) error {
	_ = r.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName: events.SystemUnavailable,
		Severity:  string(telemetry.SeverityInfo),
	})
	if cause != nil {
		return apperrors.Wrap(apperrors.CodeSystemUnavailable, "headset not found", cause)
	}
	return apperrors.New(apperrors.CodeSystemUnavailable, "headset not found")
}

// refreshFailed passes err through, recording that a re-acquisition failed
// and the previous snapshot stayed current.
func (r *Runtime) refreshFailed(ctx context.Context, err error) error {
	if r.created {
		_ = r.emitter.Emit(ctx, storage.TelemetryEvent{
			EventName:  events.SystemRefreshFailed,
			Severity:   string(telemetry.SeverityError),
			Attributes: map[string]any{"error": err.Error()},
		})
	}
	return err
}

// RefreshDisplayInfo caches the display adapter identity and timing. The
// host invokes it once per session; it is independent of eye geometry.
func (r *Runtime) RefreshDisplayInfo(ctx context.Context) error {
	if r.session == nil {
		return apperrors.New(apperrors.CodeHandleInvalid, "no device session")
	}
	info, err := r.session.DisplayInfo(ctx, device.EyeLeft)
	if err != nil {
		if errors.Is(err, device.ErrUnavailable) {
			return apperrors.Wrap(apperrors.CodeSystemUnavailable, "headset not found", err)
		}
		return apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "fetch display info", err)
	}
	if info.RefreshRate <= 0 {
		return apperrors.WithMetadata(apperrors.CodeDisplayInvalid,
			"device reported a non-positive refresh rate",
			map[string]string{"refresh_rate": fmt.Sprintf("%v", info.RefreshRate)})
	}
	r.adapterID = info.AdapterID
	r.refreshRate = info.RefreshRate
	r.frameDuration = time.Duration(float64(time.Second) / info.RefreshRate)

	_ = r.emitter.Emit(ctx, storage.TelemetryEvent{
		EventName: events.DisplayRefreshed,
		Severity:  string(telemetry.SeverityInfo),
		Attributes: map[string]any{
			"adapter_id":   info.AdapterID,
			"refresh_rate": info.RefreshRate,
		},
	})
	return nil
}

// Close releases the device session. The cached snapshot survives until
// the runtime itself is discarded.
func (r *Runtime) Close(ctx context.Context) error {
	if r.session == nil {
		return nil
	}
	err := r.session.Close(ctx)
	r.session = nil
	return err
}

// HmdInfo returns the cached headset identity.
func (r *Runtime) HmdInfo() (device.HmdInfo, error) {
	if !r.created {
		return device.HmdInfo{}, ErrSystemNotCreated
	}
	return r.hmdInfo, nil
}

// EyeRenderInfo returns the cached effective render info for one eye.
func (r *Runtime) EyeRenderInfo(eye device.Eye) (device.EyeRenderInfo, error) {
	if !r.created {
		return device.EyeRenderInfo{}, ErrSystemNotCreated
	}
	if !eye.Valid() {
		return device.EyeRenderInfo{}, apperrors.WithMetadata(apperrors.CodeValidationFailure,
			"invalid eye", map[string]string{"eye": fmt.Sprintf("%d", eye)})
	}
	return r.eyeInfo[eye], nil
}

// FloorHeight returns the cached floor height in meters.
func (r *Runtime) FloorHeight() (float64, error) {
	if !r.created {
		return 0, ErrSystemNotCreated
	}
	return r.floorHeight, nil
}

// Projection returns the cached projection state.
func (r *Runtime) Projection() (geometry.Projection, error) {
	if !r.created {
		return geometry.Projection{}, ErrSystemNotCreated
	}
	return r.projection, nil
}

// RecommendedViewportSize returns the cached render-target recommendation.
func (r *Runtime) RecommendedViewportSize() (device.ViewportSize, error) {
	if !r.created {
		return device.ViewportSize{}, ErrSystemNotCreated
	}
	return r.viewport, nil
}

// AdapterID returns the cached display adapter identity.
func (r *Runtime) AdapterID() (string, error) {
	if r.refreshRate == 0 {
		return "", apperrors.New(apperrors.CodeDisplayInvalid, "display info not loaded")
	}
	return r.adapterID, nil
}

// RefreshRate returns the cached display refresh rate in Hz.
func (r *Runtime) RefreshRate() (float64, error) {
	if r.refreshRate == 0 {
		return 0, apperrors.New(apperrors.CodeDisplayInvalid, "display info not loaded")
	}
	return r.refreshRate, nil
}

// FrameDuration returns the cached per-frame budget, 1/refresh.
func (r *Runtime) FrameDuration() (time.Duration, error) {
	if r.refreshRate == 0 {
		return 0, apperrors.New(apperrors.CodeDisplayInvalid, "display info not loaded")
	}
	return r.frameDuration, nil
}
