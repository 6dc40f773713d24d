// Package status produces point-in-time diagnostic reports about the
// attached headset. Collection is stateless: every call opens its own
// short-lived device session and tears it down before returning, so
// reports can be taken next to a live runtime without touching its cache.
package status

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/louisbranch/vergence/internal/device"
	apperrors "github.com/louisbranch/vergence/internal/errors"
	"github.com/louisbranch/vergence/internal/geometry"
)

// Snapshot is one diagnostic report. Config-derived fields carry their
// defaults when the vendor service cannot answer the lookup; everything
// else is fetched fresh per call.
type Snapshot struct {
	Manufacturer string `json:"manufacturer"`
	ProductName  string `json:"product_name"`
	SerialNumber string `json:"serial_number"`
	Firmware     string `json:"firmware"`

	RefreshRate        float64 `json:"refresh_rate"`
	FovDegrees         float64 `json:"fov_degrees"`
	CantingDegrees     float64 `json:"canting_degrees"`
	ParallelProjection bool    `json:"parallel_projection"`

	RecommendedWidth  uint32 `json:"recommended_width"`
	RecommendedHeight uint32 `json:"recommended_height"`

	FovLevel           int64   `json:"fov_level"`
	FloorHeight        float64 `json:"floor_height"`
	SmartSmoothing     bool    `json:"smart_smoothing"`
	LighthouseTracking bool    `json:"lighthouse_tracking"`
	ClientFPS          float64 `json:"client_fps"`
}

// Collect opens a session against svc, assembles a Snapshot and closes the
// session again, error paths included. Geometry and display fetches abort
// the collection; tuning-config lookups degrade to their defaults instead.
func Collect(ctx context.Context, svc device.Service) (Snapshot, error) {
	sess, err := svc.CreateSession(ctx)
	if err != nil {
		if errors.Is(err, device.ErrUnavailable) {
			return Snapshot{}, apperrors.Wrap(apperrors.CodeSystemUnavailable, "headset not found", err)
		}
		return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "create device session", err)
	}
	defer func() {
		_ = sess.Close(ctx)
	}()

	hmdStatus, err := sess.HmdStatus(ctx)
	if err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "query hmd status", err)
	}
	if !hmdStatus.Available() {
		return Snapshot{}, apperrors.New(apperrors.CodeSystemUnavailable, "headset not found")
	}

	info, err := sess.HmdInfo(ctx)
	if err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "fetch hmd info", err)
	}

	var eyes [2]device.EyeRenderInfo
	for eye := device.EyeLeft; eye <= device.EyeRight; eye++ {
		eyes[eye], err = sess.EyeRenderInfo(ctx, eye)
		if err != nil {
			return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal,
				fmt.Sprintf("fetch %s eye render info", eye), err)
		}
	}

	display, err := sess.DisplayInfo(ctx, device.EyeLeft)
	if err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "fetch display info", err)
	}
	if display.RefreshRate <= 0 {
		return Snapshot{}, apperrors.New(apperrors.CodeDisplayInvalid, "device reported a non-positive refresh rate")
	}

	preferNative := intOr(ctx, sess, device.ConfigUseNativeFov, 0)
	projection := geometry.ComputeProjection([2]geometry.EyeGeometry{
		{Orientation: eyes[0].HmdToEyePose.Orientation, Fov: eyes[0].Fov},
		{Orientation: eyes[1].HmdToEyePose.Orientation, Fov: eyes[1].Fov},
	}, preferNative != 0)

	sizing := projection.SizingFov(eyes[device.EyeLeft].Fov)
	viewport, err := sess.FovTextureSize(ctx, device.EyeLeft, sizing, 1.0)
	if err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeDeviceServiceFatal, "size render target", err)
	}

	// Total horizontal coverage across both eyes: the outer half-angles
	// plus twice the canting that separates them.
	fov := math.Atan(eyes[device.EyeLeft].Fov.LeftTan) +
		math.Atan(eyes[device.EyeRight].Fov.RightTan) +
		projection.CantingAngle*2

	return Snapshot{
		Manufacturer: info.Manufacturer,
		ProductName:  info.ProductName,
		SerialNumber: info.SerialNumber,
		Firmware:     fmt.Sprintf("%d.%d", info.FirmwareMajor, info.FirmwareMinor),

		RefreshRate:        display.RefreshRate,
		FovDegrees:         geometry.RadToDeg(fov),
		CantingDegrees:     geometry.RadToDeg(projection.CantingAngle),
		ParallelProjection: projection.Mode == geometry.ModeParallel,

		RecommendedWidth:  viewport.Width,
		RecommendedHeight: viewport.Height,

		FovLevel:           intOr(ctx, sess, device.ConfigFovLevel, 0),
		FloorHeight:        floatOr(ctx, sess, device.ConfigEyeHeight, 0),
		SmartSmoothing:     intOr(ctx, sess, device.ConfigSmartSmoothing, 0) != 0,
		LighthouseTracking: intOr(ctx, sess, device.ConfigLighthouseTracking, 0) != 0,
		ClientFPS:          floatOr(ctx, sess, device.ConfigClientFPS, 0),
	}, nil
}

func floatOr(ctx context.Context, sess device.Session, key string, def float64) float64 {
	v, err := sess.FloatConfig(ctx, key, def)
	if err != nil {
		return def
	}
	return v
}

func intOr(ctx context.Context, sess device.Session, key string, def int64) int64 {
	v, err := sess.IntConfig(ctx, key, def)
	if err != nil {
		return def
	}
	return v
}
