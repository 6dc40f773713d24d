// Package devicesim implements the device contract as an in-process
// simulated headset. The sim daemon serves it over gRPC; tests use it
// directly.
package devicesim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/louisbranch/vergence/internal/device"
	"github.com/louisbranch/vergence/internal/geometry"
	"github.com/louisbranch/vergence/internal/id"
)

// Device is a simulated headset service. All state is behind one mutex; the
// sim daemon calls into it from concurrent gRPC handlers.
type Device struct {
	mu          sync.Mutex
	profile     Profile
	serial      string
	running     bool
	status      device.HmdStatus
	origin      device.TrackingOrigin
	floatConfig map[string]float64
	intConfig   map[string]int64
}

// New creates a running simulated headset with the given profile. The
// headset starts present, mounted, and visible, with a fresh serial number.
func New(profile Profile) (*Device, error) {
	serial, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate serial: %w", err)
	}
	return &Device{
		profile: profile,
		serial:  "sim-" + serial,
		running: true,
		status: device.HmdStatus{
			ServiceReady: true,
			HmdPresent:   true,
			HmdMounted:   true,
			IsVisible:    true,
		},
		floatConfig: map[string]float64{
			device.ConfigEyeHeight: profile.EyeHeight,
		},
		intConfig: map[string]int64{},
	}, nil
}

// CreateSession opens a session against the simulated service. It fails
// with device.ErrUnavailable while the sim is stopped.
func (d *Device) CreateSession(ctx context.Context) (device.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return nil, device.ErrUnavailable
	}
	sessionID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	return &session{dev: d, id: sessionID}, nil
}

// SetRunning starts or stops the simulated vendor service. While stopped,
// session creation and every live session call report ErrUnavailable.
func (d *Device) SetRunning(running bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = running
}

// SetPresent toggles headset presence in the status report.
func (d *Device) SetPresent(present bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.HmdPresent = present
}

// SetServiceReady toggles service readiness in the status report.
func (d *Device) SetServiceReady(ready bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.ServiceReady = ready
}

// SetRefreshRate overrides the profile refresh rate.
func (d *Device) SetRefreshRate(hz float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile.RefreshRate = hz
}

// SetFloatConfig sets a float config value.
func (d *Device) SetFloatConfig(key string, value float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.floatConfig[key] = value
}

// SetIntConfig sets an integer config value.
func (d *Device) SetIntConfig(key string, value int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intConfig[key] = value
}

// Serial returns the generated serial number.
func (d *Device) Serial() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serial
}

// TrackingOrigin returns the origin most recently set on any session.
func (d *Device) TrackingOrigin() device.TrackingOrigin {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.origin
}

type session struct {
	dev    *Device
	id     string
	closed bool // guarded by dev.mu
}

// live reports whether the session can serve calls. Callers hold dev.mu.
func (s *session) live() error {
	if s.closed {
		return fmt.Errorf("session %s is closed", s.id)
	}
	if !s.dev.running {
		return device.ErrUnavailable
	}
	return nil
}

func (s *session) HmdStatus(ctx context.Context) (device.HmdStatus, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return device.HmdStatus{}, err
	}
	return s.dev.status, nil
}

func (s *session) HmdInfo(ctx context.Context) (device.HmdInfo, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return device.HmdInfo{}, err
	}
	p := s.dev.profile
	return device.HmdInfo{
		VendorID:         p.VendorID,
		ProductID:        p.ProductID,
		Manufacturer:     p.Manufacturer,
		ProductName:      p.ProductName,
		SerialNumber:     s.dev.serial,
		FirmwareMajor:    p.FirmwareMajor,
		FirmwareMinor:    p.FirmwareMinor,
		ResolutionWidth:  p.ResolutionWidth,
		ResolutionHeight: p.ResolutionHeight,
	}, nil
}

func (s *session) EyeRenderInfo(ctx context.Context, eye device.Eye) (device.EyeRenderInfo, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return device.EyeRenderInfo{}, err
	}
	if !eye.Valid() {
		return device.EyeRenderInfo{}, fmt.Errorf("invalid eye %d", eye)
	}
	p := s.dev.profile

	canting := geometry.DegToRad(p.CantingDegrees)
	offset := -p.IPD / 2
	fov := p.EyeFov
	if eye == device.EyeRight {
		canting = -canting
		offset = -offset
		fov.LeftTan, fov.RightTan = fov.RightTan, fov.LeftTan
	}
	return device.EyeRenderInfo{
		HmdToEyePose: geometry.Pose{
			Orientation: geometry.AxisAngle(geometry.Vec3{Y: 1}, canting),
			Position:    geometry.Vec3{X: offset},
		},
		Fov: fov,
	}, nil
}

func (s *session) DisplayInfo(ctx context.Context, eye device.Eye) (device.DisplayInfo, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return device.DisplayInfo{}, err
	}
	if !eye.Valid() {
		return device.DisplayInfo{}, fmt.Errorf("invalid eye %d", eye)
	}
	return device.DisplayInfo{
		AdapterID:   s.dev.profile.AdapterID,
		RefreshRate: s.dev.profile.RefreshRate,
	}, nil
}

func (s *session) FloatConfig(ctx context.Context, key string, def float64) (float64, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return 0, err
	}
	if v, ok := s.dev.floatConfig[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *session) IntConfig(ctx context.Context, key string, def int64) (int64, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return 0, err
	}
	if v, ok := s.dev.intConfig[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *session) SetTrackingOrigin(ctx context.Context, origin device.TrackingOrigin) error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return err
	}
	s.dev.origin = origin
	return nil
}

// FovTextureSize recommends pixels proportional to how much of the native
// per-eye span the requested FOV covers, scaled by density and floored at
// 1x1.
func (s *session) FovTextureSize(ctx context.Context, eye device.Eye, fov geometry.FovPort, density float64) (device.ViewportSize, error) {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	if err := s.live(); err != nil {
		return device.ViewportSize{}, err
	}
	if !eye.Valid() {
		return device.ViewportSize{}, fmt.Errorf("invalid eye %d", eye)
	}
	p := s.dev.profile

	nativeHorizontal := p.EyeFov.LeftTan + p.EyeFov.RightTan
	nativeVertical := p.EyeFov.UpTan + p.EyeFov.DownTan
	width := math.Ceil(float64(p.ResolutionWidth) * density * (fov.LeftTan + fov.RightTan) / nativeHorizontal)
	height := math.Ceil(float64(p.ResolutionHeight) * density * (fov.UpTan + fov.DownTan) / nativeVertical)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return device.ViewportSize{Width: uint32(width), Height: uint32(height)}, nil
}

func (s *session) Close(ctx context.Context) error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	s.closed = true
	return nil
}
