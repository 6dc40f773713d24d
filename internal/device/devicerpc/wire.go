package devicerpc

import (
	"github.com/louisbranch/vergence/internal/device"
	"github.com/louisbranch/vergence/internal/geometry"
)

// ServiceName is the fully qualified gRPC service carrying the device
// contract.
const ServiceName = "device.v1.DeviceService"

// Full method names as they appear on the wire.
const (
	MethodCreateSession     = "/device.v1.DeviceService/CreateSession"
	MethodHmdStatus         = "/device.v1.DeviceService/HmdStatus"
	MethodHmdInfo           = "/device.v1.DeviceService/HmdInfo"
	MethodEyeRenderInfo     = "/device.v1.DeviceService/EyeRenderInfo"
	MethodDisplayInfo       = "/device.v1.DeviceService/DisplayInfo"
	MethodFloatConfig       = "/device.v1.DeviceService/FloatConfig"
	MethodIntConfig         = "/device.v1.DeviceService/IntConfig"
	MethodSetTrackingOrigin = "/device.v1.DeviceService/SetTrackingOrigin"
	MethodFovTextureSize    = "/device.v1.DeviceService/FovTextureSize"
	MethodCloseSession      = "/device.v1.DeviceService/CloseSession"
)

// CreateSessionRequest opens a new device session.
type CreateSessionRequest struct{}

// CreateSessionResponse carries the server-assigned session id.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

func (r *SessionRequest) sessionRef() string { return r.SessionID }

// EyeRequest addresses one eye of an existing session.
type EyeRequest struct {
	SessionID string `json:"session_id"`
	Eye       int    `json:"eye"`
}

func (r *EyeRequest) sessionRef() string { return r.SessionID }

// HmdStatusResponse carries the live availability report.
type HmdStatusResponse struct {
	Status device.HmdStatus `json:"status"`
}

// HmdInfoResponse carries the headset identity.
type HmdInfoResponse struct {
	Info device.HmdInfo `json:"info"`
}

// EyeRenderInfoResponse carries one eye's render geometry.
type EyeRenderInfoResponse struct {
	Info device.EyeRenderInfo `json:"info"`
}

// DisplayInfoResponse carries display adapter identity and timing.
type DisplayInfoResponse struct {
	Info device.DisplayInfo `json:"info"`
}

// FloatConfigRequest reads a float config key with a caller default.
type FloatConfigRequest struct {
	SessionID string  `json:"session_id"`
	Key       string  `json:"key"`
	Default   float64 `json:"default"`
}

func (r *FloatConfigRequest) sessionRef() string { return r.SessionID }

// FloatConfigResponse carries the resolved float config value.
type FloatConfigResponse struct {
	Value float64 `json:"value"`
}

// IntConfigRequest reads an integer config key with a caller default.
type IntConfigRequest struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Default   int64  `json:"default"`
}

func (r *IntConfigRequest) sessionRef() string { return r.SessionID }

// IntConfigResponse carries the resolved integer config value.
type IntConfigResponse struct {
	Value int64 `json:"value"`
}

// SetTrackingOriginRequest selects the pose reference height.
type SetTrackingOriginRequest struct {
	SessionID string `json:"session_id"`
	Origin    int    `json:"origin"`
}

func (r *SetTrackingOriginRequest) sessionRef() string { return r.SessionID }

// SetTrackingOriginResponse acknowledges the origin change.
type SetTrackingOriginResponse struct{}

// FovTextureSizeRequest sizes a render target for a field of view.
type FovTextureSizeRequest struct {
	SessionID string           `json:"session_id"`
	Eye       int              `json:"eye"`
	Fov       geometry.FovPort `json:"fov"`
	Density   float64          `json:"density"`
}

func (r *FovTextureSizeRequest) sessionRef() string { return r.SessionID }

// FovTextureSizeResponse carries the recommended viewport.
type FovTextureSizeResponse struct {
	Size device.ViewportSize `json:"size"`
}

// CloseSessionResponse acknowledges a session teardown.
type CloseSessionResponse struct{}
