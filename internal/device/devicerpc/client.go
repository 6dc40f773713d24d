package devicerpc

import (
	"context"

	"github.com/louisbranch/vergence/internal/device"
	apperrors "github.com/louisbranch/vergence/internal/errors"
	"github.com/louisbranch/vergence/internal/geometry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client implements device.Service over a gRPC connection to a device
// daemon. A downed daemon surfaces as device.ErrUnavailable, which the
// runtime treats as "headset absent".
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection. The caller owns the
// connection lifecycle.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateSession opens a session on the remote device daemon.
func (c *Client) CreateSession(ctx context.Context) (device.Session, error) {
	var resp CreateSessionResponse
	if err := c.invoke(ctx, MethodCreateSession, &CreateSessionRequest{}, &resp); err != nil {
		return nil, err
	}
	return &clientSession{client: c, id: resp.SessionID}, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	err := c.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(codecName))
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.Unavailable {
		return device.ErrUnavailable
	}
	return apperrors.FromGRPCStatus(err)
}

type clientSession struct {
	client *Client
	id     string
}

func (s *clientSession) HmdStatus(ctx context.Context) (device.HmdStatus, error) {
	var resp HmdStatusResponse
	if err := s.client.invoke(ctx, MethodHmdStatus, &SessionRequest{SessionID: s.id}, &resp); err != nil {
		return device.HmdStatus{}, err
	}
	return resp.Status, nil
}

func (s *clientSession) HmdInfo(ctx context.Context) (device.HmdInfo, error) {
	var resp HmdInfoResponse
	if err := s.client.invoke(ctx, MethodHmdInfo, &SessionRequest{SessionID: s.id}, &resp); err != nil {
		return device.HmdInfo{}, err
	}
	return resp.Info, nil
}

func (s *clientSession) EyeRenderInfo(ctx context.Context, eye device.Eye) (device.EyeRenderInfo, error) {
	var resp EyeRenderInfoResponse
	req := &EyeRequest{SessionID: s.id, Eye: int(eye)}
	if err := s.client.invoke(ctx, MethodEyeRenderInfo, req, &resp); err != nil {
		return device.EyeRenderInfo{}, err
	}
	return resp.Info, nil
}

func (s *clientSession) DisplayInfo(ctx context.Context, eye device.Eye) (device.DisplayInfo, error) {
	var resp DisplayInfoResponse
	req := &EyeRequest{SessionID: s.id, Eye: int(eye)}
	if err := s.client.invoke(ctx, MethodDisplayInfo, req, &resp); err != nil {
		return device.DisplayInfo{}, err
	}
	return resp.Info, nil
}

func (s *clientSession) FloatConfig(ctx context.Context, key string, def float64) (float64, error) {
	var resp FloatConfigResponse
	req := &FloatConfigRequest{SessionID: s.id, Key: key, Default: def}
	if err := s.client.invoke(ctx, MethodFloatConfig, req, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (s *clientSession) IntConfig(ctx context.Context, key string, def int64) (int64, error) {
	var resp IntConfigResponse
	req := &IntConfigRequest{SessionID: s.id, Key: key, Default: def}
	if err := s.client.invoke(ctx, MethodIntConfig, req, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (s *clientSession) SetTrackingOrigin(ctx context.Context, origin device.TrackingOrigin) error {
	var resp SetTrackingOriginResponse
	req := &SetTrackingOriginRequest{SessionID: s.id, Origin: int(origin)}
	return s.client.invoke(ctx, MethodSetTrackingOrigin, req, &resp)
}

func (s *clientSession) FovTextureSize(ctx context.Context, eye device.Eye, fov geometry.FovPort, density float64) (device.ViewportSize, error) {
	var resp FovTextureSizeResponse
	req := &FovTextureSizeRequest{SessionID: s.id, Eye: int(eye), Fov: fov, Density: density}
	if err := s.client.invoke(ctx, MethodFovTextureSize, req, &resp); err != nil {
		return device.ViewportSize{}, err
	}
	return resp.Size, nil
}

func (s *clientSession) Close(ctx context.Context) error {
	var resp CloseSessionResponse
	return s.client.invoke(ctx, MethodCloseSession, &SessionRequest{SessionID: s.id}, &resp)
}

var _ device.Service = (*Client)(nil)
var _ device.Session = (*clientSession)(nil)
