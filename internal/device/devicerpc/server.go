package devicerpc

import (
	"context"
	"errors"
	"sync"

	"github.com/louisbranch/vergence/internal/device"
	apperrors "github.com/louisbranch/vergence/internal/errors"
	"github.com/louisbranch/vergence/internal/id"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server exposes a device.Service backend on the gRPC wire. Sessions are
// tracked in a registry keyed by server-assigned ids so one connection can
// carry several independent sessions.
type Server struct {
	svc device.Service

	mu       sync.Mutex
	sessions map[string]device.Session
}

// NewServer wraps a device backend for wire registration.
func NewServer(svc device.Service) *Server {
	return &Server{svc: svc, sessions: make(map[string]device.Session)}
}

// Register attaches the device service descriptor to gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

// wireError converts backend errors to gRPC statuses. The unavailable
// sentinel maps to codes.Unavailable so clients can tell an absent device
// apart from a hard failure.
func wireError(err error) error {
	if errors.Is(err, device.ErrUnavailable) {
		return status.Error(codes.Unavailable, device.ErrUnavailable.Error())
	}
	return apperrors.HandleError(err)
}

func (s *Server) session(sessionID string) (device.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "unknown session id",
			map[string]string{"session_id": sessionID})
	}
	return sess, nil
}

func (s *Server) createSession(ctx context.Context, _ *CreateSessionRequest) (*CreateSessionResponse, error) {
	sess, err := s.svc.CreateSession(ctx)
	if err != nil {
		return nil, wireError(err)
	}
	sessionID, err := id.NewID()
	if err != nil {
		_ = sess.Close(ctx)
		return nil, wireError(err)
	}
	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()
	return &CreateSessionResponse{SessionID: sessionID}, nil
}

func (s *Server) hmdStatus(ctx context.Context, req *SessionRequest) (*HmdStatusResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	hmdStatus, err := sess.HmdStatus(ctx)
	if err != nil {
		return nil, wireError(err)
	}
	return &HmdStatusResponse{Status: hmdStatus}, nil
}

func (s *Server) hmdInfo(ctx context.Context, req *SessionRequest) (*HmdInfoResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	info, err := sess.HmdInfo(ctx)
	if err != nil {
		return nil, wireError(err)
	}
	return &HmdInfoResponse{Info: info}, nil
}

func (s *Server) eyeRenderInfo(ctx context.Context, req *EyeRequest) (*EyeRenderInfoResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	eye := device.Eye(req.Eye)
	if !eye.Valid() {
		return nil, wireError(apperrors.New(apperrors.CodeValidationFailure, "invalid eye"))
	}
	info, err := sess.EyeRenderInfo(ctx, eye)
	if err != nil {
		return nil, wireError(err)
	}
	return &EyeRenderInfoResponse{Info: info}, nil
}

func (s *Server) displayInfo(ctx context.Context, req *EyeRequest) (*DisplayInfoResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	eye := device.Eye(req.Eye)
	if !eye.Valid() {
		return nil, wireError(apperrors.New(apperrors.CodeValidationFailure, "invalid eye"))
	}
	info, err := sess.DisplayInfo(ctx, eye)
	if err != nil {
		return nil, wireError(err)
	}
	return &DisplayInfoResponse{Info: info}, nil
}

func (s *Server) floatConfig(ctx context.Context, req *FloatConfigRequest) (*FloatConfigResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	value, err := sess.FloatConfig(ctx, req.Key, req.Default)
	if err != nil {
		return nil, wireError(err)
	}
	return &FloatConfigResponse{Value: value}, nil
}

func (s *Server) intConfig(ctx context.Context, req *IntConfigRequest) (*IntConfigResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	value, err := sess.IntConfig(ctx, req.Key, req.Default)
	if err != nil {
		return nil, wireError(err)
	}
	return &IntConfigResponse{Value: value}, nil
}

func (s *Server) setTrackingOrigin(ctx context.Context, req *SetTrackingOriginRequest) (*SetTrackingOriginResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	origin := device.TrackingOrigin(req.Origin)
	if !origin.Valid() {
		return nil, wireError(apperrors.New(apperrors.CodeValidationFailure, "invalid tracking origin"))
	}
	if err := sess.SetTrackingOrigin(ctx, origin); err != nil {
		return nil, wireError(err)
	}
	return &SetTrackingOriginResponse{}, nil
}

func (s *Server) fovTextureSize(ctx context.Context, req *FovTextureSizeRequest) (*FovTextureSizeResponse, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, wireError(err)
	}
	eye := device.Eye(req.Eye)
	if !eye.Valid() {
		return nil, wireError(apperrors.New(apperrors.CodeValidationFailure, "invalid eye"))
	}
	size, err := sess.FovTextureSize(ctx, eye, req.Fov, req.Density)
	if err != nil {
		return nil, wireError(err)
	}
	return &FovTextureSizeResponse{Size: size}, nil
}

func (s *Server) closeSession(ctx context.Context, req *SessionRequest) (*CloseSessionResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	if ok {
		delete(s.sessions, req.SessionID)
	}
	s.mu.Unlock()
	if !ok {
		return nil, wireError(apperrors.WithMetadata(apperrors.CodeNotFound, "unknown session id",
			map[string]string{"session_id": req.SessionID}))
	}
	if err := sess.Close(ctx); err != nil {
		return nil, wireError(err)
	}
	return &CloseSessionResponse{}, nil
}

// deviceHandlers is the method set the service descriptor dispatches to.
type deviceHandlers interface {
	createSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error)
	hmdStatus(context.Context, *SessionRequest) (*HmdStatusResponse, error)
	hmdInfo(context.Context, *SessionRequest) (*HmdInfoResponse, error)
	eyeRenderInfo(context.Context, *EyeRequest) (*EyeRenderInfoResponse, error)
	displayInfo(context.Context, *EyeRequest) (*DisplayInfoResponse, error)
	floatConfig(context.Context, *FloatConfigRequest) (*FloatConfigResponse, error)
	intConfig(context.Context, *IntConfigRequest) (*IntConfigResponse, error)
	setTrackingOrigin(context.Context, *SetTrackingOriginRequest) (*SetTrackingOriginResponse, error)
	fovTextureSize(context.Context, *FovTextureSizeRequest) (*FovTextureSizeResponse, error)
	closeSession(context.Context, *SessionRequest) (*CloseSessionResponse, error)
}

// unary adapts a typed handler to the descriptor's wire handler shape,
// decoding into a fresh request value and honoring any chained interceptor.
func unary[Req, Resp any](fullMethod string, call func(deviceHandlers, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		backend := srv.(deviceHandlers)
		if interceptor == nil {
			return call(backend, ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(backend, ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*deviceHandlers)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSession", Handler: unary(MethodCreateSession, deviceHandlers.createSession)},
		{MethodName: "HmdStatus", Handler: unary(MethodHmdStatus, deviceHandlers.hmdStatus)},
		{MethodName: "HmdInfo", Handler: unary(MethodHmdInfo, deviceHandlers.hmdInfo)},
		{MethodName: "EyeRenderInfo", Handler: unary(MethodEyeRenderInfo, deviceHandlers.eyeRenderInfo)},
		{MethodName: "DisplayInfo", Handler: unary(MethodDisplayInfo, deviceHandlers.displayInfo)},
		{MethodName: "FloatConfig", Handler: unary(MethodFloatConfig, deviceHandlers.floatConfig)},
		{MethodName: "IntConfig", Handler: unary(MethodIntConfig, deviceHandlers.intConfig)},
		{MethodName: "SetTrackingOrigin", Handler: unary(MethodSetTrackingOrigin, deviceHandlers.setTrackingOrigin)},
		{MethodName: "FovTextureSize", Handler: unary(MethodFovTextureSize, deviceHandlers.fovTextureSize)},
		{MethodName: "CloseSession", Handler: unary(MethodCloseSession, deviceHandlers.closeSession)},
	},
	Streams: []grpc.StreamDesc{},
}

var _ deviceHandlers = (*Server)(nil)
