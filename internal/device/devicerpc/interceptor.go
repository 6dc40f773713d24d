package devicerpc

import (
	"context"
	"log"

	"github.com/louisbranch/vergence/internal/storage"
	"github.com/louisbranch/vergence/internal/telemetry"
	"github.com/louisbranch/vergence/internal/telemetry/events"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TelemetryInterceptor emits one event for each unary device RPC. Emit
// failures are logged and never fail the call.
func TelemetryInterceptor(emitter *telemetry.Emitter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if emitter == nil {
			return resp, err
		}

		severity := telemetry.SeverityInfo
		code := codes.OK
		if err != nil {
			severity = telemetry.SeverityError
			if st, ok := status.FromError(err); ok {
				code = st.Code()
			}
		}

		emitErr := emitter.Emit(ctx, storage.TelemetryEvent{
			EventName: events.DeviceRPC,
			Severity:  string(severity),
			SessionID: sessionIDFromRequest(req),
			Attributes: map[string]any{
				"method": info.FullMethod,
				"code":   code.String(),
			},
		})
		if emitErr != nil {
			log.Printf("telemetry emit %s: %v", info.FullMethod, emitErr)
		}

		return resp, err
	}
}

type sessionRefGetter interface {
	sessionRef() string
}

func sessionIDFromRequest(req any) string {
	getter, ok := req.(sessionRefGetter)
	if !ok {
		return ""
	}
	return getter.sessionRef()
}
