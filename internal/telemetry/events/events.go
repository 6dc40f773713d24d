// Package events defines canonical telemetry event names.
//
// The names intentionally remain stable (`telemetry.*`) so operational
// consumers can rely on them across releases.
package events

const (
	// SystemAcquired records a successful system acquisition.
	SystemAcquired = "telemetry.system.acquired"
	// SystemUnavailable records an acquisition attempt with no usable headset.
	SystemUnavailable = "telemetry.system.unavailable"
	// SystemRefreshFailed records a re-acquisition that kept the previous snapshot.
	SystemRefreshFailed = "telemetry.system.refresh_failed"
	// DisplayRefreshed records a display-timing refresh.
	DisplayRefreshed = "telemetry.display.refreshed"
	// DeviceRPC captures one device-service RPC handled by the sim daemon.
	DeviceRPC = "telemetry.grpc.device"
	// SnapshotCollected records a diagnostic snapshot collection.
	SnapshotCollected = "telemetry.snapshot.collected"
)
