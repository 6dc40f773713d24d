package device

// Config keys understood by the vendor service. The keys are vendor-defined
// strings; unknown keys read back their caller-supplied default.
const (
	// ConfigEyeHeight is the calibrated eye height above the floor, meters.
	ConfigEyeHeight = "eye_height"
	// ConfigUseNativeFov disables the parallel-projection correction and
	// reports the canted native frusta instead.
	ConfigUseNativeFov = "steamvr_use_native_fov"
	// ConfigFovLevel is the vendor FOV preset (smaller levels trade FOV
	// for sharpness).
	ConfigFovLevel = "fov_level"
	// ConfigSmartSmoothing toggles the vendor frame-interpolation mode.
	ConfigSmartSmoothing = "dbg_asw_enable"
	// ConfigLighthouseTracking selects the external lighthouse tracker
	// over inside-out tracking.
	ConfigLighthouseTracking = "enable_lighthouse_tracking"
	// ConfigClientFPS is the vendor-reported client frame rate.
	ConfigClientFPS = "client_fps"
)
