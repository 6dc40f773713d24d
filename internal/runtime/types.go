package runtime

// SystemID is the stable handle for the one logical headset. The runtime
// models exactly one device, so exactly one value is ever issued.
type SystemID uint64

// systemID is the single handle value returned by AcquireSystem.
const systemID SystemID = 1

// FormFactor is the device class a caller asks to acquire.
type FormFactor int

const (
	FormFactorUnspecified FormFactor = iota
	FormFactorHeadMountedDisplay
	FormFactorHandheldDisplay
)

// String returns the form factor name.
func (f FormFactor) String() string {
	switch f {
	case FormFactorUnspecified:
		return "unspecified"
	case FormFactorHeadMountedDisplay:
		return "head-mounted-display"
	case FormFactorHandheldDisplay:
		return "handheld-display"
	default:
		return "unknown"
	}
}

// ViewConfiguration is the stereo arrangement a caller renders for.
type ViewConfiguration int

const (
	ViewConfigurationUnspecified ViewConfiguration = iota
	ViewConfigurationPrimaryMono
	ViewConfigurationPrimaryStereo
)

// String returns the view configuration name.
func (v ViewConfiguration) String() string {
	switch v {
	case ViewConfigurationUnspecified:
		return "unspecified"
	case ViewConfigurationPrimaryMono:
		return "primary-mono"
	case ViewConfigurationPrimaryStereo:
		return "primary-stereo"
	default:
		return "unknown"
	}
}

// EnvironmentBlendMode describes how rendered layers combine with the
// user's surroundings.
type EnvironmentBlendMode int

const (
	BlendModeOpaque EnvironmentBlendMode = iota + 1
	BlendModeAdditive
	BlendModeAlphaBlend
)

// String returns the blend mode name.
func (m EnvironmentBlendMode) String() string {
	switch m {
	case BlendModeOpaque:
		return "opaque"
	case BlendModeAdditive:
		return "additive"
	case BlendModeAlphaBlend:
		return "alpha-blend"
	default:
		return "unknown"
	}
}
