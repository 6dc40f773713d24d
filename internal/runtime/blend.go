package runtime

import (
	"fmt"

	apperrors "github.com/louisbranch/vergence/internal/errors"
)

// supportedBlendModes is the fixed capability list: opaque displays only,
// no passthrough or additive support.
var supportedBlendModes = []EnvironmentBlendMode{BlendModeOpaque}

// EnumerateEnvironmentBlendModes reports the blend modes supported for a
// view configuration using the two-phase capacity protocol: a zero-length
// out probes the required count without writing; a shorter-than-required
// out is rejected with CodeSizeInsufficient and left untouched; otherwise
// the supported modes are copied in. The count is returned in every
// successful phase and alongside CodeSizeInsufficient.
func (r *Runtime) EnumerateEnvironmentBlendModes(sys SystemID, view ViewConfiguration, out []EnvironmentBlendMode) (int, error) {
	if !r.created {
		return 0, ErrSystemNotCreated
	}
	if sys != systemID {
		return 0, apperrors.WithMetadata(apperrors.CodeSystemInvalid,
			"unknown system handle", map[string]string{"system_id": fmt.Sprintf("%d", sys)})
	}
	if view != ViewConfigurationPrimaryStereo {
		return 0, apperrors.WithMetadata(apperrors.CodeViewConfigUnsupported,
			"only the primary stereo view configuration is supported",
			map[string]string{"view_configuration": view.String()})
	}
	return fillEnumeration(out, supportedBlendModes)
}

// fillEnumeration implements the two-phase capacity protocol shared by
// enumeration calls. The required count is returned even when dst is too
// small so callers can re-probe from the error path.
func fillEnumeration[T any](dst, src []T) (int, error) {
	if len(dst) == 0 {
		return len(src), nil
	}
	if len(dst) < len(src) {
		return len(src), apperrors.WithMetadata(apperrors.CodeSizeInsufficient,
			"output capacity is smaller than the element count",
			map[string]string{
				"capacity": fmt.Sprintf("%d", len(dst)),
				"required": fmt.Sprintf("%d", len(src)),
			})
	}
	copy(dst, src)
	return len(src), nil
}
