package motionblur

import "errors"

var (
	// Keyframe validation. A moving entity's keyframes are decomposed into
	// rotation and scale, which needs an invertible, orientation-preserving
	// affine linear part.
	ErrSingularKeyframe   = errors.New("keyframe linear part is singular")
	ErrReflectingKeyframe = errors.New("keyframe linear part is a reflection")
	ErrProjectiveKeyframe = errors.New("keyframe is projective")

	ErrUnknownEntity = errors.New("unknown entity")
	ErrInvalidConfig = errors.New("invalid config")
)
