package iact

import "errors"

var (
	// ErrShapeMismatch is returned when parallel coordinate arrays differ in length.
	ErrShapeMismatch = errors.New("coordinate arrays have different lengths")
	// ErrEmptyImage is returned when an image has no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrInvalidPixel is returned when a pixel coordinate or intensity is NaN or infinite.
	ErrInvalidPixel = errors.New("pixel value is not finite")
	// ErrNegativeIntensity is returned when a pixel carries a negative intensity.
	ErrNegativeIntensity = errors.New("pixel intensity is negative")
	// ErrZeroSize is returned when the total image intensity is zero.
	ErrZeroSize = errors.New("total image intensity is zero")
	// ErrHorizontalPointing is returned by ProjectToGround when the pointing axis
	// is parallel to the ground plane, i.e. it never intersects z=0.
	ErrHorizontalPointing = errors.New("pointing axis is parallel to the ground")
	// ErrAxisAligned is returned by MajorAxisLine when the image covariance is
	// diagonal and the slope of the major axis cannot be solved for.
	ErrAxisAligned = errors.New("image axes are aligned with the camera axes")
)
