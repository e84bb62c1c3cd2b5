// Package xform implements 3D affine and projective transforms that carry
// their own inverse.
//
// Every mutator and composition updates the forward and inverse matrices
// together, so inversion is a swap and normals can be transformed by the
// inverse transpose without inverting anything at query time.
//
// Preconditions (non-singular matrices, non-zero scale components, corner
// indices) are checked only when built with the debug tag:
//
//	go test -tags debug ./...
package xform
