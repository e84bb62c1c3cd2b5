// Package geom holds the small geometric primitives the transform code
// needs beyond mathgl: axis-aligned boxes, rays and ray bundles.
// Points, vectors and normals are plain mgl64.Vec3 values.
package geom
