// Package motionblur builds scenes of moving boxes for a motion-blurred
// renderer. A Registry holds static and keyframed entities; Commit bounds
// every entity's swept volume and indexes the result for overlap and ray
// queries.
//
// The transform and interpolation machinery lives in the xform and motion
// packages; this package adds configuration, logging and the scene index.
package motionblur
