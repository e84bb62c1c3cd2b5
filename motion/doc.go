// Package motion interpolates between two keyframed transforms for motion
// blur and bounds the volume an object sweeps while it moves.
//
// Each keyframe's linear block is split by polar decomposition into a
// rotation and a symmetric scale/shear. Rotations are slerped along the
// shortest arc and scale/shear and translation are lerped, which avoids
// the twisting that interpolating raw matrix entries produces.
//
//	m := motion.New(
//		motion.Keyframe{Transform: &open, Time: 0},
//		motion.Keyframe{Transform: &close, Time: 1},
//	)
//	p := m.ApplyPoint(0.25, mgl64.Vec3{1, 0, 0})
//	box := m.BoxBounds(localBox)
package motion
