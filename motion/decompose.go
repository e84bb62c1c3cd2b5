package motion

import (
	"github.com/gekko3d/motionblur/internal/check"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Decompose factors a linear block M into a rotation R and a symmetric
// positive semi-definite scale/shear S with M = R*S (polar decomposition).
//
// With the singular value decomposition M = U*Σ*Vᵀ, R = U*Vᵀ and
// S = V*Σ*Vᵀ. M must be non-singular with a positive determinant;
// anything else is undefined.
func Decompose(linear mgl64.Mat3) (mgl64.Quat, mgl64.Mat3) {
	if check.Enabled {
		det := linear.Det()
		check.That(det > 0, "motion: cannot decompose linear block with determinant %g", det)
	}

	// mgl64 matrices are column-major, gonum's dense storage is row-major.
	rows := linear.Transpose()
	a := mat.NewDense(3, 3, rows[:])

	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDFull)
	if check.Enabled {
		check.That(ok, "motion: SVD did not converge for %v", linear)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := mat.NewDiagDense(3, svd.Values(nil))

	var r mat.Dense
	r.Mul(&u, v.T())

	var vs, s mat.Dense
	vs.Mul(&v, sigma)
	s.Mul(&vs, v.T())

	rot := mgl64.Mat4ToQuat(toMat3(&r).Mat4()).Normalize()
	return rot, toMat3(&s)
}

func toMat3(d *mat.Dense) mgl64.Mat3 {
	var out mgl64.Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.Set(row, col, d.At(row, col))
		}
	}
	return out
}
