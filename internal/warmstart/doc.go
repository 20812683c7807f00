// Package warmstart computes an initial feasible set of dual (Lagrange
// multiplier) variables for the linear obstacle-separation constraints of an
// optimization-based collision-avoidance planner.
//
// Given a warm-start primal trajectory xWS and a set of static convex
// obstacles in half-plane form A·x <= b, it assembles and solves one sparse
// convex QP over two multiplier families:
//
//   - lambda: one multiplier per (obstacle edge, time step)
//   - mu: one multiplier per (vehicle corner direction, obstacle, time step)
//
// The objective drives each obstacle's dual separating-hyperplane normal
// Aᵀ·lambda toward consistency with the obstacle's true edge normals, while
// the constraints couple the warm-start pose (rotation and translated
// reference point) to the multipliers and enforce nonnegativity.
//
// The pipeline is strictly sequential and single-threaded: setup, objective
// assembly, constraint assembly, solve, extraction. A DualWarmStart value is
// stateful (it owns the input geometry and the result matrices) and must not
// be solved from multiple goroutines at once.
package warmstart
