//go:build !highs

package qpsolver

import "errors"

// NewHiGHS returns a placeholder backend when the module is built without
// the highs tag; its Solve always fails with a descriptive error.
func NewHiGHS() Solver { return disabledHiGHS{} }

type disabledHiGHS struct{}

func (disabledHiGHS) Solve(*Problem, Settings) (Result, error) {
	return Result{Status: StatusError},
		errors.New("qpsolver: HiGHS backend requires building with -tags highs")
}
