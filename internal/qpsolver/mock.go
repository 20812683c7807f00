package qpsolver

// MockSolver implements Solver for testing. Each Solve call consumes the
// next scripted result; when the script is exhausted the last entry repeats.
type MockSolver struct {
	Results   []Result
	Err       error
	CallCount int
	Problems  []*Problem // problems seen, in call order
	Settings  []Settings
}

func (m *MockSolver) Solve(p *Problem, s Settings) (Result, error) {
	m.CallCount++
	m.Problems = append(m.Problems, p)
	m.Settings = append(m.Settings, s)
	if m.Err != nil {
		return Result{Status: StatusError}, m.Err
	}
	if len(m.Results) == 0 {
		return Result{Status: StatusError, Message: "mock: no scripted results"}, nil
	}
	idx := m.CallCount - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	return m.Results[idx], nil
}
