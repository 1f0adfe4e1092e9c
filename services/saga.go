package services

import "log"

// sagaStep is a single unit of work in the checkout sequence. Each step
// carries a compensating action to undo its effects when a later step fails.
type sagaStep struct {
	name       string
	execute    func() error
	compensate func() error
}

// runSaga executes steps sequentially. On failure it compensates the already
// completed steps in reverse order and returns the failing step's name and
// error. Compensation failures are logged; there is nothing further to do
// with them here but flag the record for manual reconciliation.
func runSaga(steps []sagaStep) (string, error) {
	var done []sagaStep

	for _, step := range steps {
		if err := step.execute(); err != nil {
			log.Printf("checkout step %s failed: %v, rolling back %d step(s)", step.name, err, len(done))
			rollback(done)
			return step.name, err
		}
		done = append(done, step)
	}
	return "", nil
}

func rollback(steps []sagaStep) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(); err != nil {
			log.Printf("CRITICAL: failed to compensate checkout step %s: %v", step.name, err)
		}
	}
}
