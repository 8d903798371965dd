// meta/meta.go
package meta

// DEFAULT_TRIALS defines the number of games simulated per starting bound.
const DEFAULT_TRIALS = 100_000

// GO_ROUTINES defines the number of goroutines the CLI simulates with.
const GO_ROUTINES = 8

// MIN_BOUND and MAX_BOUND define the default sweep of starting bounds.
const MIN_BOUND = 1
const MAX_BOUND = 100

// OUT_DIR defines where experiment runs are written.
const OUT_DIR = "experiments"
