package utils

// Steps returns start, start+step, ... up to but excluding stop, counting down
// for a negative step. A zero step yields nothing.
func Steps(start, stop, step int) []int {
	var values []int
	switch {
	case step > 0:
		for v := start; v < stop; v += step {
			values = append(values, v)
		}
	case step < 0:
		for v := start; v > stop; v += step {
			values = append(values, v)
		}
	}
	return values
}
