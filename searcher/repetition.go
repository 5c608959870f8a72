package searcher

import "golang.org/x/exp/slices"

// repeats reports whether the last snapshot of history already occurs among
// the window snapshots recorded before it.
func repeats(history []string, window int) bool {
	if window <= 0 || len(history) < 2 {
		return false
	}
	last := len(history) - 1
	from := max(0, last-window)
	return slices.Contains(history[from:last], history[last])
}
