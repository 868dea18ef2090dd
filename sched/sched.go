// Package sched provides the fork-join primitive that realizes spec.md §5's
// task model: "The factorization, forward, and backward solves each create
// two sibling tasks per front ... with an explicit barrier before the
// parent's local work", capped by a recursion-depth cutoff beyond which
// children run inline.
package sched

import "golang.org/x/sync/errgroup"

// Fork runs left and right concurrently and waits for both, unless depth
// has reached cutoff, in which case it runs them inline in the calling
// goroutine to avoid goroutine overhead for small subtrees (the mapping of
// task_recursion_cutoff_level onto a fork-join scheduler, spec.md §9).
// Either thunk may be nil, e.g. for a front with no right child.
func Fork(depth, cutoff int, left, right func() error) error {
	if depth >= cutoff {
		if left != nil {
			if err := left(); err != nil {
				return err
			}
		}
		if right != nil {
			if err := right(); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	if left != nil {
		g.Go(left)
	}
	if right != nil {
		g.Go(right)
	}
	return g.Wait()
}

// DefaultCutoff mirrors the scheduler heuristic of spec.md §5: beyond this
// many nested fork calls, further recursion runs in the current goroutine.
const DefaultCutoff = 6
