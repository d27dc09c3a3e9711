// Package htn contains a small hierarchical task network planner.
//
// A Domain registers operators (primitive tasks that mutate state) and
// ordered lists of methods (compound tasks that decompose into subtasks). The
// Planner performs an ordered depth-first search over method alternatives
// using an explicit stack of frames. Every frame owns its own state
// snapshot, and operators and methods always run against a fresh clone, so
// backtracking to an alternative is simply popping the next frame.
//
// Operators and methods report "not applicable" by returning an error that
// wraps ErrPrecondition; the planner backtracks on any such error. Errors
// wrapping ErrBadArgs, unknown task names, and the expansion limit abort the
// search instead.
package htn
