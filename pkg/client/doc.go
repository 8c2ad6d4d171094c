// Package client is the client render path: it builds a live dom tree
// from a compiled vdom tree and drives directive lifecycle hooks.
//
// Each element moves through unmounted → mounted → (updated)* → unmounted.
//
//   - BeforeMount runs once the element has its attributes and children,
//     before it is inserted. Children therefore see BeforeMount first.
//   - Mounted runs after the whole tree is inserted, parents before
//     children.
//   - Patch re-evaluates values; Updated runs for each directive whose
//     value changed.
//   - Unmount runs Unmounted children before parents, exactly once per
//     element, whether the element is removed directly or with an
//     ancestor.
//
// A failing hook aborts the remaining hooks of that phase on that element
// only. Other elements continue, and every failure is returned joined as
// *directive.HookExecutionError values.
//
// An Instance is driven from a single goroutine at a time; its methods
// serialize on an internal mutex.
package client
