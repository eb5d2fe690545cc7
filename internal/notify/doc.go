// Package notify delivers change notifications from the gateway to
// whoever is watching an address.
//
// Observers register interest in an address. When the gateway writes, it
// calls NotifyChange with the address it was given. An observer registered
// on X receives a change on Y when:
//
//   - Y equals X
//   - X is below Y (a collection change reaches item observers)
//   - Y is below X and the observer asked for descendants
//
// Delivery goes through a Dispatcher. Inline runs observers before
// NotifyChange returns, Async hands changes to a background goroutine, and
// tasks.NotifyDispatcher persists them in the task queue. Observer panics are
// recovered and logged; they never fail the write that caused them.
package notify
