// Package tasks runs the background work behind steamx with event-based progress reporting.
//
// # Export Pipeline
//
// [Exporter] drives one job at a time through the Idle → Running → {Completed, Canceled, Failed} → Idle cycle:
//   - Games are processed strictly in selection order, one fetch at a time
//   - Fetches are spaced by a [rate.Limiter] so Steam is not hammered (default 300ms)
//   - A game with no data or a failed fetch is logged and skipped; the job keeps going
//   - Rows for one game are written contiguously and flushed before the next game starts
//   - A sink write failure ends the job as Failed; the sink is closed on every exit path
//   - Cancellation is cooperative and checked before each game; rows already written stay written
//
// # Events
//
// Workers report through an Emit callback instead of touching caller state.
// An [Event] carries a progress target, a log line, a per-game completion, the single [Outcome] of a job,
// or the result of a game list fetch. [ChanEmitter] adapts a channel for select loops and bubbletea programs.
//
// # Game Library
//
// [Library] fetches the owned-games list on a worker. The foreground calls [Library.Apply] with the
// emitted [ListResult]: success replaces the list wholesale, failure keeps the previous one.
//
// # History
//
// The optional [JobRecorder] and [GameCache] interfaces are implemented in the repositories package.
// Their errors are logged and never fail a job.
package tasks
