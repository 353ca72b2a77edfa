// Package ui implements the interactive export screen using bubbletea's Elm architecture.
//
// A single screen holds the owned-games list with a keyword filter and multi-select, a spinner while
// the list is loading, an animated progress bar, the running export log and the final outcome notice.
//
// The [Model] owns all foreground state. The [tasks.Library] and [tasks.Exporter] workers report back
// through one event channel which the model drains with a blocking [tea.Cmd], one [Msg] at a time.
// The progress bar is driven by a [progress.Reporter] stepped on a 16ms [tea.Tick] while it animates.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
