package tasks

import (
	"fmt"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/progress"
	"github.com/desertthunder/steamx/internal/services"
)

// Event is a message from a background worker to the foreground.
//
// Workers never touch foreground state; everything they report travels as an Event.
type Event struct {
	Kind    EventKind
	JobID   string
	Step    int     // items attempted so far
	Total   int     // items in the selection
	Percent float64 // progress target in [0, 100]
	Message string  // human-readable line for the running log
	Outcome *Outcome
	List    *ListResult
}

// EventKind enumerates [Event] kinds
type EventKind int

const (
	EventProgress EventKind = iota
	EventLog
	EventItemDone
	EventOutcome
	EventListLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventLog:
		return "log"
	case EventItemDone:
		return "item_done"
	case EventOutcome:
		return "outcome"
	case EventListLoaded:
		return "list_loaded"
	default:
		return ""
	}
}

// ListResult is the payload of [EventListLoaded].
type ListResult struct {
	Games []models.Game
	Err   error
}

// ChanEmitter adapts ch to an Emit callback.
//
// Progress events are dropped when ch is full since the next one supersedes them; every other kind blocks.
func ChanEmitter(ch chan<- Event) func(Event) {
	return func(ev Event) {
		if ev.Kind == EventProgress {
			select {
			case ch <- ev:
			default:
			}
			return
		}
		ch <- ev
	}
}

func progressUpdate(id string, step, total int) Event {
	return Event{
		Kind:    EventProgress,
		JobID:   id,
		Step:    step,
		Total:   total,
		Percent: progress.Percent(step, total),
	}
}

func resetUpdate(id string, total int) Event {
	return Event{Kind: EventProgress, JobID: id, Total: total, Percent: 0}
}

func startedUpdate(id string, total int, path string) Event {
	return Event{
		Kind:    EventLog,
		JobID:   id,
		Total:   total,
		Message: fmt.Sprintf("Exporting achievements for %d game(s) to %s", total, path),
	}
}

func fetchingUpdate(id string, step, total int, g models.Game) Event {
	return Event{
		Kind:    EventLog,
		JobID:   id,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s fetching...", step, total, g),
	}
}

func itemDoneUpdate(id string, step, total int, g models.Game, res services.FetchResult, rows int) Event {
	var msg string
	switch res.Status {
	case services.FetchOK:
		msg = fmt.Sprintf("  %d achievement(s) written", rows)
	case services.FetchNoData:
		msg = fmt.Sprintf("  no data (%s)", res.Reason)
	default:
		msg = fmt.Sprintf("  error: %v", res.Err)
	}

	return Event{
		Kind:    EventItemDone,
		JobID:   id,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func outcomeUpdate(id string, out Outcome) Event {
	return Event{
		Kind:    EventOutcome,
		JobID:   id,
		Step:    out.Attempted,
		Total:   out.Total,
		Message: out.Message(),
		Outcome: &out,
	}
}

func listBusyUpdate() Event {
	return Event{Kind: EventLog, Message: "Fetching owned games..."}
}

func listLoadedUpdate(games []models.Game, err error) Event {
	msg := fmt.Sprintf("Loaded %d game(s)", len(games))
	if err != nil {
		msg = fmt.Sprintf("Failed to load games: %v", err)
	}
	return Event{
		Kind:    EventListLoaded,
		Total:   len(games),
		Message: msg,
		List:    &ListResult{Games: games, Err: err},
	}
}
