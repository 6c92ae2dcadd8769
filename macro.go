package docgrid

import (
	"context"
	"time"
)

// Macro action names. These are the stable identifiers persisted in event
// logs; renaming one breaks replay of stored macros.
const (
	ActionRename        = "rename"
	ActionUpdateHeader  = "updateHeader"
	ActionDemoteHeader  = "demoteHeader"
	ActionPromoteRow    = "promoteRow"
	ActionDeleteRow     = "deleteRow"
	ActionFillDown      = "fillDown"
	ActionAddNameColumn = "addNameColumn"
	ActionSplitRow      = "splitRow"
	ActionApprove       = "approve"
	ActionDeleteTable   = "deleteTable"
	ActionRestoreTable  = "restoreTable"
	ActionMergeTables   = "mergeTables"
)

// MacroParams carries the exact arguments needed to reproduce one mutation.
// Only the fields relevant to the recorded action are meaningful.
type MacroParams struct {
	TableIndex int    `json:"tableIndex"`
	Row        int    `json:"row,omitempty"`
	Col        int    `json:"col,omitempty"`
	Value      string `json:"value,omitempty"`
	Indices    []int  `json:"indices,omitempty"`
}

// MacroEvent is one recorded mutation. The event log is append-only.
type MacroEvent struct {
	Action string      `json:"action"`
	Params MacroParams `json:"params"`
}

// Macro is a named, persisted event log.
type Macro struct {
	Name      string       `json:"name"`
	Events    []MacroEvent `json:"events"`
	CreatedAt time.Time    `json:"createdAt"`
}

// MacroService persists named macros.
type MacroService interface {
	// SaveMacro stores a macro, replacing any existing macro of the same
	// name.
	SaveMacro(ctx context.Context, m *Macro) error

	// FindMacroByName retrieves a macro. Returns ENOTFOUND if it does not
	// exist.
	FindMacroByName(ctx context.Context, name string) (*Macro, error)

	// ListMacros retrieves all macros ordered by name.
	ListMacros(ctx context.Context) ([]*Macro, error)

	// DeleteMacro removes a macro. Returns ENOTFOUND if it does not exist.
	DeleteMacro(ctx context.Context, name string) error
}

// StartRecording clears the event log and begins capturing mutations.
func (s *Session) StartRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.recording = true
	s.logf("Macro recording started")
}

// StopRecording stops capturing mutations, leaving the event log intact.
func (s *Session) StopRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return
	}
	s.recording = false
	s.logf("Macro recording stopped (%d events)", len(s.events))
}

// Recording reports whether mutations are currently being captured.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Events returns a copy of the recorded event log.
func (s *Session) Events() []MacroEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MacroEvent(nil), s.events...)
}

// record appends an event while recording. Callers hold s.mu.
func (s *Session) record(action string, params MacroParams) {
	if !s.recording {
		return
	}
	s.events = append(s.events, MacroEvent{Action: action, Params: params})
}

// ReplayResult summarizes a best-effort replay.
type ReplayResult struct {
	Steps   int      `json:"steps"`
	Applied int      `json:"applied"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Replay applies an event log against the session's current table set.
// Events are dispatched in order; a per-step failure is logged and replay
// continues with the next step. Between steps the replayer pauses for the
// settle interval so a UI collaborator can observe intermediate states;
// the pause honors ctx cancellation.
func (s *Session) Replay(ctx context.Context, events []MacroEvent, settle time.Duration) *ReplayResult {
	// Copy so that replaying the session's own live log is safe even if
	// recording is still active and appending.
	events = append([]MacroEvent(nil), events...)

	res := &ReplayResult{Steps: len(events)}
	for i, ev := range events {
		if i > 0 && settle > 0 {
			select {
			case <-ctx.Done():
				res.Errors = append(res.Errors, ctx.Err().Error())
				s.Logf("Replay cancelled after %d/%d steps", i, len(events))
				return res
			case <-time.After(settle):
			}
		}
		if err := s.apply(ev); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err.Error())
			s.Logf("Replay step %d (%s) failed: %s", i+1, ev.Action, ErrorMessage(err))
			continue
		}
		res.Applied++
	}
	s.Logf("Replay finished: %d/%d steps applied", res.Applied, res.Steps)
	return res
}

// apply dispatches one event to the corresponding mutation.
func (s *Session) apply(ev MacroEvent) error {
	p := ev.Params
	switch ev.Action {
	case ActionRename:
		s.Rename(p.TableIndex, p.Value)
	case ActionUpdateHeader:
		s.UpdateHeader(p.TableIndex, p.Col, p.Value)
	case ActionDemoteHeader:
		s.DemoteHeader(p.TableIndex)
	case ActionPromoteRow:
		s.PromoteRow(p.TableIndex, p.Row)
	case ActionDeleteRow:
		s.DeleteRow(p.TableIndex, p.Row)
	case ActionFillDown:
		s.FillDown(p.TableIndex, p.Col)
	case ActionAddNameColumn:
		s.AddNameColumn(p.TableIndex)
	case ActionSplitRow:
		s.SplitRow(p.TableIndex, p.Row)
	case ActionApprove:
		s.Approve(p.TableIndex)
	case ActionDeleteTable:
		s.DeleteTable(p.TableIndex)
	case ActionRestoreTable:
		s.RestoreTable(p.TableIndex)
	case ActionMergeTables:
		_, err := s.MergeTables(p.Indices)
		return err
	default:
		return Errorf(EINVALID, "unknown macro action %q", ev.Action)
	}
	return nil
}
