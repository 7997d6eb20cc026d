package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aalok2006/PSGTC/internal/goals"
	"github.com/aalok2006/PSGTC/internal/tracker"
)

// FallbackReply is the fixed message returned whenever the upstream AI call
// fails. The interaction loop never crashes on upstream errors.
const FallbackReply = "SYSTEM ERROR: FAILED TO GET RESPONSE FROM AI BACKEND. PLEASE TRY AGAIN LATER."

const noUserReply = "ERROR: NO USER ACTIVE. SET A USER FIRST USING change name [USERNAME] TO MANAGE GOALS."

// Upstream is the remote assistant the interpreter falls through to for
// unrecognized input.
type Upstream interface {
	Generate(ctx context.Context, message string) (string, error)
}

// Result is the outcome of one chat message.
type Result struct {
	Reply string
	// Handled is true when a local command matched; false means the reply
	// came from (or was attempted against) the upstream assistant.
	Handled bool
	// Clear signals the client to wipe the chat transcript display.
	Clear bool
}

type pendingDelete struct {
	goalID   string
	goalName string
}

// Interpreter maps chat text onto tracker operations, falling through to
// the upstream assistant. It is stateless across messages except for the
// pending delete confirmation per user.
type Interpreter struct {
	tracker  *tracker.Tracker
	upstream Upstream

	mu      sync.Mutex
	pending map[string]pendingDelete
}

func NewInterpreter(t *tracker.Tracker, u Upstream) *Interpreter {
	return &Interpreter{
		tracker:  t,
		upstream: u,
		pending:  map[string]pendingDelete{},
	}
}

// command is one (pattern matcher, handler) pair. Commands are evaluated in
// order, most specific first; the first match wins.
type command struct {
	needsUser bool
	// match returns the raw argument remainder (original casing) when the
	// lowered input matches the pattern.
	match func(lower, raw string) (string, bool)
	run   func(it *Interpreter, user, arg string) Result
}

func exact(words ...string) func(lower, raw string) (string, bool) {
	return func(lower, _ string) (string, bool) {
		for _, w := range words {
			if lower == w {
				return "", true
			}
		}
		return "", false
	}
}

// withArg matches "<prefix> <argument>"; lowering never changes byte
// offsets for the matched ASCII prefixes, so the raw remainder lines up.
func withArg(prefixes ...string) func(lower, raw string) (string, bool) {
	return func(lower, raw string) (string, bool) {
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p+" ") {
				return strings.TrimSpace(raw[len(p)+1:]), true
			}
		}
		return "", false
	}
}

// Handle runs one chat message for the acting user and returns the reply.
func (it *Interpreter) Handle(ctx context.Context, user, message string) Result {
	raw := strings.TrimSpace(message)
	lower := strings.ToLower(raw)
	if raw == "" {
		return Result{Reply: "INPUT ERROR: NO MESSAGE RECEIVED.", Handled: true}
	}

	// A pending deletion only survives into an immediate confirm/cancel.
	pending, hadPending := it.takePending(user)
	switch lower {
	case "confirm delete", "yes", "y":
		if hadPending {
			return it.executeDelete(user, pending)
		}
		if lower == "confirm delete" {
			return Result{Reply: "SYSTEM: NO DELETION PENDING.", Handled: true}
		}
	case "cancel", "no", "n":
		if hadPending {
			return Result{
				Reply:   fmt.Sprintf("SYSTEM: DELETION OF GOAL \"%s\" CANCELLED.", pending.goalName),
				Handled: true,
			}
		}
		if lower == "cancel" {
			return Result{Reply: "SYSTEM: NOTHING TO CANCEL.", Handled: true}
		}
	}

	for _, c := range commands {
		arg, ok := c.match(lower, raw)
		if !ok {
			continue
		}
		if c.needsUser && user == "" {
			return Result{Reply: noUserReply, Handled: true}
		}
		return c.run(it, user, arg)
	}

	// Not a recognized command: forward verbatim to the assistant.
	reply, err := it.upstream.Generate(ctx, raw)
	if err != nil {
		return Result{Reply: FallbackReply}
	}
	return Result{Reply: strings.TrimSpace(reply)}
}

func (it *Interpreter) takePending(user string) (pendingDelete, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	p, ok := it.pending[user]
	if ok {
		delete(it.pending, user)
	}
	return p, ok
}

func (it *Interpreter) setPending(user string, p pendingDelete) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.pending[user] = p
}

func (it *Interpreter) executeDelete(user string, p pendingDelete) Result {
	removed, err := it.tracker.DeleteGoal(user, p.goalID)
	if err != nil {
		return errReply(err, user, p.goalName)
	}
	return Result{
		Reply:   fmt.Sprintf("SYSTEM: GOAL \"%s\" DELETED FOR USER %s.", removed.Name, user),
		Handled: true,
	}
}

// errReply turns an operation error into a terminal-style message.
func errReply(err error, user, query string) Result {
	switch {
	case errors.Is(err, goals.ErrNotFound):
		return Result{
			Reply:   fmt.Sprintf("ERROR: GOAL \"%s\" NOT FOUND FOR USER %s.", query, user),
			Handled: true,
		}
	case errors.Is(err, goals.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), "validation error: ")
		return Result{Reply: "ERROR: " + strings.ToUpper(msg) + ".", Handled: true}
	default:
		return Result{Reply: "SYSTEM ERROR: " + strings.ToUpper(err.Error()) + ".", Handled: true}
	}
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be a number", goals.ErrValidation)
	}
	return v, nil
}
