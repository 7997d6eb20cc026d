package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalok2006/PSGTC/internal/store"
	"github.com/aalok2006/PSGTC/internal/tracker"
)

type fakeUpstream struct {
	reply   string
	err     error
	called  int
	lastMsg string
}

func (f *fakeUpstream) Generate(_ context.Context, message string) (string, error) {
	f.called++
	f.lastMsg = message
	return f.reply, f.err
}

func newTestSetup(t *testing.T) (*Interpreter, *tracker.Tracker, *fakeUpstream) {
	t.Helper()
	tr := tracker.New(store.NewState(), store.NewFileStore(t.TempDir()))
	up := &fakeUpstream{reply: "UPSTREAM REPLY"}
	return NewInterpreter(tr, up), tr, up
}

func handle(t *testing.T, it *Interpreter, tr *tracker.Tracker, msg string) Result {
	t.Helper()
	return it.Handle(context.Background(), tr.ActiveUser(), msg)
}

func TestScenarioCreateContributeProgress(t *testing.T) {
	it, tr, _ := newTestSetup(t)

	res := handle(t, it, tr, "change name SAMIR")
	assert.Equal(t, "SYSTEM: USER SWITCHED TO SAMIR.", res.Reply)

	res = handle(t, it, tr, "add goal New Laptop target 75000 priority High")
	assert.Contains(t, res.Reply, `GOAL "New Laptop" ADDED`)
	assert.Contains(t, res.Reply, "₹75,000.00")

	res = handle(t, it, tr, "add goal Emergency Fund target 50000 priority Medium")
	assert.Contains(t, res.Reply, `GOAL "Emergency Fund" ADDED`)

	res = handle(t, it, tr, "add funds 10000 to New Laptop")
	assert.Contains(t, res.Reply, "₹10,000.00 ADDED")
	assert.Contains(t, res.Reply, "[13%]")

	res = handle(t, it, tr, "progress New Laptop")
	assert.Contains(t, res.Reply, "SAVED: ₹10,000.00")
	assert.Contains(t, res.Reply, "REMAINING: ₹65,000.00")
	assert.Contains(t, res.Reply, "COMPLETION: 13%")
}

func TestScenarioProfileSwitchIsolation(t *testing.T) {
	it, tr, _ := newTestSetup(t)

	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal New Laptop target 75000 priority High")
	handle(t, it, tr, "add goal Emergency Fund target 50000 priority Medium")

	res := handle(t, it, tr, "change name JAYA")
	assert.Equal(t, "SYSTEM: USER SWITCHED TO JAYA.", res.Reply)
	res = handle(t, it, tr, "list goals")
	assert.Equal(t, "NO ACTIVE GOALS FOUND FOR USER JAYA.", res.Reply)

	handle(t, it, tr, "change name SAMIR")
	res = handle(t, it, tr, "list goals")
	assert.Contains(t, res.Reply, "New Laptop")
	assert.Contains(t, res.Reply, "Emergency Fund")
}

func TestNegativeContributionRejected(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal New Laptop target 75000 priority High")

	res := handle(t, it, tr, "add funds -500 to New Laptop")
	assert.Contains(t, res.Reply, "ERROR:")

	g, err := tr.FindGoal("SAMIR", "New Laptop")
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.Current, "stored amount unchanged")
}

func TestUnrecognizedInputForwardedToUpstream(t *testing.T) {
	it, tr, up := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")

	res := handle(t, it, tr, "how should I budget for a wedding?")
	assert.False(t, res.Handled)
	assert.Equal(t, "UPSTREAM REPLY", res.Reply)
	assert.Equal(t, 1, up.called)
	assert.Equal(t, "how should I budget for a wedding?", up.lastMsg)
}

func TestUpstreamFailureGetsFixedFallback(t *testing.T) {
	it, tr, up := newTestSetup(t)
	up.err = errors.New("connection refused")
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Bike target 1000 priority low")

	res := handle(t, it, tr, "tell me a story")
	assert.Equal(t, FallbackReply, res.Reply)
	assert.False(t, res.Handled)
	assert.Len(t, tr.Goals("SAMIR"), 1, "no state mutation on upstream failure")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Bike target 1000 priority low")

	res := handle(t, it, tr, "delete goal Bike")
	assert.Contains(t, res.Reply, `CONFIRM DELETION OF GOAL "Bike"`)
	assert.Len(t, tr.Goals("SAMIR"), 1, "nothing deleted before confirmation")

	res = handle(t, it, tr, "confirm delete")
	assert.Contains(t, res.Reply, `GOAL "Bike" DELETED`)
	assert.Empty(t, tr.Goals("SAMIR"))
}

func TestDeleteCancelled(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Bike target 1000 priority low")

	handle(t, it, tr, "delete goal Bike")
	res := handle(t, it, tr, "cancel")
	assert.Contains(t, res.Reply, "CANCELLED")
	assert.Len(t, tr.Goals("SAMIR"), 1)
}

func TestPendingDeleteDroppedByOtherCommand(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Bike target 1000 priority low")

	handle(t, it, tr, "delete goal Bike")
	handle(t, it, tr, "summary") // any other command discards the pending delete

	res := handle(t, it, tr, "confirm delete")
	assert.Equal(t, "SYSTEM: NO DELETION PENDING.", res.Reply)
	assert.Len(t, tr.Goals("SAMIR"), 1)
}

func TestDeleteUnknownGoal(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")

	res := handle(t, it, tr, "delete goal Yacht")
	assert.Equal(t, `ERROR: GOAL "Yacht" NOT FOUND FOR USER SAMIR.`, res.Reply)
}

func TestCommandsRequireActiveUser(t *testing.T) {
	it, _, up := newTestSetup(t)

	for _, msg := range []string{"list goals", "summary", "add goal X target 5 priority low", "closest goal"} {
		res := it.Handle(context.Background(), "", msg)
		assert.Equal(t, noUserReply, res.Reply, "message %q", msg)
	}
	assert.Zero(t, up.called, "user-scoped commands never reach the upstream")
}

func TestSummaryCommand(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal New Laptop target 75000 priority High")
	handle(t, it, tr, "add goal Emergency Fund target 50000 priority Medium")
	handle(t, it, tr, "add funds 10000 to New Laptop")

	res := handle(t, it, tr, "summary")
	assert.Contains(t, res.Reply, "Total Goals: 2 (0 complete)")
	assert.Contains(t, res.Reply, "1 High / 1 Medium / 0 Low")
	assert.Contains(t, res.Reply, "Total Saved: ₹10,000.00")
	assert.Contains(t, res.Reply, "Total Remaining: ₹115,000.00")
}

func TestClosestGoalCommand(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Far target 100000 priority low")
	handle(t, it, tr, "add goal Near target 1000 priority low")
	handle(t, it, tr, "add funds 900 to Near")

	res := handle(t, it, tr, "closest goal")
	assert.Contains(t, res.Reply, "Near")
	assert.Contains(t, res.Reply, "₹100.00")
}

func TestExportCommand(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")

	res := handle(t, it, tr, "export goals")
	assert.Equal(t, "NO GOALS TO EXPORT FOR USER SAMIR.", res.Reply)

	handle(t, it, tr, "add goal Bike target 1000 priority low")
	res = handle(t, it, tr, "export goals")
	assert.Contains(t, res.Reply, `"name": "Bike"`)
}

func TestListFiltersAndCounts(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")
	handle(t, it, tr, "add goal Done target 100 priority high")
	handle(t, it, tr, "add funds 100 to Done")
	handle(t, it, tr, "add goal Open target 100 priority low")

	res := handle(t, it, tr, "list complete goals")
	assert.Contains(t, res.Reply, "Done")
	assert.NotContains(t, res.Reply, "Open")

	res = handle(t, it, tr, "list incomplete goals")
	assert.Contains(t, res.Reply, "Open")
	assert.NotContains(t, res.Reply, "Done")

	res = handle(t, it, tr, "list high priority goals")
	assert.Contains(t, res.Reply, "Done")

	res = handle(t, it, tr, "count goals")
	assert.Contains(t, res.Reply, "TOTAL OF 2 GOALS")
	res = handle(t, it, tr, "count complete goals")
	assert.Contains(t, res.Reply, "1 COMPLETED GOALS")
	res = handle(t, it, tr, "count low priority goals")
	assert.Contains(t, res.Reply, "1 LOW PRIORITY GOALS")
}

func TestSortCommands(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")

	res := handle(t, it, tr, "current sort")
	assert.Contains(t, res.Reply, "DATE DESC")

	res = handle(t, it, tr, "sort priority_desc")
	assert.Contains(t, res.Reply, "SORTING CHANGED TO PRIORITY DESC")
	assert.Equal(t, "priority_desc", tr.SortOrder())

	res = handle(t, it, tr, "sort sideways")
	assert.Contains(t, res.Reply, "INVALID SORT OPTION")
}

func TestClearCommand(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	res := handle(t, it, tr, "clear")
	assert.True(t, res.Clear)
	assert.True(t, res.Handled)
}

func TestHelpAndSyntaxErrors(t *testing.T) {
	it, tr, _ := newTestSetup(t)
	handle(t, it, tr, "change name SAMIR")

	res := handle(t, it, tr, "help")
	assert.Contains(t, res.Reply, "list goals")
	assert.Contains(t, res.Reply, "add funds")

	res = handle(t, it, tr, "add goal NoTarget")
	assert.Contains(t, res.Reply, "SYNTAX ERROR")

	res = handle(t, it, tr, "add funds 500")
	assert.Contains(t, res.Reply, "SYNTAX ERROR")

	res = handle(t, it, tr, "add goal Thing target lots priority low")
	assert.Contains(t, res.Reply, "ERROR: AMOUNT MUST BE A NUMBER")
}

func TestChangeNameValidation(t *testing.T) {
	it, tr, _ := newTestSetup(t)

	res := handle(t, it, tr, "change name SAMIR")
	assert.Equal(t, "SYSTEM: USER SWITCHED TO SAMIR.", res.Reply)

	res = handle(t, it, tr, "change name samir")
	assert.Equal(t, "SYSTEM: USER IDENTIFIER IS ALREADY SAMIR. NO CHANGE MADE.", res.Reply)
}
