package chat

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/aalok2006/PSGTC/internal/goals"
)

var savingTips = []string{
	"TIP: Automate small, regular transfers to your savings goal accounts right after payday.",
	"TIP: Review your subscriptions (streaming, apps, etc.). Cancel any you don't use regularly.",
	"TIP: Try a 'no-spend' challenge for a week or a weekend to identify non-essential spending.",
	"TIP: Pack your lunch instead of buying it. The daily savings add up significantly over time!",
	"TIP: Use a budgeting app or spreadsheet to track exactly where your money is going.",
	"TIP: Set specific, measurable, achievable, relevant, and time-bound (SMART) savings goals.",
	"TIP: Consider rounding up your purchases to the nearest ₹10 or ₹50 and transferring the difference to savings.",
	"TIP: Look for free entertainment options like parks, libraries, or community events.",
}

var greetings = []string{
	"SYSTEM ONLINE, %s. AWAITING INPUT.",
	"GREETINGS, %s. HOW MAY I ASSIST?",
	"STATUS: READY. HELLO, %s.",
}

var acknowledgements = []string{
	"ACKNOWLEDGED.",
	"YOU ARE WELCOME.",
	"RESPONSE CONFIRMED.",
	"GLAD TO ASSIST.",
}

const helpText = `AVAILABLE COMMANDS:
  list goals / ls                  - Display current user's goals (respects sort order).
  list complete goals              - Show only completed goals.
  list incomplete goals            - Show only incomplete goals.
  list high/medium/low priority goals - Show goals of a specific priority.
  count goals                      - Report total goal count.
  count complete/incomplete goals  - Report counts by completion.
  count high/medium/low priority goals - Report counts by priority.
  summary                          - Overview for current user (counts and amounts).
  progress [goal name]             - Show progress for a specific goal.
  remaining [goal name]            - Show remaining amount for a goal.
  goal details [goal name]         - Show comprehensive details for a goal.
  check goal [goal name]           - Verify if a goal exists by name.
  closest goal                     - Identify the goal nearest completion.
  export goals                     - Display current user's goals data as JSON.
  add goal [name] target [amount] priority [high/medium/low] - Create a goal.
  add funds [amount] to [goal name] - Contribute to a goal.
  delete goal [goal name]          - Delete a goal (requires confirmation).
  sort [criteria_direction]        - Change goal sorting (e.g. sort priority_desc).
  current sort                     - Show the current goal sorting criteria.
  change name [new name]           - Switch to/create another user profile.
  user                             - Show the current active user.
  tip / suggestion                 - Provide a random saving suggestion.
  clear / cls                      - Clear this chat window.
  help / ?                         - Display this list.
For other questions, the AI assistant may respond, but it is instructed to stay on savings topics.`

func displayName(user string) string {
	if user == "" {
		return "NONE"
	}
	return user
}

// commands is the ordered pattern list. Multi-word patterns come before the
// shorter ones they overlap with (e.g. "add funds" and "add goal" before any
// bare prefix, "list complete goals" before "list goals" is unnecessary here
// because matching is whole-pattern, but specific entries are still listed
// first to keep the priority explicit).
var commands = []command{
	{match: exact("help", "?"), run: runHelp},
	{match: exact("hello", "hi", "hey", "greetings"), run: runGreeting},
	{match: exact("who are you", "about"), run: runAbout},
	{match: exact("thank you", "thanks", "ty", "cheers", "dhanyavaad"), run: runThanks},
	{match: exact("tip", "suggestion"), run: runTip},
	{match: exact("clear", "cls"), run: runClear},
	{match: exact("user"), run: runWhoIsUser},
	{match: withArg("change name"), run: runChangeName},

	{needsUser: true, match: matchAddFunds, run: runAddFunds},
	{needsUser: true, match: withArg("add goal"), run: runAddGoal},
	{needsUser: true, match: withArg("delete goal"), run: runDeleteGoal},

	{needsUser: true, match: exact("list complete goals"), run: runListComplete},
	{needsUser: true, match: exact("list incomplete goals"), run: runListIncomplete},
	{needsUser: true, match: matchPriorityCmd("list"), run: runListPriority},
	{needsUser: true, match: exact("list goals", "ls"), run: runListGoals},

	{needsUser: true, match: exact("count complete goals"), run: runCountComplete},
	{needsUser: true, match: exact("count incomplete goals"), run: runCountIncomplete},
	{needsUser: true, match: matchPriorityCmd("count"), run: runCountPriority},
	{needsUser: true, match: exact("count goals"), run: runCountGoals},

	{needsUser: true, match: exact("summary"), run: runSummary},
	{needsUser: true, match: exact("export goals"), run: runExport},
	{needsUser: true, match: exact("closest goal"), run: runClosest},

	{needsUser: true, match: withArg("progress", "status"), run: runProgress},
	{needsUser: true, match: withArg("remaining", "left for"), run: runRemaining},
	{needsUser: true, match: withArg("goal details"), run: runGoalDetails},
	{needsUser: true, match: withArg("check goal"), run: runCheckGoal},

	{match: exact("current sort"), run: runCurrentSort},
	{needsUser: true, match: withArg("sort"), run: runSetSort},
}

// matchPriorityCmd matches "<verb> <high|medium|low> priority goals" and
// yields the priority level.
func matchPriorityCmd(verb string) func(lower, raw string) (string, bool) {
	return func(lower, _ string) (string, bool) {
		if !strings.HasPrefix(lower, verb+" ") || !strings.HasSuffix(lower, " priority goals") {
			return "", false
		}
		p := strings.TrimSuffix(strings.TrimPrefix(lower, verb+" "), " priority goals")
		switch p {
		case goals.PriorityHigh, goals.PriorityMedium, goals.PriorityLow:
			return p, true
		}
		return "", false
	}
}

// matchAddFunds matches "add funds <amount> to <name>" keeping the whole
// remainder; the handler splits amount and name.
func matchAddFunds(lower, raw string) (string, bool) {
	if strings.HasPrefix(lower, "add funds ") {
		return strings.TrimSpace(raw[len("add funds "):]), true
	}
	return "", false
}

// ------------------------------------------------------------------
// Handlers
// ------------------------------------------------------------------

func runHelp(_ *Interpreter, _, _ string) Result {
	return Result{Reply: helpText, Handled: true}
}

func runGreeting(_ *Interpreter, user, _ string) Result {
	g := greetings[rand.Intn(len(greetings))]
	return Result{Reply: fmt.Sprintf(g, displayName(user)), Handled: true}
}

func runAbout(_ *Interpreter, user, _ string) Result {
	return Result{
		Reply:   fmt.Sprintf("I AM THE SAVINGS GOAL TRACKER ASSISTANT [5153]. MY FUNCTION IS TO PROVIDE INFORMATION AND ASSISTANCE REGARDING THE SAVINGS GOALS OF THE CURRENTLY ACTIVE USER: %s.", displayName(user)),
		Handled: true,
	}
}

func runThanks(_ *Interpreter, _, _ string) Result {
	return Result{Reply: acknowledgements[rand.Intn(len(acknowledgements))], Handled: true}
}

func runTip(_ *Interpreter, _, _ string) Result {
	return Result{Reply: savingTips[rand.Intn(len(savingTips))], Handled: true}
}

func runClear(_ *Interpreter, _, _ string) Result {
	return Result{Reply: "TERMINAL DISPLAY CLEARED.", Handled: true, Clear: true}
}

func runWhoIsUser(_ *Interpreter, user, _ string) Result {
	if user == "" {
		return Result{Reply: "NO USER IS CURRENTLY ACTIVE.", Handled: true}
	}
	return Result{Reply: fmt.Sprintf("CURRENT ACTIVE USER: %s.", user), Handled: true}
}

func runChangeName(it *Interpreter, user, arg string) Result {
	if arg == "" {
		return Result{Reply: "SYSTEM ERROR: USE change name [YOUR DESIRED NAME]. NAME CANNOT BE EMPTY OR EXCEED 50 CHARS.", Handled: true}
	}
	newName, err := it.tracker.SwitchUser(arg)
	if err != nil {
		return errReply(err, user, arg)
	}
	if newName == user {
		return Result{Reply: fmt.Sprintf("SYSTEM: USER IDENTIFIER IS ALREADY %s. NO CHANGE MADE.", user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("SYSTEM: USER SWITCHED TO %s.", newName), Handled: true}
}

func runListGoals(it *Interpreter, user, _ string) Result {
	list := it.tracker.Goals(user)
	if len(list) == 0 {
		return Result{Reply: fmt.Sprintf("NO ACTIVE GOALS FOUND FOR USER %s.", user), Handled: true}
	}
	order := strings.ToUpper(strings.ReplaceAll(it.tracker.SortOrder(), "_", " "))
	return Result{
		Reply:   fmt.Sprintf("CURRENT GOALS FOR %s (SORTED BY %s):\n%s", user, order, goalList(list)),
		Handled: true,
	}
}

func runListComplete(it *Interpreter, user, _ string) Result {
	list := goals.Complete(it.tracker.Goals(user))
	if len(list) == 0 {
		return Result{Reply: fmt.Sprintf("NO COMPLETED GOALS FOUND FOR USER %s.", user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("COMPLETED GOALS FOR %s:\n%s", user, goalList(list)), Handled: true}
}

func runListIncomplete(it *Interpreter, user, _ string) Result {
	list := goals.Incomplete(it.tracker.Goals(user))
	if len(list) == 0 {
		return Result{Reply: fmt.Sprintf("ALL GOALS ARE COMPLETE FOR USER %s!", user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("INCOMPLETE GOALS FOR %s:\n%s", user, goalList(list)), Handled: true}
}

func runListPriority(it *Interpreter, user, priority string) Result {
	list := goals.ByPriority(it.tracker.Goals(user), priority)
	label := strings.ToUpper(priority)
	if len(list) == 0 {
		return Result{Reply: fmt.Sprintf("NO %s PRIORITY GOALS FOUND FOR USER %s.", label, user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("%s PRIORITY GOALS FOR %s:\n%s", label, user, goalList(list)), Handled: true}
}

func runCountGoals(it *Interpreter, user, _ string) Result {
	n := len(it.tracker.GoalsStored(user))
	return Result{Reply: fmt.Sprintf("USER %s HAS A TOTAL OF %d GOALS.", user, n), Handled: true}
}

func runCountComplete(it *Interpreter, user, _ string) Result {
	n := len(goals.Complete(it.tracker.GoalsStored(user)))
	return Result{Reply: fmt.Sprintf("USER %s HAS %d COMPLETED GOALS.", user, n), Handled: true}
}

func runCountIncomplete(it *Interpreter, user, _ string) Result {
	n := len(goals.Incomplete(it.tracker.GoalsStored(user)))
	return Result{Reply: fmt.Sprintf("USER %s HAS %d INCOMPLETE GOALS.", user, n), Handled: true}
}

func runCountPriority(it *Interpreter, user, priority string) Result {
	n := len(goals.ByPriority(it.tracker.GoalsStored(user), priority))
	return Result{
		Reply:   fmt.Sprintf("USER %s HAS %d %s PRIORITY GOALS.", user, n, strings.ToUpper(priority)),
		Handled: true,
	}
}

func runSummary(it *Interpreter, user, _ string) Result {
	s := it.tracker.Summary(user)
	reply := fmt.Sprintf(`GOAL SUMMARY FOR %s:
- Total Goals: %d (%d complete)
- Priorities: %d High / %d Medium / %d Low
- Total Saved: %s
- Total Target: %s
- Total Remaining: %s`,
		user, s.TotalGoals, s.CompletedGoals,
		s.HighPriority, s.MediumPriority, s.LowPriority,
		FormatCurrency(s.TotalSaved), FormatCurrency(s.TotalTarget), FormatCurrency(s.TotalRemaining))
	return Result{Reply: reply, Handled: true}
}

func runExport(it *Interpreter, user, _ string) Result {
	data, err := it.tracker.ExportJSON(user)
	if err != nil {
		return Result{Reply: fmt.Sprintf("NO GOALS TO EXPORT FOR USER %s.", user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("GOAL DATA EXPORT FOR USER %s (JSON):\n%s", user, data), Handled: true}
}

func runClosest(it *Interpreter, user, _ string) Result {
	g := it.tracker.Closest(user)
	if g == nil {
		return Result{Reply: fmt.Sprintf("ALL GOALS ARE COMPLETE FOR USER %s!", user), Handled: true}
	}
	return Result{
		Reply: fmt.Sprintf("CLOSEST GOAL TO COMPLETION FOR %s: %s (Priority: %s)\nREMAINING: %s (%d%% complete).",
			user, g.Name, priorityLabel(g.Priority), FormatCurrency(g.Remaining()), g.ProgressPercent()),
		Handled: true,
	}
}

func runProgress(it *Interpreter, user, name string) Result {
	if name == "" {
		return Result{Reply: "SYNTAX ERROR: USE progress [GOAL NAME].", Handled: true}
	}
	g, err := it.tracker.FindGoal(user, name)
	if err != nil {
		return errReply(err, user, name)
	}
	complete := ""
	if g.IsComplete() {
		complete = " (COMPLETE)"
	}
	reply := fmt.Sprintf(`PROGRESS FOR %s (User: %s | Priority: %s):
- SAVED: %s
- TARGET: %s
- REMAINING: %s
- COMPLETION: %d%%%s`,
		g.Name, user, priorityLabel(g.Priority),
		FormatCurrency(g.Current), FormatCurrency(g.Target),
		FormatCurrency(g.Remaining()), g.ProgressPercent(), complete)
	return Result{Reply: reply, Handled: true}
}

func runRemaining(it *Interpreter, user, name string) Result {
	if name == "" {
		return Result{Reply: "SYNTAX ERROR: USE remaining [GOAL NAME].", Handled: true}
	}
	g, err := it.tracker.FindGoal(user, name)
	if err != nil {
		return errReply(err, user, name)
	}
	if g.IsComplete() {
		return Result{
			Reply:   fmt.Sprintf("GOAL %s IS COMPLETE FOR %s! %s REMAINING.", g.Name, user, FormatCurrency(0)),
			Handled: true,
		}
	}
	return Result{
		Reply:   fmt.Sprintf("REMAINING FOR %s (User: %s): %s", g.Name, user, FormatCurrency(g.Remaining())),
		Handled: true,
	}
}

func runGoalDetails(it *Interpreter, user, name string) Result {
	if name == "" {
		return Result{Reply: "SYNTAX ERROR: USE goal details [GOAL NAME].", Handled: true}
	}
	g, err := it.tracker.FindGoal(user, name)
	if err != nil {
		return errReply(err, user, name)
	}
	complete := ""
	if g.IsComplete() {
		complete = " (COMPLETE)"
	}
	reply := fmt.Sprintf(`DETAILS FOR GOAL %s (User: %s):
- Priority: %s
- Saved: %s
- Target: %s
- Remaining: %s
- Completion: %d%%%s
- Added: %s
- Last Updated: %s`,
		g.Name, user, priorityLabel(g.Priority),
		FormatCurrency(g.Current), FormatCurrency(g.Target), FormatCurrency(g.Remaining()),
		g.ProgressPercent(), complete,
		g.AddedDate.Format("02 Jan 2006 15:04"), g.LastUpdated.Format("02 Jan 2006 15:04"))
	return Result{Reply: reply, Handled: true}
}

func runCheckGoal(it *Interpreter, user, name string) Result {
	if name == "" {
		return Result{Reply: "SYNTAX ERROR: USE check goal [GOAL NAME].", Handled: true}
	}
	if _, err := it.tracker.FindGoal(user, name); err != nil {
		return Result{Reply: fmt.Sprintf("GOAL \"%s\" NOT FOUND FOR USER %s.", name, user), Handled: true}
	}
	return Result{Reply: fmt.Sprintf("GOAL \"%s\" EXISTS FOR USER %s.", name, user), Handled: true}
}

func runCurrentSort(it *Interpreter, user, _ string) Result {
	order := strings.ToUpper(strings.ReplaceAll(it.tracker.SortOrder(), "_", " "))
	return Result{
		Reply:   fmt.Sprintf("SYSTEM: GOALS FOR USER %s ARE CURRENTLY SORTED BY %s.", displayName(user), order),
		Handled: true,
	}
}

func runSetSort(it *Interpreter, user, arg string) Result {
	if err := it.tracker.SetSortOrder(arg); err != nil {
		return Result{
			Reply:   fmt.Sprintf("ERROR: INVALID SORT OPTION %q. USE [name|target|remaining|progress|priority|date]_[asc|desc].", arg),
			Handled: true,
		}
	}
	return Result{
		Reply:   fmt.Sprintf("SYSTEM: SORTING CHANGED TO %s.", strings.ToUpper(strings.ReplaceAll(arg, "_", " "))),
		Handled: true,
	}
}

// runAddGoal parses "add goal <name> target <amount> priority <level>";
// the priority clause is optional and defaults to medium.
func runAddGoal(it *Interpreter, user, arg string) Result {
	const syntax = "SYNTAX ERROR: USE add goal [NAME] target [AMOUNT] priority [HIGH|MEDIUM|LOW]."
	lower := strings.ToLower(arg)

	ti := strings.Index(lower, " target ")
	if arg == "" || ti <= 0 {
		return Result{Reply: syntax, Handled: true}
	}
	name := strings.TrimSpace(arg[:ti])
	rest := strings.TrimSpace(arg[ti+len(" target "):])
	restLower := strings.ToLower(rest)

	amountStr := rest
	priority := goals.PriorityMedium
	if pi := strings.Index(restLower, " priority "); pi >= 0 {
		amountStr = strings.TrimSpace(rest[:pi])
		priority = strings.TrimSpace(rest[pi+len(" priority "):])
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return errReply(err, user, name)
	}
	g, err := it.tracker.CreateGoal(user, name, amount, priority)
	if err != nil {
		return errReply(err, user, name)
	}
	return Result{
		Reply: fmt.Sprintf("SYSTEM: GOAL \"%s\" ADDED FOR USER %s (TARGET: %s, PRIORITY: %s).",
			g.Name, user, FormatCurrency(g.Target), priorityLabel(g.Priority)),
		Handled: true,
	}
}

// runAddFunds parses "add funds <amount> to <name>".
func runAddFunds(it *Interpreter, user, arg string) Result {
	const syntax = "SYNTAX ERROR: USE add funds [AMOUNT] to [GOAL NAME]."
	lower := strings.ToLower(arg)

	ti := strings.Index(lower, " to ")
	if arg == "" || ti <= 0 {
		return Result{Reply: syntax, Handled: true}
	}
	amountStr := strings.TrimSpace(arg[:ti])
	name := strings.TrimSpace(arg[ti+len(" to "):])
	if name == "" {
		return Result{Reply: syntax, Handled: true}
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return errReply(err, user, name)
	}
	g, err := it.tracker.AddFunds(user, name, amount)
	if err != nil {
		return errReply(err, user, name)
	}
	complete := ""
	if g.IsComplete() {
		complete = " GOAL COMPLETE!"
	}
	return Result{
		Reply: fmt.Sprintf("SYSTEM: %s ADDED TO \"%s\". SAVED %s OF %s [%d%%].%s",
			FormatCurrency(amount), g.Name, FormatCurrency(g.Current),
			FormatCurrency(g.Target), g.ProgressPercent(), complete),
		Handled: true,
	}
}

// runDeleteGoal resolves the goal and arms a confirmation; the actual
// removal happens only on "confirm delete".
func runDeleteGoal(it *Interpreter, user, name string) Result {
	if name == "" {
		return Result{Reply: "SYNTAX ERROR: USE delete goal [GOAL NAME].", Handled: true}
	}
	g, err := it.tracker.FindGoal(user, name)
	if err != nil {
		return errReply(err, user, name)
	}
	it.setPending(user, pendingDelete{goalID: g.ID, goalName: g.Name})
	return Result{
		Reply: fmt.Sprintf("CONFIRM DELETION OF GOAL \"%s\" (%s SAVED)? TYPE confirm delete TO PROCEED OR cancel TO ABORT.",
			g.Name, FormatCurrency(g.Current)),
		Handled: true,
	}
}
