package chat

import (
	"fmt"
	"strings"

	"github.com/aalok2006/PSGTC/internal/goals"
)

// FormatCurrency renders an amount as ₹ with thousands grouping and two
// decimals, e.g. ₹75,000.00.
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(fracPart)
	return b.String()
}

func priorityLabel(p string) string {
	p = goals.NormalizePriority(p)
	if p == "" {
		return "N/A"
	}
	return strings.ToUpper(p)
}

// goalLine renders one goal as a listing entry.
func goalLine(g goals.Goal) string {
	line := fmt.Sprintf("- %s [%s]: %s / %s [%d%%]",
		g.Name, priorityLabel(g.Priority),
		FormatCurrency(g.Current), FormatCurrency(g.Target),
		g.ProgressPercent())
	if g.IsComplete() {
		line += " - COMPLETE"
	}
	return line
}

func goalList(list []goals.Goal) string {
	lines := make([]string, 0, len(list))
	for _, g := range list {
		lines = append(lines, goalLine(g))
	}
	return strings.Join(lines, "\n")
}
