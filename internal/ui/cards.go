package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

// renderCard draws a single card as a three-line box. Highlighted cards
// get a raised top border so the cursor is visible inside a fanned hand.
func renderCard(c protocol.CardInfo, highlighted bool) string {
	st := cardStyle(c.Suit)
	label := fmt.Sprintf("%-2s%s", c.Rank, c.Suit)
	body := st.Render(label)
	box := lipgloss.JoinVertical(lipgloss.Left,
		"┌───┐",
		"│"+body+"│",
		"└───┘",
	)
	if highlighted {
		return selectedStyle.Render("▼") + "\n" + box
	}
	return " \n" + box
}

// renderHand draws the hand as a horizontal fan with the cursor card raised.
func renderHand(hand []protocol.CardInfo, cursor int, showCursor bool) string {
	if len(hand) == 0 {
		return dimStyle.Render("(no cards)")
	}
	cells := make([]string, len(hand))
	for i, c := range hand {
		cells[i] = renderCard(c, showCursor && i == cursor)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cells...)
}

// renderTable draws the attack/defend pairs: defends stacked under their
// attacks, open attacks marked.
func renderTable(table []protocol.TablePairInfo, selected int, showSelect bool) string {
	if len(table) == 0 {
		return dimStyle.Render("— table is empty —")
	}
	cells := make([]string, len(table))
	for i, pair := range table {
		atk := cardStyle(pair.Attack.Suit).Render(fmt.Sprintf("%-2s%s", pair.Attack.Rank, pair.Attack.Suit))
		var sb strings.Builder
		if showSelect && i == selected && pair.Defend == nil {
			sb.WriteString(selectedStyle.Render("▼") + "\n")
		} else {
			sb.WriteString(" \n")
		}
		sb.WriteString("┌───┐\n│" + atk + "│\n")
		if pair.Defend != nil {
			def := cardStyle(pair.Defend.Suit).Render(fmt.Sprintf("%-2s%s", pair.Defend.Rank, pair.Defend.Suit))
			sb.WriteString("├───┤\n│" + def + "│\n└───┘")
		} else {
			sb.WriteString("└───┘\n" + dimStyle.Render("  ?  "))
		}
		cells[i] = sb.String()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
