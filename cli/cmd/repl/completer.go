package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/calc/lang"
)

// isWordBoundary reports whether c separates completion words: a space or
// any operator or parenthesis of the language.
func isWordBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '(', ')', '+', '-', '*', '/', '%', '=', '>':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets in input.
// The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && !isWordBoundary(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && !isWordBoundary(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// findMatches ranks candidates against word, best first. An empty word
// matches nothing.
func findMatches(word string, candidates []string) fuzzy.Matches {
	if word == "" || len(candidates) == 0 {
		return nil
	}

	return fuzzy.Find(word, candidates)
}

// complete returns the completions of the word at pos in line in the form
// expected by a line editor's word completer.
func complete(
	line string,
	pos int,
	candidates []string,
) (head string, completions []string, tail string) {
	word, start, end := wordBounds(line, pos)

	for _, m := range findMatches(word, candidates) {
		completions = append(completions, m.Str)
	}

	return line[:start], completions, line[end:]
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.state.names()
	}

	return findMatches(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	sigs lang.Signatures,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, sigs)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions carry their arity, e.g. "sum/2".
func renderCandidate(match fuzzy.Match, selected bool, sigs lang.Signatures) string {
	baseStyle := suggestionStyle
	highlightStyle := suggestionStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if params, ok := sigs[match.Str]; ok {
		b.WriteString(hintStyle.Render("/" + strconv.Itoa(len(params))))
	}

	return b.String()
}
