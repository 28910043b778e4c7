package driver

import "github.com/tsirbas/wisent/spec"

// recover implements spec.md §4.4's bounded error recovery: drain up to
// p.pre already-shifted stack entries, append the offending lookahead as
// the last element of that window (so it too is subject to insertion,
// replacement, or deletion), pull up to p.post tokens ahead from the
// stream as an untouched tail, and try every single-token variation of
// the window. A candidate is accepted only if it lets the parser consume
// strictly more of window+tail than the fixed baseline of leaving the
// window alone, per original_source/template.py's vary_queue/best_val:
// the acceptance threshold is len(tail)+1, not a re-scored baseline, so
// ties (including "no variation helps") prefer leaving the queue alone.
// On success, the repaired queue is pushed back onto buf and the stack is
// truncated to just before the drained window, so the normal Parse loop
// resumes as if the repaired tokens had arrived on the wire.
func (p *Parser) recover(buf *bufferedStream, stack []stackEntry, errTok Token, errTokOK bool) ([]stackEntry, bool) {
	errState := stack[len(stack)-1].state

	window, base := popWindow(stack, p.pre)
	var windowToks []Token
	for _, e := range window {
		windowToks = append(windowToks, e.tree.Leaves()...)
	}
	if errTokOK {
		windowToks = append(windowToks, errTok)
	} else {
		windowToks = append(windowToks, Token{Terminal: p.gram.Terminals[p.gram.EOFSymbol]})
	}

	var tail []Token
	for i := 0; i < p.post; i++ {
		t, ok := buf.next()
		if !ok {
			break
		}
		tail = append(tail, t)
	}

	palette := p.expectedTerminalNames(errState)
	eofName := p.gram.Terminals[p.gram.EOFSymbol]
	candidates := varyQueue(windowToks, palette, eofName)

	baseState := base[len(base)-1].state
	pt := p.gram.ParsingTable

	threshold := len(tail) + 1
	bestIdx := -1
	bestVal := threshold
	for i, c := range candidates {
		full := append(append([]Token{}, c...), tail...)
		val := len(full) - dryRun(pt, p.gram, baseState, full)
		if val < bestVal {
			bestVal = val
			bestIdx = i
			if val == 0 {
				break
			}
		}
	}

	if bestIdx < 0 {
		return nil, false
	}

	repaired := append(append([]Token{}, candidates[bestIdx]...), tail...)
	buf.pushBack(repaired)
	return base, true
}

// popWindow pops up to max entries off the top of stack, never touching the
// bottom sentinel, and returns them (in original left-to-right order) along
// with what remains.
func popWindow(stack []stackEntry, max int) (window, rest []stackEntry) {
	i := len(stack)
	n := 0
	for i > 1 && n < max {
		i--
		n++
	}
	return stack[i:], stack[:i]
}

// varyQueue builds every single insert/replace/delete variation of window,
// using palette as the set of terminals to try inserting or substituting
// (spec.md §9: prune candidate terminals to a state's expected set rather
// than the whole alphabet). Positions are visited back to front, and at
// each position insertion is tried before replacement before deletion,
// matching original_source/template.py's vary_queue so that the first
// strictly-better candidate found during a left-to-right scan of the
// result (recover's tie-break) is the same one the original would pick.
// Replacement and deletion are skipped at a position holding eofName,
// since the EOF marker can be inserted around but never replaced or
// dropped.
func varyQueue(window []Token, palette []string, eofName string) [][]Token {
	var candidates [][]Token

	for pos := len(window) - 1; pos >= 0; pos-- {
		for _, name := range palette {
			c := make([]Token, 0, len(window)+1)
			c = append(c, window[:pos]...)
			c = append(c, Token{Terminal: name})
			c = append(c, window[pos:]...)
			candidates = append(candidates, c)
		}

		if window[pos].Terminal == eofName {
			continue
		}

		for _, name := range palette {
			if name == window[pos].Terminal {
				continue
			}
			c := make([]Token, 0, len(window))
			c = append(c, window[:pos]...)
			c = append(c, Token{Terminal: name})
			c = append(c, window[pos+1:]...)
			candidates = append(candidates, c)
		}

		c := make([]Token, 0, len(window)-1)
		c = append(c, window[:pos]...)
		c = append(c, window[pos+1:]...)
		candidates = append(candidates, c)
	}

	return candidates
}

// dryRun replays tokens against pt's shift/reduce/goto tables from
// startState, tracking states only (no tree building), and returns how many
// tokens were actually shifted before the table offered neither a shift nor
// a reduce (or the tokens ran out). Higher is better.
func dryRun(pt *spec.ParsingTable, gram *spec.CompiledGrammar, startState int, tokens []Token) int {
	states := []int{startState}
	consumed := 0
	for consumed < len(tokens) {
		state := states[len(states)-1]
		id, found := gram.TerminalID(tokens[consumed].Terminal)
		if !found {
			break
		}
		if next, ok := pt.Shift[state][id]; ok {
			states = append(states, next)
			consumed++
			if next == pt.HaltingState {
				break
			}
			continue
		}
		if red, ok := pt.Reduce[state][id]; ok {
			if red.Length > 0 {
				states = states[:len(states)-red.Length]
			}
			top := states[len(states)-1]
			states = append(states, pt.GoTo[top][red.LHS])
			continue
		}
		break
	}
	return consumed
}

func (p *Parser) expectedTerminalNames(state int) []string {
	ids := p.gram.ParsingTable.Expected[state]
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = p.gram.Terminals[id]
	}
	return names
}
