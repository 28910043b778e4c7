package grammar

import "errors"

// Semantic errors raised while cleaning up and analyzing a grammar
// (spec.md's Grammar "Errors" list). Directive/precedence/label errors
// that vartan's richer grammar-file format needed have no home here: the
// grammar surface this module accepts has neither directives nor
// lexical specifications (see DESIGN.md).
var (
	semErrEmptyGrammar        = errors.New("a grammar must have at least one production")
	semErrTransparentStart    = errors.New("the start symbol cannot be a transparent (synthetic) nonterminal")
	semErrNonTerminatingStart = errors.New("the start symbol does not derive any terminal string")
	semErrInfiniteExpansion   = errors.New("symbol has no finite expansion")
)
