// Package lint runs the rule checks over a parsed and resolved tree.
package lint

import (
	"fmt"
	"slices"
	"sort"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
	"cncmacro/internal/symbols"
)

// Analyzer is one lint rule.
type Analyzer struct {
	Code     diag.Code
	Severity diag.Severity // по умолчанию; переопределяется Config
	Doc      string
	Run      func(pass *Pass)
}

// Name returns the stable rule id.
func (a *Analyzer) Name() string { return a.Code.Rule() }

// Config maps rule ids to severity overrides. Missing ids keep the default.
type Config map[string]diag.Severity

// SeverityOf returns the effective severity of a.
func (c Config) SeverityOf(a *Analyzer) diag.Severity {
	if sev, ok := c[a.Name()]; ok {
		return sev
	}
	return a.Severity
}

// Pass carries one analyzer run over one tree.
type Pass struct {
	Tree  *ast.Tree
	Table *symbols.Table

	analyzer *Analyzer
	severity diag.Severity
	shared   *shared
	out      *[]diag.Diagnostic
}

// shared - состояние, общее для нескольких правил одного прогона.
type shared struct {
	sequences []finding
	collected bool
}

// Report emits a diagnostic for the running rule.
func (p *Pass) Report(sp source.Span, msg string, notes ...diag.Note) {
	d := diag.New(p.severity, p.analyzer.Code, sp, msg)
	d.Notes = append(d.Notes, notes...)
	*p.out = append(*p.out, d)
}

func (p *Pass) Reportf(sp source.Span, format string, args ...any) {
	p.Report(sp, fmt.Sprintf(format, args...))
}

// ReportNode emits a diagnostic on the span of node id.
func (p *Pass) ReportNode(id ast.NodeID, msg string, notes ...diag.Note) {
	if n := p.Tree.Get(id); n != nil {
		p.Report(n.Span, msg, notes...)
	}
}

// Analyzers returns the registry in rule-code order.
func Analyzers() []*Analyzer {
	out := []*Analyzer{
		AnalyzerDuplicateDeclaration,
		AnalyzerDuplicateProgramNumber,
		AnalyzerUnknownSymbol,
		AnalyzerDuplicateSequence,
		AnalyzerDuplicateLabel,
		AnalyzerDuplicateLabelSequence,
		AnalyzerSequenceNotFound,
		AnalyzerMixedConditionals,
		AnalyzerTooManyConditionals,
		AnalyzerWhileLogicOperator,
		AnalyzerDoEndMismatch,
		AnalyzerDoEndNumberTooBig,
		AnalyzerNestingTooDeep,
		AnalyzerDuplicateDoNumber,
		AnalyzerIfNestingTooDeep,
		AnalyzerIncompleteParameter,
		AnalyzerAssignmentToConstant,
		AnalyzerBlockDeleteNumber,
		AnalyzerDuplicateAddress,
		AnalyzerIncludeNotFound,
		AnalyzerShadowedDeclaration,
	}
	slices.SortFunc(out, func(a, b *Analyzer) int { return int(a.Code) - int(b.Code) })
	return out
}

// Lookup returns the analyzer for a rule id.
func Lookup(rule string) (*Analyzer, bool) {
	for _, a := range Analyzers() {
		if a.Name() == rule {
			return a, true
		}
	}
	return nil, false
}

// Entries runs every enabled rule over tree and returns diagnostics ordered by
// position. table must come from symbols.Resolve for the same tree; with a nil
// table only the tree's own definitions are bound.
func Entries(tree *ast.Tree, table *symbols.Table, cfg Config) []diag.Diagnostic {
	if tree == nil {
		panic("lint.Entries: nil tree")
	}
	if table == nil {
		table = symbols.Build(tree)
		table.Bind(tree)
	}
	var out []diag.Diagnostic
	sh := &shared{}
	for _, a := range Analyzers() {
		sev := cfg.SeverityOf(a)
		if sev == diag.SevIgnore {
			continue
		}
		a.Run(&Pass{
			Tree:     tree,
			Table:    table,
			analyzer: a,
			severity: sev,
			shared:   sh,
			out:      &out,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Primary.Start != out[j].Primary.Start {
			return out[i].Primary.Start < out[j].Primary.Start
		}
		return out[i].Code < out[j].Code
	})
	return out
}
