package lint

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
)

// occurrence - номер кадра или метка перехода.
type occurrence struct {
	node  ast.NodeID
	label bool
}

// programRefs is what collect gathers for one program.
type programRefs struct {
	order   []string // ключи в порядке первого появления
	targets map[string][]occurrence
	gotos   []gotoRef
}

type gotoRef struct {
	node ast.NodeID
	key  string
}

type finding struct {
	code  diag.Code
	node  ast.NodeID
	msg   string
	notes []diag.Note
}

// collect walks every program and records sequence numbers, jump labels and
// GOTO targets keyed by their numeric value. Forward references are legal, so
// nothing is checked here.
func collect(tree *ast.Tree) []*programRefs {
	var out []*programRefs
	for _, prog := range programs(tree) {
		refs := &programRefs{targets: make(map[string][]occurrence)}
		add := func(key string, occ occurrence) {
			if _, ok := refs.targets[key]; !ok {
				refs.order = append(refs.order, key)
			}
			refs.targets[key] = append(refs.targets[key], occ)
		}
		tree.Accept(prog, func(id ast.NodeID, n *ast.Node) bool {
			switch data := n.Payload.(type) {
			case *ast.SequenceData:
				if key, ok := valueKey(tree, data.Number); ok {
					add(key, occurrence{node: id})
				}
			case *ast.JumpLabelData:
				if key, ok := valueKey(tree, data.Label); ok {
					add(key, occurrence{node: data.Label, label: true})
				}
			case *ast.GotoData:
				target := tree.Get(data.Target)
				if target == nil {
					break
				}
				switch target.Kind {
				case ast.KindNumeric, ast.KindSymbol, ast.KindLabel:
					// GOTO #1 и GOTO [expr] не проверяются
					if key, ok := valueKey(tree, data.Target); ok {
						refs.gotos = append(refs.gotos, gotoRef{node: data.Target, key: key})
					}
				}
			}
			return true
		})
		out = append(out, refs)
	}
	return out
}

// validate turns the collected maps into findings.
func validate(tree *ast.Tree, progs []*programRefs) []finding {
	var out []finding
	for _, refs := range progs {
		for _, key := range refs.order {
			var firstSeq, firstLabel ast.NodeID
			for _, occ := range refs.targets[key] {
				first, other := &firstSeq, firstLabel
				code, what := diag.LintDuplicateSequence, "sequence number N"+key
				if occ.label {
					first, other = &firstLabel, firstSeq
					code, what = diag.LintDuplicateLabel, "jump label "+tree.Text(occ.node)
				}
				switch {
				case first.IsValid():
					out = append(out, finding{code: code, node: occ.node, msg: "duplicate " + what,
						notes: []diag.Note{{Span: tree.Get(*first).Span, Msg: "first defined here"}}})
				case other.IsValid():
					out = append(out, finding{code: diag.LintDuplicateLabelSequence, node: occ.node,
						msg:   what + " collides with another target of value " + key,
						notes: []diag.Note{{Span: tree.Get(other).Span, Msg: "also defined here"}}})
				}
				if !first.IsValid() {
					*first = occ.node
				}
			}
		}
		for _, g := range refs.gotos {
			if _, ok := refs.targets[g.key]; !ok {
				out = append(out, finding{code: diag.LintSequenceNotFound, node: g.node,
					msg: "sequence number N" + g.key + " not found in program"})
			}
		}
	}
	return out
}

func (p *Pass) sequenceFindings() []finding {
	if !p.shared.collected {
		p.shared.sequences = validate(p.Tree, collect(p.Tree))
		p.shared.collected = true
	}
	return p.shared.sequences
}

func reportFindings(pass *Pass) {
	for _, f := range pass.sequenceFindings() {
		if f.code == pass.analyzer.Code {
			pass.ReportNode(f.node, f.msg, f.notes...)
		}
	}
}

var AnalyzerDuplicateSequence = &Analyzer{
	Code:     diag.LintDuplicateSequence,
	Severity: diag.SevError,
	Doc:      "A sequence number appears twice in one program.",
	Run:      reportFindings,
}

var AnalyzerDuplicateLabel = &Analyzer{
	Code:     diag.LintDuplicateLabel,
	Severity: diag.SevError,
	Doc:      "A jump label with the same value is placed twice in one program.",
	Run:      reportFindings,
}

var AnalyzerDuplicateLabelSequence = &Analyzer{
	Code:     diag.LintDuplicateLabelSequence,
	Severity: diag.SevWarning,
	Doc:      "A jump label and a sequence number share a value in one program.",
	Run:      reportFindings,
}

// AnalyzerSequenceNotFound flags GOTO targets that no sequence number or jump
// label of the same program carries. Checked after the whole program is seen.
var AnalyzerSequenceNotFound = &Analyzer{
	Code:     diag.LintSequenceNotFound,
	Severity: diag.SevError,
	Doc:      "GOTO jumps to a sequence number that the program does not contain.",
	Run:      reportFindings,
}
