package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo                    Code = 2000
	SynUnexpectedToken         Code = 2001
	SynUnclosedBracket         Code = 2002
	SynUnclosedParen           Code = 2003
	SynExpectEndif             Code = 2004
	SynExpectDo                Code = 2005
	SynExpectEnd               Code = 2006
	SynExpectIdentifier        Code = 2007
	SynExpectOperator          Code = 2008
	SynExpectExpression        Code = 2009
	SynExpectNewline           Code = 2010
	SynUnexpectedTopLevel      Code = 2011
	SynStatementOutsideProgram Code = 2012
	SynExpectProgramNumber     Code = 2013
	SynExpectThenOrGoto        Code = 2014
	SynExpectOpenBracket       Code = 2015
	SynExpectIncludePath       Code = 2016
	SynDefinitionFileOnly      Code = 2017
	SynExpectValue             Code = 2018
	SynExpectLabel             Code = 2019
	SynUnexpectedBlockEnd      Code = 2020

	// Lint: каждому коду соответствует стабильный rule id (см. ruleNames)
	LintInfo                   Code = 3000
	LintDuplicateDeclaration   Code = 3001
	LintDuplicateProgramNumber Code = 3002
	LintUnknownSymbol          Code = 3003
	LintDuplicateSequence      Code = 3004
	LintDuplicateLabel         Code = 3005
	LintDuplicateLabelSequence Code = 3006
	LintSequenceNotFound       Code = 3007
	LintMixedConditionals      Code = 3008
	LintTooManyConditionals    Code = 3009
	LintWhileLogicOperator     Code = 3010
	LintDoEndMismatch          Code = 3011
	LintDoEndNumberTooBig      Code = 3012
	LintNestingTooDeep         Code = 3013
	LintDuplicateDoNumber      Code = 3014
	LintIfNestingTooDeep       Code = 3015
	LintIncompleteParameter    Code = 3016
	LintAssignmentToConstant   Code = 3017
	LintBlockDeleteNumber      Code = 3018
	LintDuplicateAddress       Code = 3019
	LintIncludeNotFound        Code = 3020
	LintShadowedDeclaration    Code = 3021

	// IO
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgParseError  Code = 5001
	CfgUnknownRule Code = 5002
	CfgBadSeverity Code = 5003
	CfgBadEncoding Code = 5004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",

		SynInfo:                    "Syntax information",
		SynUnexpectedToken:         "Unexpected token",
		SynUnclosedBracket:         "Missing closing ']'",
		SynUnclosedParen:           "Missing closing ')'",
		SynExpectEndif:             "Missing ENDIF",
		SynExpectDo:                "Missing DO after WHILE condition",
		SynExpectEnd:               "Missing END for WHILE",
		SynExpectIdentifier:        "Expected identifier",
		SynExpectOperator:          "Expected operator between operands",
		SynExpectExpression:        "Expected expression",
		SynExpectNewline:           "Expected end of line",
		SynUnexpectedTopLevel:      "Unexpected top-level construct",
		SynStatementOutsideProgram: "Statement outside of a program",
		SynExpectProgramNumber:     "Expected program number",
		SynExpectThenOrGoto:        "Expected THEN or GOTO after IF condition",
		SynExpectOpenBracket:       "Expected '['",
		SynExpectIncludePath:       "Expected include path",
		SynDefinitionFileOnly:      "Only declarations are allowed in a definition file",
		SynExpectValue:             "Expected value",
		SynExpectLabel:             "Expected jump target",
		SynUnexpectedBlockEnd:      "Block terminator without opening statement",

		LintInfo:                   "Lint information",
		LintDuplicateDeclaration:   "Duplicate declaration",
		LintDuplicateProgramNumber: "Duplicate program number",
		LintUnknownSymbol:          "Unknown symbol",
		LintDuplicateSequence:      "Duplicate sequence number",
		LintDuplicateLabel:         "Duplicate jump label",
		LintDuplicateLabelSequence: "Jump label collides with sequence number",
		LintSequenceNotFound:       "Sequence number not found",
		LintMixedConditionals:      "Mixed logical operators in condition",
		LintTooManyConditionals:    "Too many chained conditions",
		LintWhileLogicOperator:     "Logical operator in WHILE condition",
		LintDoEndMismatch:          "DO and END numbers differ",
		LintDoEndNumberTooBig:      "DO/END number out of range",
		LintNestingTooDeep:         "WHILE nested too deep",
		LintDuplicateDoNumber:      "DO number reused in nested loops",
		LintIfNestingTooDeep:       "IF nested too deep",
		LintIncompleteParameter:    "Address without value",
		LintAssignmentToConstant:   "Assignment to constant",
		LintBlockDeleteNumber:      "Block delete number out of range",
		LintDuplicateAddress:       "Address repeated in statement",
		LintIncludeNotFound:        "Include not found",
		LintShadowedDeclaration:    "Declaration hides an included one",

		IOLoadFileError: "Failed to load file",

		CfgParseError:  "Invalid configuration file",
		CfgUnknownRule: "Unknown lint rule",
		CfgBadSeverity: "Invalid severity",
		CfgBadEncoding: "Invalid encoding",
	}

	ruleNames = map[Code]string{
		LintDuplicateDeclaration:   "duplicateDeclaration",
		LintDuplicateProgramNumber: "duplicateProgramNumber",
		LintUnknownSymbol:          "unknownSymbol",
		LintDuplicateSequence:      "duplicateSequence",
		LintDuplicateLabel:         "duplicateLabel",
		LintDuplicateLabelSequence: "duplicateLabelSequence",
		LintSequenceNotFound:       "sequenceNotFound",
		LintMixedConditionals:      "mixedConditionals",
		LintTooManyConditionals:    "tooManyConditionals",
		LintWhileLogicOperator:     "whileLogicOperator",
		LintDoEndMismatch:          "doEndMismatch",
		LintDoEndNumberTooBig:      "doEndNumberTooBig",
		LintNestingTooDeep:         "nestingTooDeep",
		LintDuplicateDoNumber:      "duplicateDoNumber",
		LintIfNestingTooDeep:       "ifNestingTooDeep",
		LintIncompleteParameter:    "incompleteParameter",
		LintAssignmentToConstant:   "assignmentToConstant",
		LintBlockDeleteNumber:      "blockDeleteNumber",
		LintDuplicateAddress:       "duplicateAddress",
		LintIncludeNotFound:        "includeNotFound",
		LintShadowedDeclaration:    "shadowedDeclaration",
	}

	codeByRule = func() map[string]Code {
		out := make(map[string]Code, len(ruleNames))
		for c, name := range ruleNames {
			out[name] = c
		}
		return out
	}()
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Rule returns the lint rule id for c, or "" when c is not a lint code.
func (c Code) Rule() string {
	return ruleNames[c]
}

// CodeForRule looks a lint code up by its rule id.
func CodeForRule(rule string) (Code, bool) {
	c, ok := codeByRule[rule]
	return c, ok
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
