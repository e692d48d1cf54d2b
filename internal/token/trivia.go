package token

import "cncmacro/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaLineComment
	TriviaBlockComment
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	default:
		return "Trivia(?)"
	}
}
