// Package token defines lexical token kinds and trivia for the macro language.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Start..End).
//   - Newline is a real token: statements end at a line break.
//   - Keywords, word operators and built-in function names are matched
//     case-insensitively; symbol names keep their case.
//   - Comments are leading Trivia and never appear in the main token stream.
package token
