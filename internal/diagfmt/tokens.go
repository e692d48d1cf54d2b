package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

// TokenOutput is one token of the JSON dump. Span offsets are bytes.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// FormatTokensPretty prints tokens grouped by source line:
//
//	line 1
//	    1  Address   "G" at 1:1-1:2
//	    2  Number    "01" at 1:2-1:4
//
// The dump stops after EOF.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var line uint32
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		if start.Line != line {
			line = start.Line
			if _, err := fmt.Fprintf(w, "line %d\n", line); err != nil {
				return err
			}
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "  %3d  %-12s", i+1, tok.Kind)
		if tok.Text != "" && tok.Kind != token.Newline {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if leading := triviaKinds(tok.Leading); len(leading) > 0 {
			sb.WriteString(" (leading: " + strings.Join(leading, ", ") + ")")
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the token array up to and including EOF.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: triviaKinds(tok.Leading),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func triviaKinds(trivia []token.Trivia) []string {
	if len(trivia) == 0 {
		return nil
	}
	out := make([]string, len(trivia))
	for i, tr := range trivia {
		out[i] = tr.Kind.String()
	}
	return out
}
