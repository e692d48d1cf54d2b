package lexer

// ===== Классификаторы =====

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isWordStart(b byte) bool {
	return b == '_' || isLetter(b)
}

func isWordContinue(b byte) bool {
	return isWordStart(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isNumberAfter: после skip байт идёт цифра, либо '.' и цифра
func (lx *Lexer) isNumberAfter(skip uint32) bool {
	b := lx.cursor.PeekAt(skip)
	return isDec(b) || b == '.' && isDec(lx.cursor.PeekAt(skip+1))
}
