package diagnostic

// ClassifyContext determines the property-container classification from
// the derived file's own text: whether offset falls inside the `{ ... }`
// initializer of a `new <Ident>Props { ... }` object-creation
// expression, and if so, that
// expression's start offset. The host tree itself is out of scope for this
// package (see Translate's doc comment), so this is a text-level
// approximation grounded in the fixed call shape internal/markup's
// generator always emits ("new <Pascal(tag)>Props { ... }" or "()").
func ClassifyContext(derived []byte, offset int) (isPropError bool, containerStart int) {
	if offset < 0 || offset > len(derived) {
		return false, 0
	}
	depth := 0
	for i := offset - 1; i >= 0; i-- {
		switch derived[i] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				if start, ok := propsNewStart(derived, i); ok {
					return true, start
				}
				return false, 0
			}
			depth--
		}
	}
	return false, 0
}

// propsNewStart checks whether the text immediately before openBrace (after
// skipping whitespace) is "new <Ident>Props", returning the offset of "new"
// if so.
func propsNewStart(derived []byte, openBrace int) (int, bool) {
	i := openBrace - 1
	for i >= 0 && isSpaceByte(derived[i]) {
		i--
	}
	identEnd := i + 1
	for i >= 0 && isIdentByte(derived[i]) {
		i--
	}
	identStart := i + 1
	if !HasPropsSuffix(string(derived[identStart:identEnd])) {
		return 0, false
	}
	i = identStart - 1
	for i >= 0 && isSpaceByte(derived[i]) {
		i--
	}
	if i-2 < 0 || string(derived[i-2:i+1]) != "new" {
		return 0, false
	}
	return i - 2, true
}

func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
