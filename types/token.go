package types

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenLParen
	tokenRParen
	tokenComma
	tokenLBracket
	tokenRBracket
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	// text is the token as written. For quoted identifiers it is the unquoted name.
	text string
	// pos is the byte offset of the first character of the token.
	pos    int
	quoted bool
}

func (t token) describe() string {
	switch t.kind {
	case tokenIdent:
		if t.quoted {
			return "quoted identifier " + t.text
		}
		return "identifier " + t.text
	case tokenNumber:
		return "number " + t.text
	}
	return t.kind.String()
}
