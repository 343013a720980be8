package types

import (
	"strings"
	"unicode/utf8"
)

// scanner splits a type string into tokens on demand.
type scanner struct {
	src string
	off int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// next returns the following token. Once the input is exhausted it keeps returning tokenEOF.
func (s *scanner) next() (token, error) {
	s.skipWhitespace()
	if s.off >= len(s.src) {
		return token{kind: tokenEOF, pos: len(s.src)}, nil
	}
	pos := s.off
	c := s.src[pos]
	switch {
	case c == '(':
		return s.punct(tokenLParen), nil
	case c == ')':
		return s.punct(tokenRParen), nil
	case c == ',':
		return s.punct(tokenComma), nil
	case c == '[':
		return s.punct(tokenLBracket), nil
	case c == ']':
		return s.punct(tokenRBracket), nil
	case c == '"':
		return s.scanQuotedIdent()
	case isDigit(c):
		return token{kind: tokenNumber, text: s.scanWord(), pos: pos}, nil
	case c == '-' && pos+1 < len(s.src) && isDigit(s.src[pos+1]):
		s.off++
		s.scanWord()
		return token{kind: tokenNumber, text: s.src[pos:s.off], pos: pos}, nil
	case isLetter(c) || c == '_':
		return token{kind: tokenIdent, text: s.scanWord(), pos: pos}, nil
	}
	r, _ := utf8.DecodeRuneInString(s.src[pos:])
	tok := token{text: string(r), pos: pos}
	return token{}, newParseError(LexError, s.src, tok, "unexpected character %q", r)
}

func (s *scanner) punct(kind tokenKind) token {
	tok := token{kind: kind, text: s.src[s.off : s.off+1], pos: s.off}
	s.off++
	return tok
}

// scanWord consumes a maximal run of letters, digits and underscores.
func (s *scanner) scanWord() string {
	start := s.off
	for s.off < len(s.src) && isWordChar(s.src[s.off]) {
		s.off++
	}
	return s.src[start:s.off]
}

// scanQuotedIdent consumes a double-quoted identifier where "" stands for a literal quote.
func (s *scanner) scanQuotedIdent() (token, error) {
	start := s.off
	s.off++
	var name strings.Builder
	for s.off < len(s.src) {
		c := s.src[s.off]
		if c != '"' {
			name.WriteByte(c)
			s.off++
			continue
		}
		if s.off+1 < len(s.src) && s.src[s.off+1] == '"' {
			name.WriteByte('"')
			s.off += 2
			continue
		}
		s.off++
		if name.Len() == 0 {
			tok := token{text: s.src[start:s.off], pos: start}
			return token{}, newParseError(LexError, s.src, tok, "empty quoted identifier")
		}
		return token{kind: tokenIdent, text: name.String(), pos: start, quoted: true}, nil
	}
	tok := token{text: s.src[start:], pos: start}
	return token{}, newParseError(LexError, s.src, tok, "unterminated quoted identifier")
}

func (s *scanner) skipWhitespace() {
	for s.off < len(s.src) && isWhitespace(s.src[s.off]) {
		s.off++
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
