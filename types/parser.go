package types

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Parse converts a DuckDB type declaration such as
// "STRUCT(a INT, b TEXT, c MAP(TEXT, FLOAT8[])[])" into its canonical Type.
// Every failure is reported as a *ParseError.
func Parse(input string) (*Type, error) {
	p := &parser{input: input, scanner: newScanner(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, p.errorf(TrailingInput, "unexpected %s after complete type", p.tok.describe())
	}
	return typ, nil
}

// MustParse is like Parse but panics if the input cannot be parsed.
func MustParse(input string) *Type {
	typ, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return typ
}

// ParseAll parses inputs concurrently and returns the types in input order.
// If any input fails, one of the failures is returned.
func ParseAll(ctx context.Context, inputs []string) ([]*Type, error) {
	ret := make([]*Type, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		i, input := i, input
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			typ, err := Parse(input)
			if err != nil {
				return err
			}
			ret[i] = typ
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

type parser struct {
	input   string
	scanner *scanner
	tok     token
}

func (p *parser) advance() error {
	tok, err := p.scanner.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(reason ErrorReason, format string, args ...interface{}) *ParseError {
	return newParseError(reason, p.input, p.tok, format, args...)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.tok
	if tok.kind != kind {
		return token{}, p.errorf(UnexpectedToken, "expected %s but got %s", kind, tok.describe())
	}
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// parseType parses a base type followed by any number of [] suffixes.
func (p *parser) parseType() (*Type, error) {
	typ, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokenLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRBracket); err != nil {
			return nil, err
		}
		typ = NewArrayType(typ)
	}
	return typ, nil
}

func (p *parser) parseBaseType() (*Type, error) {
	tok := p.tok
	if tok.kind != tokenIdent {
		return nil, p.errorf(UnexpectedToken, "expected type name but got %s", tok.describe())
	}
	if tok.quoted {
		return nil, p.errorf(UnknownType, "unknown type %q", tok.text)
	}
	keyword := strings.ToUpper(tok.text)
	switch keyword {
	case "STRUCT":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseStruct()
	case "MAP":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseMap()
	case "DECIMAL", "NUMERIC":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseDecimal()
	}
	typ, found := lookupAlias(keyword)
	if !found {
		return nil, p.errorf(UnknownType, "unknown type %s", tok.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return typ, nil
}

func (p *parser) parseStruct() (*Type, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	var (
		fields []*NameWithType
		seen   = map[string]struct{}{}
	)
	for {
		nameTok := p.tok
		if nameTok.kind != tokenIdent {
			return nil, p.errorf(UnexpectedToken, "expected field name but got %s", nameTok.describe())
		}
		key := strings.ToLower(nameTok.text)
		if _, exists := seen[key]; exists {
			return nil, p.errorf(DuplicateField, "duplicate struct field %s", nameTok.text)
		}
		seen[key] = struct{}{}
		if err := p.advance(); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, NewNameWithType(nameTok.text, typ))
		if p.tok.kind != tokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return NewStructType(fields...), nil
}

func (p *parser) parseMap() (*Type, error) {
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenComma); err != nil {
		return nil, err
	}
	value, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return NewMapType(key, value), nil
}

func (p *parser) parseDecimal() (*Type, error) {
	if p.tok.kind != tokenLParen {
		return NewType(Decimal), nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	precision, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenComma); err != nil {
		return nil, err
	}
	scaleTok := p.tok
	scale, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	if scale > precision {
		return nil, newParseError(
			InvalidDecimalParams, p.input, scaleTok,
			"decimal scale %d exceeds precision %d", scale, precision,
		)
	}
	return NewDecimalType(precision, scale), nil
}

// parseNumber consumes a NUMBER production as an unsigned 32-bit integer.
func (p *parser) parseNumber() (uint32, error) {
	tok := p.tok
	if tok.kind != tokenNumber && tok.kind != tokenIdent {
		return 0, p.errorf(UnexpectedToken, "expected number but got %s", tok.describe())
	}
	if tok.kind == tokenNumber && strings.HasPrefix(tok.text, "-") {
		return 0, p.errorf(InvalidDecimalParams, "decimal parameter %s is negative", tok.text)
	}
	for i := 0; i < len(tok.text); i++ {
		if !isDigit(tok.text[i]) {
			return 0, p.errorf(InvalidNumber, "invalid number %s", tok.text)
		}
	}
	v, err := strconv.ParseUint(tok.text, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, newParseErrorWithCause(
				InvalidDecimalParams, p.input, tok, err,
				"decimal parameter %s overflows uint32", tok.text,
			)
		}
		return 0, newParseErrorWithCause(InvalidNumber, p.input, tok, err, "invalid number %s", tok.text)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return uint32(v), nil
}
