package executortest

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokParam
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(word string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, word)
}

// lex splits one statement into tokens. It understands just enough of the
// Postgres lexical grammar for the statements this package simulates.
func lex(stmt string) []token {
	var toks []token
	for i := 0; i < len(stmt); {
		ch := stmt[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			for i < len(stmt) && stmt[i] != '\n' {
				i++
			}
		case ch == '\'':
			var b strings.Builder
			i++
			for i < len(stmt) {
				if stmt[i] == '\'' {
					if i+1 < len(stmt) && stmt[i+1] == '\'' {
						b.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteByte(stmt[i])
				i++
			}
			toks = append(toks, token{kind: tokString, text: b.String()})
		case ch == '"':
			j := i + 1
			for j < len(stmt) && stmt[j] != '"' {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: stmt[i+1 : min(j, len(stmt))]})
			i = j + 1
		case ch == '$' && i+1 < len(stmt) && isDigit(stmt[i+1]):
			j := i + 1
			for j < len(stmt) && isDigit(stmt[j]) {
				j++
			}
			toks = append(toks, token{kind: tokParam, text: stmt[i+1 : j]})
			i = j
		case isDigit(ch) || (ch == '-' && i+1 < len(stmt) && isDigit(stmt[i+1])):
			j := i + 1
			for j < len(stmt) && (isDigit(stmt[j]) || stmt[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: stmt[i:j]})
			i = j
		case isWordChar(ch):
			j := i
			for j < len(stmt) && (isWordChar(stmt[j]) || isDigit(stmt[j]) || stmt[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokWord, text: stmt[i:j]})
			i = j
		case ch == ':' && i+1 < len(stmt) && stmt[i+1] == ':':
			toks = append(toks, token{kind: tokPunct, text: "::"})
			i += 2
		default:
			toks = append(toks, token{kind: tokPunct, text: string(ch)})
			i++
		}
	}
	return toks
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// tableName normalises an identifier token to a bare lower-case table name
func tableName(t token) string {
	name := t.text
	if t.kind == tokWord {
		name = strings.ToLower(name)
	}
	return strings.TrimPrefix(name, "public.")
}

// groups splits toks[start:] (which must begin with "(") into the top-level
// comma separated groups of that parenthesised list. It returns the groups
// and the index just past the closing parenthesis.
func groups(toks []token, start int) ([][]token, int) {
	if start >= len(toks) || toks[start].text != "(" {
		return nil, start
	}
	var out [][]token
	var cur []token
	depth := 0
	for i := start; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[":
				depth++
				if depth == 1 {
					continue
				}
			case ")", "]":
				depth--
				if depth == 0 {
					out = append(out, cur)
					return out, i + 1
				}
			case ",":
				if depth == 1 {
					out = append(out, cur)
					cur = nil
					continue
				}
			}
		}
		cur = append(cur, t)
	}
	return out, len(toks)
}

// literal converts the tokens of one VALUES item into a Go value
func literal(toks []token, args []any) any {
	if len(toks) == 0 {
		return nil
	}
	first := toks[0]
	if len(toks) == 1 || (len(toks) > 1 && toks[1].text == "::") {
		switch first.kind {
		case tokString:
			return first.text
		case tokNumber:
			if n, err := strconv.ParseInt(first.text, 10, 64); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(first.text, 64); err == nil {
				return f
			}
			return first.text
		case tokParam:
			n, _ := strconv.Atoi(first.text)
			if n >= 1 && n <= len(args) {
				return args[n-1]
			}
			return nil
		case tokWord:
			switch strings.ToUpper(first.text) {
			case "NULL":
				return nil
			case "TRUE":
				return true
			case "FALSE":
				return false
			}
		}
	}
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		parts = append(parts, t.text)
	}
	return strings.Join(parts, " ")
}
