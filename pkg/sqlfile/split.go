package sqlfile

import "strings"

// scanner walks SQL text byte by byte and emits a statement at every ';'
// that is not inside a quoted region or a comment.
type scanner struct {
	src        string
	pos        int
	buf        strings.Builder
	statements []string
	// meaningful is set once the buffer holds something other than
	// whitespace and comments
	meaningful bool
}

// Split breaks SQL text into individual statements.
//
// Semicolons terminate a statement only outside of:
//   - single-quoted strings ('it''s; fine')
//   - escape strings (E'it\'s; fine')
//   - double-quoted identifiers ("odd;name")
//   - dollar-quoted bodies ($$ ... $$ or $fn$ ... $fn$)
//   - line comments (-- ...) and block comments (/* ... */)
//
// Fragments holding only whitespace or comments are dropped, as are comments
// leading a statement. Comments inside a statement are kept verbatim.
func Split(content string) []string {
	s := &scanner{src: content}
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case ch == '-' && s.peek(1) == '-':
			s.lineComment()
		case ch == '/' && s.peek(1) == '*':
			s.blockComment()
		case (ch == 'E' || ch == 'e') && s.peek(1) == '\'' && !s.inWord():
			s.escapeString()
		case ch == '\'':
			s.quoted('\'')
		case ch == '"':
			s.quoted('"')
		case ch == '$' && s.dollarTag() != "":
			s.dollarBody()
		case ch == ';':
			s.flush()
			s.pos++
		default:
			if !isSpace(ch) {
				s.meaningful = true
			}
			s.buf.WriteByte(ch)
			s.pos++
		}
	}
	s.flush()
	return s.statements
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) lineComment() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		end = len(s.src) - s.pos
	}
	s.write(s.src[s.pos : s.pos+end])
	s.pos += end
}

func (s *scanner) blockComment() {
	// Postgres block comments nest
	depth := 0
	for s.pos < len(s.src) {
		if s.src[s.pos] == '/' && s.peek(1) == '*' {
			depth++
			s.write("/*")
			s.pos += 2
			continue
		}
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			depth--
			s.write("*/")
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		s.write(s.src[s.pos : s.pos+1])
		s.pos++
	}
}

// write appends comment text, dropping it while no statement has started
func (s *scanner) write(text string) {
	if s.meaningful {
		s.buf.WriteString(text)
	}
}

// quoted consumes a region delimited by q, where a doubled q is an escape
func (s *scanner) quoted(q byte) {
	s.meaningful = true
	s.buf.WriteByte(q)
	s.pos++
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		s.buf.WriteByte(ch)
		s.pos++
		if ch == q {
			if s.pos < len(s.src) && s.src[s.pos] == q {
				s.buf.WriteByte(q)
				s.pos++
				continue
			}
			return
		}
	}
}

// inWord reports whether the byte before pos continues an identifier
func (s *scanner) inWord() bool {
	return s.pos > 0 && (isTagChar(s.src[s.pos-1]) || s.src[s.pos-1] == '$')
}

// escapeString consumes E'...', where a backslash escapes the next byte
func (s *scanner) escapeString() {
	s.meaningful = true
	s.buf.WriteString(s.src[s.pos : s.pos+2])
	s.pos += 2
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		s.buf.WriteByte(ch)
		s.pos++
		switch {
		case ch == '\\' && s.pos < len(s.src):
			s.buf.WriteByte(s.src[s.pos])
			s.pos++
		case ch == '\'':
			if s.pos < len(s.src) && s.src[s.pos] == '\'' {
				s.buf.WriteByte('\'')
				s.pos++
				continue
			}
			return
		}
	}
}

// dollarTag returns the delimiter ($$ or $tag$) starting at pos, or ""
func (s *scanner) dollarTag() string {
	end := s.pos + 1
	if end < len(s.src) && isDigit(s.src[end]) {
		// $1 is a positional parameter, not a delimiter
		return ""
	}
	for end < len(s.src) && isTagChar(s.src[end]) {
		end++
	}
	if end < len(s.src) && s.src[end] == '$' {
		return s.src[s.pos : end+1]
	}
	return ""
}

func (s *scanner) dollarBody() {
	s.meaningful = true
	tag := s.dollarTag()
	s.buf.WriteString(tag)
	s.pos += len(tag)

	closing := strings.Index(s.src[s.pos:], tag)
	if closing < 0 {
		// unterminated body runs to end of input
		s.buf.WriteString(s.src[s.pos:])
		s.pos = len(s.src)
		return
	}
	s.buf.WriteString(s.src[s.pos : s.pos+closing+len(tag)])
	s.pos += closing + len(tag)
}

func (s *scanner) flush() {
	if s.meaningful {
		if stmt := strings.TrimSpace(s.buf.String()); stmt != "" {
			s.statements = append(s.statements, stmt)
		}
	}
	s.buf.Reset()
	s.meaningful = false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isTagChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
