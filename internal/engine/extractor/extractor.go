// Package extractor scans normalized CSS for class tokens and composition
// references. It understands generic class-selector syntax, nested rules with
// parent concatenation, and composes declarations; it does not understand any
// dialect grammar beyond that.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
)

var _ ports.TokenExtractor = (*Extractor)(nil)

// Extractor implements ports.TokenExtractor. It is stateless and safe for
// concurrent use.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract scans the document and returns its local tokens and composition
// references in document order. Malformed input (unbalanced braces,
// unterminated comments or strings) fails with domain.ErrExtractionFailed.
func (e *Extractor) Extract(css string) (*domain.Extraction, error) {
	s := newScanner(css)
	ext := &domain.Extraction{}
	if err := s.parseBlock(ext, nil, 0); err != nil {
		return nil, errors.Join(domain.ErrExtractionFailed, err)
	}
	return ext, nil
}

// groupingAtRules are at-rules whose block contains regular rules; the
// scanner descends into them with the enclosing parent context. Every other
// block at-rule (keyframes, font-face, ...) is skipped opaquely.
var groupingAtRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
	"layer":     true,
	"scope":     true,
	"document":  true,
}

type position struct {
	idx  int
	line int
	col  int
}

func (p position) pos() domain.Position {
	return domain.Position{Line: p.line, Column: p.col}
}

type scanner struct {
	src []rune
	cur position
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src), cur: position{idx: 0, line: 1, col: 1}}
}

func (s *scanner) eof() bool {
	return s.cur.idx >= len(s.src)
}

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}
	return s.src[s.cur.idx]
}

func (s *scanner) peekAt(off int) rune {
	if s.cur.idx+off >= len(s.src) {
		return 0
	}
	return s.src[s.cur.idx+off]
}

func (s *scanner) advance() rune {
	r := s.src[s.cur.idx]
	s.cur.idx++
	if r == '\n' {
		s.cur.line++
		s.cur.col = 1
	} else {
		s.cur.col++
	}
	return r
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", s.cur.pos(), fmt.Sprintf(format, args...))
}

// skipSpace consumes whitespace and comments.
func (s *scanner) skipSpace() error {
	for !s.eof() {
		switch r := s.peek(); {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f':
			s.advance()
		case r == '/' && s.peekAt(1) == '*':
			if err := s.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipComment consumes a comment; the scanner must be positioned at "/*".
func (s *scanner) skipComment() error {
	s.advance() // '/'
	s.advance() // '*'
	for !s.eof() {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			return nil
		}
		s.advance()
	}
	return s.errorf("unterminated comment")
}

// readString consumes a quoted string and returns it verbatim, quotes
// included. The scanner must be positioned at the opening quote.
func (s *scanner) readString() (string, error) {
	quote := s.advance()
	var b strings.Builder
	b.WriteRune(quote)
	for !s.eof() {
		r := s.advance()
		b.WriteRune(r)
		switch r {
		case '\\':
			if !s.eof() {
				b.WriteRune(s.advance())
			}
		case quote:
			return b.String(), nil
		case '\n':
			return "", s.errorf("unterminated string")
		}
	}
	return "", s.errorf("unterminated string")
}

func isIdentChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	case r >= 0x80:
		return true
	default:
		return false
	}
}

// readIdent consumes an identifier, handling backslash escapes.
func (s *scanner) readIdent() string {
	var b strings.Builder
	for !s.eof() {
		r := s.peek()
		switch {
		case r == '\\':
			s.advance()
			if !s.eof() {
				b.WriteRune(s.advance())
			}
		case isIdentChar(r):
			b.WriteRune(s.advance())
		default:
			return b.String()
		}
	}
	return b.String()
}

// parseBlock parses the contents of a rule block (or, at depth 0, the whole
// stylesheet). parents holds the token names defined by the enclosing rule's
// selector; they are the recipients of composes declarations found at this
// level and the expansion base of `&suffix` selectors one level down.
func (s *scanner) parseBlock(ext *domain.Extraction, parents []string, depth int) error {
	for {
		if err := s.skipSpace(); err != nil {
			return err
		}
		if s.eof() {
			if depth > 0 {
				return s.errorf("unexpected end of input inside block")
			}
			return nil
		}
		switch r := s.peek(); {
		case r == '}':
			s.advance()
			if depth == 0 {
				return s.errorf("unbalanced '}'")
			}
			return nil
		case r == ';':
			s.advance()
		case r == '@':
			if err := s.parseAtRule(ext, parents, depth); err != nil {
				return err
			}
		default:
			if err := s.parseComponent(ext, parents, depth); err != nil {
				return err
			}
		}
	}
}

// parseAtRule consumes an at-rule. Statement at-rules end at ';'. Grouping
// at-rules descend with the same parent context; all other block at-rules are
// skipped without extracting anything.
func (s *scanner) parseAtRule(ext *domain.Extraction, parents []string, depth int) error {
	s.advance() // '@'
	name := strings.ToLower(s.readIdent())

	for !s.eof() {
		switch r := s.peek(); {
		case r == ';':
			s.advance()
			return nil
		case r == '{':
			s.advance()
			if groupingAtRules[name] {
				return s.parseBlock(ext, parents, depth+1)
			}
			return s.skipBalancedBlock()
		case r == '}':
			// Prelude terminated by the enclosing block: treat as a
			// statement at-rule and let the caller consume the brace.
			return nil
		case r == '\'' || r == '"':
			if _, err := s.readString(); err != nil {
				return err
			}
		case r == '/' && s.peekAt(1) == '*':
			if err := s.skipComment(); err != nil {
				return err
			}
		default:
			s.advance()
		}
	}
	return nil
}

// skipBalancedBlock consumes everything up to and including the '}' matching
// an already-consumed '{'.
func (s *scanner) skipBalancedBlock() error {
	level := 1
	for !s.eof() {
		switch r := s.peek(); {
		case r == '{':
			s.advance()
			level++
		case r == '}':
			s.advance()
			level--
			if level == 0 {
				return nil
			}
		case r == '\'' || r == '"':
			if _, err := s.readString(); err != nil {
				return err
			}
		case r == '/' && s.peekAt(1) == '*':
			if err := s.skipComment(); err != nil {
				return err
			}
		default:
			s.advance()
		}
	}
	return s.errorf("unexpected end of input inside block")
}

// preludeResult is the outcome of scanning up to the first top-level '{',
// ';' or '}': either a rule (selector tokens collected) or a declaration
// (raw text collected for composes parsing).
type preludeResult struct {
	terminator rune
	raw        string
	tokens     []domain.RawToken
}

// parseComponent parses either a rule (selector + block) or a declaration.
// Which of the two it is only becomes known at the terminating rune, so the
// prelude scan collects both interpretations at once.
func (s *scanner) parseComponent(ext *domain.Extraction, parents []string, depth int) error {
	pr, err := s.scanPrelude(parents)
	if err != nil {
		return err
	}

	switch pr.terminator {
	case '{':
		s.advance()
		ext.Tokens = append(ext.Tokens, pr.tokens...)
		names := definedNames(pr.tokens)
		if len(names) == 0 {
			// Selector defines no tokens (`div`, bare `&`): nested
			// `&suffix` rules keep expanding the outer context.
			names = parents
		}
		return s.parseBlock(ext, names, depth+1)
	case ';':
		s.advance()
		s.parseDeclaration(ext, pr.raw, parents)
		return nil
	default:
		// '}' or EOF: a trailing declaration without ';'. The caller
		// handles the terminator.
		s.parseDeclaration(ext, pr.raw, parents)
		return nil
	}
}

// scanPrelude consumes up to (not including) the first top-level '{', ';',
// '}' or EOF, collecting raw text and any class tokens the text would define
// as a selector.
func (s *scanner) scanPrelude(parents []string) (*preludeResult, error) {
	pr := &preludeResult{}
	var raw strings.Builder

	parenDepth := 0
	globalParen := -1 // paren depth at which a :global(...) group opened
	bareGlobal := false

	inGlobal := func() bool {
		return bareGlobal || (globalParen >= 0 && parenDepth >= globalParen)
	}

	for !s.eof() {
		r := s.peek()
		switch {
		case r == '{' || r == ';' || (r == '}' && parenDepth == 0):
			pr.terminator = r
			pr.raw = raw.String()
			return pr, nil
		case r == '/' && s.peekAt(1) == '*':
			if err := s.skipComment(); err != nil {
				return nil, err
			}
			raw.WriteByte(' ')
		case r == '\'' || r == '"':
			str, err := s.readString()
			if err != nil {
				return nil, err
			}
			raw.WriteString(str)
		case r == '(':
			s.advance()
			parenDepth++
			raw.WriteRune(r)
		case r == ')':
			s.advance()
			if globalParen >= 0 && parenDepth == globalParen {
				globalParen = -1
			}
			if parenDepth > 0 {
				parenDepth--
			}
			raw.WriteRune(r)
		case r == ',':
			s.advance()
			if parenDepth == 0 {
				bareGlobal = false
			}
			raw.WriteRune(r)
		case r == ':':
			s.advance()
			raw.WriteRune(r)
			word := s.readIdent()
			raw.WriteString(word)
			switch strings.ToLower(word) {
			case "global":
				if s.peek() == '(' {
					s.advance()
					parenDepth++
					globalParen = parenDepth
					raw.WriteRune('(')
				} else {
					bareGlobal = true
				}
			case "local":
				if s.peek() != '(' {
					bareGlobal = false
				}
			}
		case r == '.':
			start := s.cur
			s.advance()
			name := s.readIdent()
			raw.WriteRune('.')
			raw.WriteString(name)
			if name != "" && !inGlobal() {
				pr.tokens = append(pr.tokens, domain.RawToken{
					Name:  name,
					Start: start.pos(),
					End:   s.cur.pos(),
				})
			}
		case r == '&':
			start := s.cur
			s.advance()
			raw.WriteRune('&')
			if !isIdentChar(s.peek()) && s.peek() != '\\' {
				continue
			}
			suffix := s.readIdent()
			raw.WriteString(suffix)
			if suffix == "" || inGlobal() {
				continue
			}
			for _, parent := range parents {
				pr.tokens = append(pr.tokens, domain.RawToken{
					Name:  parent + suffix,
					Start: start.pos(),
					End:   s.cur.pos(),
				})
			}
		default:
			s.advance()
			raw.WriteRune(r)
		}
	}

	pr.terminator = 0
	pr.raw = raw.String()
	return pr, nil
}

// definedNames returns the token names a selector defines, in order, deduped.
func definedNames(tokens []domain.RawToken) []string {
	seen := make(map[string]bool, len(tokens))
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t.Name] {
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	return names
}

// parseDeclaration inspects a declaration for composition syntax. Every
// other declaration is ignored. recipients are the tokens defined by the
// enclosing rule's selector; a composes declaration outside a class rule has
// no recipient and is dropped.
func (s *scanner) parseDeclaration(ext *domain.Extraction, raw string, recipients []string) {
	colon := strings.IndexByte(raw, ':')
	if colon < 0 || len(recipients) == 0 {
		return
	}
	prop := strings.ToLower(strings.TrimSpace(raw[:colon]))
	if prop != "composes" && prop != "compose-with" {
		return
	}

	names, specifier, ok := parseComposesValue(raw[colon+1:])
	if !ok || len(names) == 0 {
		return
	}
	for _, recipient := range recipients {
		ext.Composes = append(ext.Composes, domain.ComposesReference{
			Recipient:  recipient,
			TokenNames: names,
			Specifier:  specifier,
		})
	}
}

// parseComposesValue splits a composes value into the composed names and an
// optional from-clause specifier. `from global` references and malformed
// from clauses are dropped (ok=false) for compatibility with upstream
// CSS-modules tooling.
func parseComposesValue(value string) (names []string, specifier string, ok bool) {
	fields := splitValueFields(value)
	from := -1
	for i, f := range fields {
		if f == "from" {
			from = i
		}
	}
	if from < 0 {
		return fields, "", true
	}
	if from != len(fields)-2 {
		return nil, "", false
	}
	names = fields[:from]
	target := fields[from+1]
	switch {
	case target == "global":
		return nil, "", false
	case len(target) >= 2 && (target[0] == '\'' || target[0] == '"'):
		return names, target[1 : len(target)-1], true
	default:
		return nil, "", false
	}
}

// splitValueFields splits a declaration value on whitespace, keeping quoted
// strings (with their quotes) as single fields.
func splitValueFields(value string) []string {
	var fields []string
	var b strings.Builder
	var quote byte

	flush := func() {
		if b.Len() > 0 {
			fields = append(fields, b.String())
			b.Reset()
		}
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			flush()
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return fields
}
