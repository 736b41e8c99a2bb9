package almanac

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	seedsPrefix = "seeds:"
	headerSep   = "-to-"
	headerTail  = " map:"
)

// ParseString is Parse over an in-memory almanac.
func ParseString(input string) (*Almanac, error) {
	return Parse(strings.NewReader(input))
}

// Parse reads an almanac: a seed line, a blank line, then one or more map
// blocks separated by blank lines. Any deviation is reported as a
// *SyntaxError and no partial almanac is returned.
func Parse(r io.Reader) (*Almanac, error) {
	p := &parser{scanner: bufio.NewScanner(r)}
	// The seed line has no length limit.
	p.scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	almanac, err := p.parse()
	if err != nil {
		return nil, err
	}
	if err := almanac.Validate(); err != nil {
		return nil, err
	}
	return almanac, nil
}

type parser struct {
	scanner *bufio.Scanner
	line    int
	text    string
	eof     bool
}

func (p *parser) next() error {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return fmt.Errorf("reading almanac: %w", err)
		}
		p.eof = true
		p.text = ""
		return nil
	}
	p.line++
	p.text = strings.TrimSuffix(p.scanner.Text(), "\r")
	return nil
}

func (p *parser) fail(reason string) error {
	if p.eof {
		return &SyntaxError{Reason: reason + " at end of input"}
	}
	return &SyntaxError{Line: p.line, Text: p.text, Reason: reason}
}

func (p *parser) blank() bool {
	return !p.eof && strings.TrimSpace(p.text) == ""
}

func (p *parser) parse() (*Almanac, error) {
	almanac := &Almanac{}

	if err := p.next(); err != nil {
		return nil, err
	}
	if p.eof || !strings.HasPrefix(p.text, seedsPrefix) {
		return nil, p.fail("missing seed line")
	}
	rest := strings.TrimPrefix(p.text, seedsPrefix)
	if rest != "" && rest[0] != ' ' {
		return nil, p.fail("expected space after \"seeds:\"")
	}
	seeds, err := parseNumbers(rest)
	if err != nil {
		return nil, p.fail(err.Error())
	}
	almanac.Seeds = seeds

	if err := p.next(); err != nil {
		return nil, err
	}
	if !p.blank() {
		return nil, p.fail("expected blank line after seeds")
	}

	// Skip to the first header.
	for p.blank() {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if p.eof {
		return nil, p.fail("missing map block")
	}

	for !p.eof {
		m, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		almanac.Maps = append(almanac.Maps, m)

		// parseBlock stops on a blank line or EOF; swallow the separator run.
		for p.blank() {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	return almanac, nil
}

// parseBlock consumes a header and its rule lines. On return p.text holds the
// first line after the block.
func (p *parser) parseBlock() (Map, error) {
	from, to, ok := parseHeader(p.text)
	if !ok {
		return Map{}, p.fail("expected \"<from>-to-<to> map:\" header")
	}
	m := Map{From: from, To: to}
	headerLine, headerText := p.line, p.text

	for {
		if err := p.next(); err != nil {
			return Map{}, err
		}
		if p.eof || p.blank() {
			break
		}
		if _, _, ok := parseHeader(p.text); ok {
			return Map{}, p.fail("expected blank line before map header")
		}
		r, err := parseRule(p.text)
		if err != nil {
			return Map{}, p.fail(err.Error())
		}
		m.Rules = append(m.Rules, r)
	}

	if len(m.Rules) == 0 {
		return Map{}, &SyntaxError{Line: headerLine, Text: headerText, Reason: "map has no rules"}
	}
	return m, nil
}

func parseHeader(line string) (from, to string, ok bool) {
	name, found := strings.CutSuffix(line, headerTail)
	if !found {
		return "", "", false
	}
	from, to, found = strings.Cut(name, headerSep)
	if !found || !isWord(from) || !isWord(to) {
		return "", "", false
	}
	return from, to, true
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func parseRule(line string) (Rule, error) {
	if line != "" && isSpace(rune(line[0])) {
		return Rule{}, errors.New("unexpected leading whitespace in rule")
	}
	fields := splitFields(line)
	if len(fields) != 3 {
		return Rule{}, fmt.Errorf("expected 3 numbers in rule, got %d", len(fields))
	}
	var nums [3]uint64
	for i, f := range fields {
		n, err := parseNumber(f)
		if err != nil {
			return Rule{}, err
		}
		nums[i] = n
	}
	if nums[2] == 0 {
		return Rule{}, errors.New("rule length must be positive")
	}
	return Rule{Destination: nums[0], Source: nums[1], Length: nums[2]}, nil
}

func parseNumbers(s string) ([]uint64, error) {
	fields := splitFields(s)
	nums := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := parseNumber(f)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// splitFields splits on runs of spaces and tabs only.
func splitFields(s string) []string {
	return strings.FieldsFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func parseNumber(s string) (uint64, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q does not fit in 64 bits", s)
	}
	return n, nil
}
