package notation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
)

// Tag kinds recovered from inline {...} blocks.
const (
	TagKindControl = "control"
	TagKindRecycle = "recycle"
	TagKindGeneral = "general"
)

var (
	// unitTokenRe matches one unit token in the arrow grammar: a name with an
	// optional bracketed type, followed by any number of inline tag blocks.
	unitTokenRe = regexp.MustCompile(`^\s*([A-Za-z0-9][\w.\-]*)(?:\[([\w\-]*)\])?\s*((?:\{[^{}]*\}\s*)*)$`)
	// tagBlockRe extracts the contents of inline {...} blocks.
	tagBlockRe = regexp.MustCompile(`\{([^{}]*)\}`)
	// controlTagRe recognizes instrument-style tag values such as FC-101.
	controlTagRe = regexp.MustCompile(`^[A-Z]{1,4}-\d+$`)
	// numericTagRe recognizes bare recycle markers.
	numericTagRe = regexp.MustCompile(`^\d+$`)
)

// Parser converts notation text into the intermediate model. The zero value
// handles the arrow grammar only; supply a GrammarAParser to accept the
// parenthesized grammar as well.
type Parser struct {
	grammarA GrammarAParser
}

// NewParser returns a parser. grammarA may be nil when only the arrow
// grammar needs to be accepted.
func NewParser(grammarA GrammarAParser) *Parser {
	return &Parser{grammarA: grammarA}
}

// Parse converts text to an intermediate model, dispatching on grammar
// surface. A result with zero units and streams is a NotationEmptyError.
func (p *Parser) Parse(ctx context.Context, text string) (*model.IntermediateModel, error) {
	logger := ctxlog.FromContext(ctx)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &NotationEmptyError{Reason: "input is empty"}
	}

	var (
		m   *model.IntermediateModel
		err error
	)
	if strings.Contains(trimmed, "(") && p.grammarA != nil {
		logger.Debug("parsing with parenthesized grammar")
		m, err = p.parseGrammarA(ctx, trimmed)
	} else {
		logger.Debug("parsing with arrow grammar")
		m, err = parseArrowGrammar(trimmed)
	}
	if err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, &NotationEmptyError{Reason: "no supported grammar matched the input"}
	}

	if m.Kind == "" || m.Kind == model.KindDetailed {
		m.Kind = inferKind(m)
	}
	logger.Debug("notation parsed", "units", len(m.Units), "streams", len(m.Streams), "kind", m.Kind)
	return m, nil
}

// unitToken is one parsed unit occurrence plus the tag blocks trailing it.
type unitToken struct {
	name string
	typ  string
	tags []string
}

// parseArrowGrammar parses the `name[type]->name[type]` grammar. Each line
// is an independent chain; inline {...} blocks between consecutive units
// attach to the stream they sit on.
func parseArrowGrammar(text string) (*model.IntermediateModel, error) {
	m := model.NewIntermediateModel()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		segments := strings.Split(line, "->")
		tokens := make([]*unitToken, 0, len(segments))
		for _, seg := range segments {
			tok, ok := parseUnitToken(seg)
			if !ok {
				return nil, &NotationEmptyError{Reason: fmt.Sprintf("unparseable unit token %q", strings.TrimSpace(seg))}
			}
			tokens = append(tokens, tok)
		}

		for _, tok := range tokens {
			addOrMergeUnit(m, tok)
		}
		for i := 0; i+1 < len(tokens); i++ {
			s := model.NewStream(tokens[i].name, tokens[i+1].name)
			collectTags(s, tokens[i].tags)
			m.AddStream(s)
		}
	}

	return m, nil
}

// parseUnitToken parses one arrow-delimited segment.
func parseUnitToken(seg string) (*unitToken, bool) {
	match := unitTokenRe.FindStringSubmatch(seg)
	if match == nil {
		return nil, false
	}
	tok := &unitToken{name: match[1], typ: match[2]}
	for _, tag := range tagBlockRe.FindAllStringSubmatch(match[3], -1) {
		tok.tags = append(tok.tags, strings.TrimSpace(tag[1]))
	}
	return tok, true
}

// addOrMergeUnit registers a unit occurrence. A repeated name refers to the
// same unit; a later occurrence may fill in a missing type but never
// redefines one.
func addOrMergeUnit(m *model.IntermediateModel, tok *unitToken) {
	if existing := m.UnitByName(tok.name); existing != nil {
		if existing.Type == "" && tok.typ != "" {
			existing.Type = tok.typ
		}
		return
	}
	// AddUnit cannot fail here: UnitByName was just consulted.
	_ = m.AddUnit(model.NewUnit(tok.name, tok.typ))
}

// collectTags classifies inline tag values by kind and attaches them to a
// stream. Multiple values of one kind concatenate in order.
func collectTags(s *model.Stream, tags []string) {
	for _, v := range tags {
		if v == "" {
			continue
		}
		kind := TagKindGeneral
		switch {
		case controlTagRe.MatchString(v):
			kind = TagKindControl
		case numericTagRe.MatchString(v):
			kind = TagKindRecycle
		}
		if prev, ok := s.Tags[kind]; ok {
			s.Tags[kind] = prev + "," + v
		} else {
			s.Tags[kind] = v
		}
	}
}
