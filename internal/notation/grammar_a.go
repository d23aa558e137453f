package notation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/puran-water/flownote/internal/graph"
	"github.com/puran-water/flownote/internal/model"
)

// GrammarAParser is the external native parser for the parenthesized
// grammar. It is treated as correct and is not reimplemented here; its
// output graph is converted to the intermediate model below.
type GrammarAParser interface {
	Parse(ctx context.Context, text string) (*graph.Graph, error)
}

// kindIndexRe splits node names of the form "kind-index" so the unit type
// can be recovered when the parser attached no explicit type attribute.
var kindIndexRe = regexp.MustCompile(`^(.+?)-(\d+)$`)

// parseGrammarA delegates to the native parser and converts its labeled
// graph into units and streams.
func (p *Parser) parseGrammarA(ctx context.Context, text string) (*model.IntermediateModel, error) {
	g, err := p.grammarA.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("native parser failed: %w", err)
	}
	return FromGraph(g)
}

// FromGraph converts a labeled graph into the intermediate model. Node
// attribute "type" wins; otherwise a "kind-index" name is split to recover
// the type and sequence index.
func FromGraph(g *graph.Graph) (*model.IntermediateModel, error) {
	m := model.NewIntermediateModel()

	for _, n := range g.Nodes() {
		u := model.NewUnit(n.ID, n.Attrs["type"])
		if u.Type == "" {
			if match := kindIndexRe.FindStringSubmatch(n.ID); match != nil {
				u.Type = match[1]
				// The regex guarantees a parseable integer.
				u.SeqIndex, _ = strconv.Atoi(match[2])
			}
		}
		for k, v := range n.Attrs {
			if k == "type" {
				continue
			}
			u.Params[k] = model.ParseScalar(v)
		}
		if err := m.AddUnit(u); err != nil {
			return nil, err
		}
	}

	for _, e := range g.Edges() {
		s := model.NewStream(e.From, e.To)
		for k, v := range e.Attrs {
			switch k {
			case "name":
				s.Name = v
			case TagKindControl, TagKindRecycle, TagKindGeneral:
				s.Tags[k] = v
			default:
				s.Props[k] = model.ParseScalar(v)
			}
		}
		m.AddStream(s)
	}

	return m, nil
}
