package notation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/puran-water/flownote/internal/model"
)

// Notation versions accepted by NotationOf.
const (
	// VersionParen is the parenthesized unit grammar surface.
	VersionParen = 1
	// VersionArrow is the bracketed `name[type]->name[type]` grammar surface.
	VersionArrow = 2
)

// NotationOf serializes an intermediate model back to notation text.
//
// In canonical mode units and streams are sorted lexicographically first,
// so logically identical models always serialize byte-identically. Assembly
// greedily walks from a unit with no incoming connection, following one
// outgoing connection at a time; leftover streams start new chains and
// unvisited units are appended standalone. For branching or recycling
// topologies the first matching outgoing stream wins.
func NotationOf(m *model.IntermediateModel, canonical bool, version int) (string, error) {
	if version != VersionParen && version != VersionArrow {
		return "", fmt.Errorf("unsupported notation version %d", version)
	}

	units := make([]*model.Unit, len(m.Units))
	copy(units, m.Units)
	streams := make([]*model.Stream, len(m.Streams))
	copy(streams, m.Streams)

	if canonical {
		sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
		sort.Slice(streams, func(i, j int) bool {
			if streams[i].From != streams[j].From {
				return streams[i].From < streams[j].From
			}
			if streams[i].To != streams[j].To {
				return streams[i].To < streams[j].To
			}
			return streams[i].Name < streams[j].Name
		})
	}

	incoming := make(map[string]int)
	outgoing := make(map[string][]*model.Stream)
	for _, s := range streams {
		incoming[s.To]++
		outgoing[s.From] = append(outgoing[s.From], s)
	}

	used := make(map[*model.Stream]bool)
	visited := make(map[string]bool)
	var lines []string

	walk := func(start *model.Unit) {
		var sb strings.Builder
		sb.WriteString(renderUnit(start, m, version))
		visited[start.Name] = true
		cur := start.Name
		for {
			next := firstUnused(outgoing[cur], used)
			if next == nil {
				break
			}
			used[next] = true
			sb.WriteString(renderTags(next, version))
			if version == VersionArrow {
				sb.WriteString("->")
			}
			to := m.UnitByName(next.To)
			if to == nil {
				to = model.NewUnit(next.To, "")
			}
			sb.WriteString(renderUnit(to, m, version))
			visited[next.To] = true
			cur = next.To
		}
		lines = append(lines, sb.String())
	}

	// Chains from source units first.
	for _, u := range units {
		if incoming[u.Name] == 0 && len(outgoing[u.Name]) > 0 {
			walk(u)
		}
	}
	// Leftover streams (cycles, extra branches) start their own chains.
	for _, s := range streams {
		if !used[s] {
			from := m.UnitByName(s.From)
			if from == nil {
				from = model.NewUnit(s.From, "")
			}
			walk(from)
		}
	}
	// Unconnected units render standalone.
	for _, u := range units {
		if !visited[u.Name] {
			lines = append(lines, renderUnit(u, m, version))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// firstUnused returns the first stream in order that has not been emitted.
func firstUnused(streams []*model.Stream, used map[*model.Stream]bool) *model.Stream {
	for _, s := range streams {
		if !used[s] {
			return s
		}
	}
	return nil
}

// renderUnit writes one unit token for the requested grammar surface.
func renderUnit(u *model.Unit, m *model.IntermediateModel, version int) string {
	if version == VersionParen {
		return "(" + u.Name + ")"
	}
	if u.Type == "" {
		return u.Name
	}
	return u.Name + "[" + u.Type + "]"
}

// renderTags writes a stream's inline tag blocks in a fixed kind order so
// canonical output stays deterministic.
func renderTags(s *model.Stream, version int) string {
	var sb strings.Builder
	for _, kind := range []string{TagKindControl, TagKindRecycle, TagKindGeneral} {
		v, ok := s.Tags[kind]
		if !ok {
			continue
		}
		for _, piece := range strings.Split(v, ",") {
			sb.WriteString("{" + piece + "}")
		}
	}
	return sb.String()
}
