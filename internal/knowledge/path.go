package knowledge

import (
	"slices"

	"github.com/HendryAvila/Nexus/internal/apperr"
	"github.com/HendryAvila/Nexus/internal/validation"
)

// FindPathParams are the inputs of FindPath. A nil MaxDepth means the
// graph's configured default.
type FindPathParams struct {
	Start    string `json:"start" validate:"notblank"`
	End      string `json:"end" validate:"notblank"`
	MaxDepth *int   `json:"max_depth" validate:"omitempty,gte=1"`
}

type hop struct {
	node string
	path []Link
}

// FindPath runs a breadth-first search over outgoing links, visiting each
// node's links in stored order, and returns the shortest path of at most
// MaxDepth links from Start to End. The result is empty, never nil, when
// no such path exists or when Start equals End.
func (g *Graph) FindPath(p FindPathParams) ([]Link, error) {
	if err := validation.Struct(g.validate, p); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	maxDepth := g.maxDepth
	if p.MaxDepth != nil {
		maxDepth = *p.MaxDepth
	}
	if _, ok := g.nodes[p.Start]; !ok {
		return nil, apperr.NotFound("start node %q not found", p.Start)
	}
	if _, ok := g.nodes[p.End]; !ok {
		return nil, apperr.NotFound("end node %q not found", p.End)
	}
	if p.Start == p.End {
		return []Link{}, nil
	}

	outgoing := make(map[string][]Link)
	for _, l := range g.links {
		outgoing[l.Source] = append(outgoing[l.Source], l)
	}

	visited := map[string]bool{p.Start: true}
	queue := []hop{{node: p.Start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path) >= maxDepth {
			continue
		}
		for _, l := range outgoing[cur.node] {
			if visited[l.Target] {
				continue
			}
			path := append(slices.Clone(cur.path), l)
			if l.Target == p.End {
				return cloneLinks(path), nil
			}
			visited[l.Target] = true
			queue = append(queue, hop{node: l.Target, path: path})
		}
	}
	return []Link{}, nil
}
