package knowledge

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HendryAvila/Nexus/internal/apperr"
	"github.com/HendryAvila/Nexus/internal/validation"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Options configures a Graph.
type Options struct {
	// Clock stamps metadata. Defaults to time.Now.
	Clock func() time.Time
	// MaxPathDepth is the FindPath bound used when the caller passes none.
	MaxPathDepth int
	Logger       *zap.Logger
	Observer     Observer
}

// Graph is the in-memory knowledge graph with write-through persistence.
//
// Every mutator validates first, then changes memory, then saves the full
// graph before returning, all under one mutex. If the save fails the
// in-memory change stays and the caller gets an Internal error.
type Graph struct {
	mu       sync.Mutex
	nodes    map[string]*Node
	order    []string
	links    []Link
	store    Persister
	now      func() time.Time
	maxDepth int
	validate *validator.Validate
	log      *zap.Logger
	observer Observer
}

// Open loads the graph from store and returns it ready for use.
func Open(store Persister, opts Options) (*Graph, error) {
	if store == nil {
		return nil, fmt.Errorf("knowledge: nil persister")
	}
	if opts.Clock == nil {
		opts.Clock = timeNow
	}
	if opts.MaxPathDepth <= 0 {
		opts.MaxPathDepth = DefaultMaxPathDepth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("knowledge: load graph: %w", err)
	}

	g := &Graph{
		nodes:    make(map[string]*Node, len(snap.Nodes)),
		store:    store,
		now:      opts.Clock,
		maxDepth: opts.MaxPathDepth,
		validate: validation.New(),
		log:      opts.Logger.Named("knowledge"),
		observer: opts.Observer,
	}
	snap = snap.normalize()
	for i := range snap.Nodes {
		n := snap.Nodes[i]
		if _, dup := g.nodes[n.ID]; !dup {
			g.order = append(g.order, n.ID)
		}
		g.nodes[n.ID] = &n
	}
	g.links = snap.Links

	g.log.Debug("graph loaded", zap.Int("nodes", len(g.order)), zap.Int("links", len(g.links)))
	return g, nil
}

// MaxPathDepth returns the default FindPath bound.
func (g *Graph) MaxPathDepth() int {
	return g.maxDepth
}

// ─── Mutators ────────────────────────────────────────────────────────────────

type createEntitiesParams struct {
	Entities []EntityInput `json:"entities" validate:"required,min=1,dive"`
}

// CreateEntities upserts nodes by name. An existing node keeps its position
// and metadata but has its type and insights replaced.
func (g *Graph) CreateEntities(entities []EntityInput) ([]Node, error) {
	if err := validation.Struct(g.validate, createEntitiesParams{Entities: entities}); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.stamp()
	out := make([]Node, 0, len(entities))
	for _, e := range entities {
		n, exists := g.nodes[e.Name]
		if !exists {
			n = &Node{
				ID: e.Name,
				Metadata: &NodeMetadata{
					Created:    ts,
					Importance: DefaultImportance,
					Confidence: DefaultConfidence,
				},
			}
			g.nodes[e.Name] = n
			g.order = append(g.order, e.Name)
		} else if n.Metadata == nil {
			n.Metadata = &NodeMetadata{Created: ts, Importance: DefaultImportance, Confidence: DefaultConfidence}
		}
		n.Type = e.NodeType
		n.Insights = cloneInsights(e.Insights)
		n.Metadata.LastModified = ts
		out = append(out, n.clone())
	}

	if err := g.persist("create_entities"); err != nil {
		return nil, err
	}
	return out, nil
}

type createRelationsParams struct {
	Relations []RelationInput `json:"relations" validate:"required,min=1,dive"`
}

// CreateRelations adds links in one all-or-nothing batch. A missing
// endpoint fails with NotFound and a link that already exists, or repeats
// inside the batch, fails with Conflict. Nothing is added in either case.
func (g *Graph) CreateRelations(relations []RelationInput) ([]Link, error) {
	if err := validation.Struct(g.validate, createRelationsParams{Relations: relations}); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	existing := make(map[linkKey]bool, len(g.links)+len(relations))
	for _, l := range g.links {
		existing[linkKey{l.Source, l.Type, l.Target}] = true
	}

	ts := g.stamp()
	added := make([]Link, 0, len(relations))
	for _, r := range relations {
		if _, ok := g.nodes[r.From]; !ok {
			return nil, apperr.NotFound("source node %q not found", r.From)
		}
		if _, ok := g.nodes[r.To]; !ok {
			return nil, apperr.NotFound("target node %q not found", r.To)
		}
		key := linkKey{r.From, r.LinkType, r.To}
		id := LinkID(r.From, r.LinkType, r.To)
		if existing[key] {
			return nil, apperr.Conflict("link %q already exists", id)
		}
		existing[key] = true
		added = append(added, Link{
			ID:     id,
			Source: r.From,
			Target: r.To,
			Type:   r.LinkType,
			Metadata: &LinkMetadata{
				Created:      ts,
				LastModified: ts,
				Strength:     DefaultStrength,
				Confidence:   DefaultConfidence,
			},
		})
	}

	g.links = append(g.links, added...)
	if err := g.persist("create_relations"); err != nil {
		return nil, err
	}
	return cloneLinks(added), nil
}

// AddInsight appends one insight to a node.
func (g *Graph) AddInsight(nodeID, insight string) (Node, error) {
	if err := requireID("node_id", nodeID); err != nil {
		return Node{}, err
	}
	if strings.TrimSpace(insight) == "" {
		return Node{}, apperr.InvalidArgument("'insight' is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.node(nodeID)
	if err != nil {
		return Node{}, err
	}
	n.Insights = append(n.Insights, insight)
	g.touch(n)

	if err := g.persist("add_insight"); err != nil {
		return Node{}, err
	}
	return n.clone(), nil
}

// UpdateNode amends a node's type, insights or metadata.
func (g *Graph) UpdateNode(nodeID string, u NodeUpdate) (Node, error) {
	if err := requireID("node_id", nodeID); err != nil {
		return Node{}, err
	}
	if err := validation.Struct(g.validate, u); err != nil {
		return Node{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.node(nodeID)
	if err != nil {
		return Node{}, err
	}
	if u.NodeType != nil {
		n.Type = *u.NodeType
	}
	if u.Insights != nil {
		n.Insights = cloneInsights(*u.Insights)
	}
	g.touch(n)
	if u.Importance != nil {
		n.Metadata.Importance = *u.Importance
	}
	if u.Confidence != nil {
		n.Metadata.Confidence = *u.Confidence
	}
	if u.Source != nil {
		n.Metadata.Source = *u.Source
	}

	if err := g.persist("update_node"); err != nil {
		return Node{}, err
	}
	return n.clone(), nil
}

// DeleteNode removes a node and every link touching it. It returns the
// number of links removed.
func (g *Graph) DeleteNode(nodeID string) (int, error) {
	if err := requireID("node_id", nodeID); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.node(nodeID); err != nil {
		return 0, err
	}
	delete(g.nodes, nodeID)
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return id == nodeID })

	before := len(g.links)
	g.links = slices.DeleteFunc(g.links, func(l Link) bool {
		return l.Source == nodeID || l.Target == nodeID
	})
	removed := before - len(g.links)

	if err := g.persist("delete_node"); err != nil {
		return removed, err
	}
	return removed, nil
}

// DeleteLink removes one link by id.
func (g *Graph) DeleteLink(linkID string) error {
	if err := requireID("link_id", linkID); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	i := slices.IndexFunc(g.links, func(l Link) bool { return l.ID == linkID })
	if i < 0 {
		return apperr.NotFound("link %q not found", linkID)
	}
	g.links = slices.Delete(g.links, i, i+1)

	return g.persist("delete_link")
}

// Clear removes every node and link. confirm must be true.
func (g *Graph) Clear(confirm bool) error {
	if !confirm {
		return apperr.InvalidArgument("'confirmation' must be true to clear the knowledge graph")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[string]*Node)
	g.order = nil
	g.links = nil

	return g.persist("clear")
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// SearchNodes returns nodes whose id or any insight contains query,
// ignoring case, in insertion order.
func (g *Graph) SearchNodes(query string) ([]Node, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.InvalidArgument("'query' is required")
	}
	needle := strings.ToLower(query)

	g.mu.Lock()
	defer g.mu.Unlock()

	out := []Node{}
	for _, id := range g.order {
		n := g.nodes[id]
		if matches(n, needle) {
			out = append(out, n.clone())
		}
	}
	return out, nil
}

func matches(n *Node, needle string) bool {
	if strings.Contains(strings.ToLower(n.ID), needle) {
		return true
	}
	for _, insight := range n.Insights {
		if strings.Contains(strings.ToLower(insight), needle) {
			return true
		}
	}
	return false
}

// GetNode returns one node.
func (g *Graph) GetNode(nodeID string) (Node, error) {
	if err := requireID("node_id", nodeID); err != nil {
		return Node{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.node(nodeID)
	if err != nil {
		return Node{}, err
	}
	return n.clone(), nil
}

// GetNodeConnections returns the links ending at and starting from a node.
func (g *Graph) GetNodeConnections(nodeID string) (Connections, error) {
	if err := requireID("node_id", nodeID); err != nil {
		return Connections{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.node(nodeID); err != nil {
		return Connections{}, err
	}
	c := Connections{Incoming: []Link{}, Outgoing: []Link{}}
	for _, l := range g.links {
		if l.Target == nodeID {
			c.Incoming = append(c.Incoming, l.clone())
		}
		if l.Source == nodeID {
			c.Outgoing = append(c.Outgoing, l.clone())
		}
	}
	return c, nil
}

// Snapshot returns a deep copy of the whole graph.
func (g *Graph) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// Stats returns node and link counts.
func (g *Graph) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{Nodes: len(g.order), Links: len(g.links)}
}

// linkKey identifies a relation independently of how its id is rendered.
type linkKey struct {
	source, typ, target string
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidArgument("'%s' is required", field)
	}
	return nil
}

// ─── Internals (caller holds g.mu) ───────────────────────────────────────────

func (g *Graph) node(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, apperr.NotFound("node %q not found", id)
	}
	return n, nil
}

func (g *Graph) stamp() int64 {
	return g.now().UnixMilli()
}

// touch bumps lastModified, creating metadata for nodes loaded without it.
func (g *Graph) touch(n *Node) {
	ts := g.stamp()
	if n.Metadata == nil {
		n.Metadata = &NodeMetadata{Created: ts, Importance: DefaultImportance, Confidence: DefaultConfidence}
	}
	n.Metadata.LastModified = ts
}

func (g *Graph) snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]Node, 0, len(g.order)),
		Links: cloneLinks(g.links),
	}
	for _, id := range g.order {
		s.Nodes = append(s.Nodes, g.nodes[id].clone())
	}
	return s
}

// persist writes the full graph. Failures are logged and surfaced as
// Internal; memory is not rolled back.
func (g *Graph) persist(op string) error {
	snap := g.snapshot()
	start := time.Now()
	err := g.store.Save(snap)
	elapsed := time.Since(start).Seconds()

	if g.observer != nil {
		g.observer.GraphSaved(Stats{Nodes: len(snap.Nodes), Links: len(snap.Links)}, elapsed, err)
	}
	if err != nil {
		g.log.Error("persist knowledge graph", zap.String("op", op), zap.Error(err))
		return apperr.Internal(err, "%s: change applied in memory but not persisted", op)
	}
	return nil
}
