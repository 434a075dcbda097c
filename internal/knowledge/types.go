// Package knowledge implements the long-lived knowledge graph: named
// entities with free-form insights, typed directed links between them, and
// write-through persistence of the whole graph after every mutation.
package knowledge

import (
	"slices"
	"strings"
)

// Default metadata values for entities and links that do not supply them.
const (
	DefaultImportance = 0.5
	DefaultConfidence = 1.0
	DefaultStrength   = 1.0
)

// DefaultMaxPathDepth bounds FindPath when the caller gives no depth.
const DefaultMaxPathDepth = 5

// ─── Types ───────────────────────────────────────────────────────────────────

// NodeMetadata holds bookkeeping for a node. Timestamps are unix millis.
type NodeMetadata struct {
	Created      int64   `json:"created" yaml:"created"`
	LastModified int64   `json:"lastModified" yaml:"lastModified"`
	Importance   float64 `json:"importance" yaml:"importance"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	Source       string  `json:"source,omitempty" yaml:"source,omitempty"`
}

// Node is an entity. ID is the caller-chosen name and never changes.
type Node struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type" yaml:"type"`
	Insights []string      `json:"insights" yaml:"insights"`
	Metadata *NodeMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LinkMetadata holds bookkeeping for a link. Timestamps are unix millis.
type LinkMetadata struct {
	Created      int64   `json:"created" yaml:"created"`
	LastModified int64   `json:"lastModified" yaml:"lastModified"`
	Strength     float64 `json:"strength" yaml:"strength"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
}

// Link is a directed, typed edge. ID is derived from source, type and target.
type Link struct {
	ID       string        `json:"id" yaml:"id"`
	Source   string        `json:"source" yaml:"source"`
	Target   string        `json:"target" yaml:"target"`
	Type     string        `json:"type" yaml:"type"`
	Metadata *LinkMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LinkID derives the identifier of the link source --typ--> target. Parts
// are joined with "-"; a "-" or backslash inside a part is escaped with a
// backslash so distinct relations never share an id.
func LinkID(source, typ, target string) string {
	return linkIDEscaper.Replace(source) + "-" + linkIDEscaper.Replace(typ) + "-" + linkIDEscaper.Replace(target)
}

var linkIDEscaper = strings.NewReplacer(`\`, `\\`, "-", `\-`)

// Snapshot is the full persisted state: nodes and links in insertion order.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// Connections lists the links touching one node.
type Connections struct {
	Incoming []Link `json:"incoming"`
	Outgoing []Link `json:"outgoing"`
}

// Stats holds node and link counts.
type Stats struct {
	Nodes int `json:"nodes"`
	Links int `json:"links"`
}

// ─── Inputs ──────────────────────────────────────────────────────────────────

// EntityInput describes one entity to upsert.
type EntityInput struct {
	Name     string   `json:"name" validate:"notblank"`
	NodeType string   `json:"nodeType" validate:"notblank"`
	Insights []string `json:"insights"`
}

// RelationInput describes one link to create.
type RelationInput struct {
	From     string `json:"from" validate:"notblank"`
	To       string `json:"to" validate:"notblank"`
	LinkType string `json:"linkType" validate:"notblank"`
}

// NodeUpdate amends a node. Nil fields are left untouched; the id is fixed.
type NodeUpdate struct {
	NodeType   *string   `json:"nodeType" validate:"omitempty,notblank"`
	Insights   *[]string `json:"insights"`
	Importance *float64  `json:"importance" validate:"omitempty,gte=0,lte=1"`
	Confidence *float64  `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Source     *string   `json:"source"`
}

// ─── Copy helpers ────────────────────────────────────────────────────────────

func (n Node) clone() Node {
	c := n
	c.Insights = cloneInsights(n.Insights)
	if n.Metadata != nil {
		m := *n.Metadata
		c.Metadata = &m
	}
	return c
}

func (l Link) clone() Link {
	c := l
	if l.Metadata != nil {
		m := *l.Metadata
		c.Metadata = &m
	}
	return c
}

// cloneInsights copies in and never returns nil, so an empty insight list
// survives persistence unchanged.
func cloneInsights(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func cloneLinks(in []Link) []Link {
	out := make([]Link, len(in))
	for i, l := range in {
		out[i] = l.clone()
	}
	return out
}

// normalize returns a copy with non-nil slices throughout.
func (s Snapshot) normalize() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Links: cloneLinks(s.Links),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.clone()
	}
	return out
}
