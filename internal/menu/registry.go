package menu

import "sort"

// Node represents a command definition within the registry.
type Node struct {
	ID     CommandID
	Action Action
}

// Registry exposes lookup utilities for command handlers.
type Registry struct {
	nodes map[CommandID]*Node
}

// BuildRegistry constructs the registry from a handler map. Nil handlers are
// kept as nodes so lookups can tell "known but unhandled" from "unknown".
func BuildRegistry(handlers map[CommandID]Action) *Registry {
	nodes := make(map[CommandID]*Node, len(handlers))
	for id, action := range handlers {
		nodes[id] = &Node{ID: id, Action: action}
	}
	return &Registry{nodes: nodes}
}

// Find locates a node by ID.
func (r *Registry) Find(id CommandID) (*Node, bool) {
	if r == nil {
		return nil, false
	}
	node, ok := r.nodes[id]
	return node, ok
}

// IDs lists registered command IDs in lexical order.
func (r *Registry) IDs() []CommandID {
	ids := make([]CommandID, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
