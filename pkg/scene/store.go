package scene

// Store holds the active node list, link list and id lookup.
//
// A Store is not safe for concurrent use; the engine guards it with its own
// lock.
type Store struct {
	nodes []*Node
	links []*Link
	byID  map[string]*Node
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Node)}
}

// SetNodes replaces the node list and rebuilds the lookup.
// For duplicate ids the last node wins; the duplicated ids are returned in
// first-seen order.
func (s *Store) SetNodes(nodes []*Node) (duplicates []string) {
	s.nodes = nodes
	s.byID = make(map[string]*Node, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, ok := s.byID[n.ID]; ok && !seen[n.ID] {
			duplicates = append(duplicates, n.ID)
			seen[n.ID] = true
		}
		s.byID[n.ID] = n
	}
	return duplicates
}

// SetLinks replaces the link list.
func (s *Store) SetLinks(links []*Link) {
	s.links = links
}

// Nodes returns the node list as set by the caller.
func (s *Store) Nodes() []*Node { return s.nodes }

// Links returns the link list as set by the caller.
func (s *Store) Links() []*Link { return s.links }

// Node looks up a node by id.
func (s *Store) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Resolve returns both endpoints of l. ok is false when either is missing.
func (s *Store) Resolve(l *Link) (src, dst *Node, ok bool) {
	src, okS := s.byID[l.Source]
	dst, okD := s.byID[l.Target]
	if !okS || !okD {
		return nil, nil, false
	}
	return src, dst, true
}

// LinksTouching returns the links with id as source or target, in list order.
func (s *Store) LinksTouching(id string) []*Link {
	var out []*Link
	for _, l := range s.links {
		if l != nil && l.Touches(id) {
			out = append(out, l)
		}
	}
	return out
}

// Len returns the number of nodes and links.
func (s *Store) Len() (nodes, links int) { return len(s.nodes), len(s.links) }

// Clear empties both lists and the lookup.
func (s *Store) Clear() {
	s.nodes = nil
	s.links = nil
	clear(s.byID)
}
