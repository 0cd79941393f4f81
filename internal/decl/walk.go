package decl

// Event distinguishes the two visitor callbacks a class receives. Leaf
// nodes are visited with EventEnter only.
type Event int

const (
	EventEnter Event = iota
	EventExit
)

func (e Event) String() string {
	if e == EventExit {
		return "exit"
	}
	return "enter"
}

// Visitor is called for every node in traversal order. Returning false
// stops the walk immediately; no further callbacks run, including exits
// for classes already entered.
type Visitor func(n Node, ev Event) bool

// Walk traverses the model depth-first in declaration order. Each class
// is visited with EventEnter before its members and EventExit after them.
func Walk(m *Model, v Visitor) {
	for _, n := range m.Decls {
		if !walkNode(n, v) {
			return
		}
	}
}

func walkNode(n Node, v Visitor) bool {
	c, ok := n.(*Class)
	if !ok {
		return v(n, EventEnter)
	}
	if !v(c, EventEnter) {
		return false
	}
	for _, member := range c.Members {
		if !walkNode(member, v) {
			return false
		}
	}
	return v(c, EventExit)
}
