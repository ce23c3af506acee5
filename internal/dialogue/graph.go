/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import "fmt"

// AddTextNode appends a text node with its IN and OUT connectors.
func (p *Project) AddTextNode(title string, x, y float64) *Node {
	n := &Node{ID: newID(), Kind: KindText, Title: title, X: x, Y: y}
	n.In = newConnector(In, n.ID, "")
	out := newConnector(Out, n.ID, "")
	n.Out = &out
	p.addNode(n)
	return n
}

// AddResponseNode appends a response node without responses.
func (p *Project) AddResponseNode(title string, x, y float64) *Node {
	n := &Node{ID: newID(), Kind: KindResponse, Title: title, X: x, Y: y, Responses: []*Response{}}
	n.In = newConnector(In, n.ID, "")
	p.addNode(n)
	return n
}

func (p *Project) addNode(n *Node) {
	idx := p.index()
	p.Nodes = append(p.Nodes, n)
	for _, c := range n.Connectors() {
		idx[c.ID] = c
	}
}

// NumNodes returns the number of nodes.
func (p *Project) NumNodes() int { return len(p.Nodes) }

// NodeAt returns the i-th node in creation order.
func (p *Project) NodeAt(i int) *Node { return p.Nodes[i] }

// Node looks a node up by ID.
func (p *Project) Node(id string) (*Node, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (p *Project) nodeIndex(id string) int {
	for i, n := range p.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// SetPosition moves a node.
func (p *Project) SetPosition(id string, x, y float64) error {
	n, ok := p.Node(id)
	if !ok {
		return fmt.Errorf("set position %s: %w", id, ErrNodeNotFound)
	}
	n.X, n.Y = x, y
	return nil
}

// RemoveNode deletes a node and every link touching one of its connectors.
// It returns the number of links removed.
func (p *Project) RemoveNode(id string) (int, error) {
	i := p.nodeIndex(id)
	if i < 0 {
		return 0, fmt.Errorf("remove node %s: %w", id, ErrNodeNotFound)
	}
	n := p.Nodes[i]
	removed := 0
	idx := p.index()
	for _, c := range n.Connectors() {
		removed += p.DisconnectAll(c.ID)
		delete(idx, c.ID)
	}
	p.Nodes = append(p.Nodes[:i], p.Nodes[i+1:]...)
	return removed, nil
}

// AddResponse appends a response (and its OUT connector) to a response node.
func (p *Project) AddResponse(nodeID, text string) (*Response, error) {
	n, ok := p.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("add response to %s: %w", nodeID, ErrNodeNotFound)
	}
	if n.Kind != KindResponse {
		return nil, fmt.Errorf("add response to %s node: %w", n.Kind, ErrWrongKind)
	}
	r := &Response{ID: newID(), Text: text}
	r.Out = newConnector(Out, n.ID, r.ID)
	n.Responses = append(n.Responses, r)
	p.index()[r.Out.ID] = r.Out
	return r, nil
}

// RemoveResponse deletes a response and the link leaving it, if any.
func (p *Project) RemoveResponse(nodeID, responseID string) error {
	n, ok := p.Node(nodeID)
	if !ok {
		return fmt.Errorf("remove response from %s: %w", nodeID, ErrNodeNotFound)
	}
	r, i, ok := n.Response(responseID)
	if !ok {
		return fmt.Errorf("remove response %s: %w", responseID, ErrResponseNotFound)
	}
	p.DisconnectAll(r.Out.ID)
	delete(p.index(), r.Out.ID)
	n.Responses = append(n.Responses[:i], n.Responses[i+1:]...)
	return nil
}

// MoveResponse moves the response at index from to index to. Links are kept.
func (p *Project) MoveResponse(nodeID string, from, to int) error {
	n, ok := p.Node(nodeID)
	if !ok {
		return fmt.Errorf("move response in %s: %w", nodeID, ErrNodeNotFound)
	}
	if from < 0 || from >= len(n.Responses) || to < 0 || to >= len(n.Responses) {
		return fmt.Errorf("move response %d -> %d of %d: %w", from, to, len(n.Responses), ErrResponseNotFound)
	}
	r := n.Responses[from]
	n.Responses = append(n.Responses[:from], n.Responses[from+1:]...)
	n.Responses = append(n.Responses[:to], append([]*Response{r}, n.Responses[to:]...)...)
	return nil
}

// Connector looks a connector up by ID.
func (p *Project) Connector(id string) (Connector, bool) {
	c, ok := p.index()[id]
	return c, ok
}

// ConnectorOwner resolves the node (and response, for response OUT connectors)
// that owns a connector.
func (p *Project) ConnectorOwner(id string) (*Node, *Response, error) {
	c, ok := p.Connector(id)
	if !ok {
		return nil, nil, fmt.Errorf("connector %s: %w", id, ErrConnectorNotFound)
	}
	n, ok := p.Node(c.NodeID)
	if !ok {
		return nil, nil, fmt.Errorf("owner of connector %s: %w", id, ErrNodeNotFound)
	}
	if c.ResponseID == "" {
		return n, nil, nil
	}
	r, _, ok := n.Response(c.ResponseID)
	if !ok {
		return n, nil, fmt.Errorf("owner of connector %s: %w", id, ErrResponseNotFound)
	}
	return n, r, nil
}

// Connect links an OUT connector to an IN connector; argument order does
// not matter. Any link the OUT side already had is dropped first.
func (p *Project) Connect(a, b string) (Link, error) {
	ca, ok := p.Connector(a)
	if !ok {
		return Link{}, fmt.Errorf("connect %s: %w", a, ErrConnectorNotFound)
	}
	cb, ok := p.Connector(b)
	if !ok {
		return Link{}, fmt.Errorf("connect %s: %w", b, ErrConnectorNotFound)
	}
	if ca.Type == cb.Type {
		return Link{}, fmt.Errorf("connect %s to %s (both %s): %w", a, b, ca.Type, ErrConnectorTypes)
	}
	out, in := ca, cb
	if out.Type != Out {
		out, in = cb, ca
	}
	p.DisconnectAll(out.ID)
	l := Link{ID: newID(), From: out.ID, To: in.ID}
	p.Links = append(p.Links, l)
	return l, nil
}

// Disconnect removes a single link.
func (p *Project) Disconnect(linkID string) error {
	for i, l := range p.Links {
		if l.ID == linkID {
			p.Links = append(p.Links[:i], p.Links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("disconnect %s: %w", linkID, ErrLinkNotFound)
}

// DisconnectAll removes every link touching the connector and returns how many went.
func (p *Project) DisconnectAll(connectorID string) int {
	kept := p.Links[:0]
	removed := 0
	for _, l := range p.Links {
		if l.From == connectorID || l.To == connectorID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	p.Links = kept
	return removed
}

// LinksOf returns the links touching the connector.
func (p *Project) LinksOf(connectorID string) []Link {
	var out []Link
	for _, l := range p.Links {
		if l.From == connectorID || l.To == connectorID {
			out = append(out, l)
		}
	}
	return out
}

// NumLinks returns the number of active links.
func (p *Project) NumLinks() int { return len(p.Links) }

// Target returns the node an OUT connector points at.
func (p *Project) Target(outConnectorID string) (*Node, bool) {
	for _, l := range p.Links {
		if l.From != outConnectorID {
			continue
		}
		c, ok := p.Connector(l.To)
		if !ok {
			return nil, false
		}
		return p.Node(c.NodeID)
	}
	return nil, false
}

// Clone returns a deep copy sharing no mutable state with p.
func (p *Project) Clone() *Project {
	c := &Project{Name: p.Name, Syntax: p.Syntax, Nodes: make([]*Node, 0, len(p.Nodes)), Links: append([]Link{}, p.Links...)}
	for _, n := range p.Nodes {
		cn := *n
		if n.Out != nil {
			out := *n.Out
			cn.Out = &out
		}
		if n.Responses != nil {
			cn.Responses = make([]*Response, len(n.Responses))
			for i, r := range n.Responses {
				cr := *r
				cn.Responses[i] = &cr
			}
		}
		c.Nodes = append(c.Nodes, &cn)
	}
	c.Reindex()
	return c
}
