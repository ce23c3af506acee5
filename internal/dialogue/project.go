/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dialogue holds the branching-dialogue project model: nodes, their
// typed connectors and the links between them. All mutation goes through
// *Project methods so the connector invariants hold after every call.
package dialogue

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrResponseNotFound  = errors.New("response not found")
	ErrConnectorNotFound = errors.New("connector not found")
	ErrLinkNotFound      = errors.New("link not found")
	ErrConnectorTypes    = errors.New("link endpoints must be one out and one in connector")
	ErrWrongKind         = errors.New("operation not supported for this node kind")
	ErrInvalidProject    = errors.New("invalid project")
)

// NodeKind discriminates the node variants.
type NodeKind string

const (
	KindText     NodeKind = "text"
	KindResponse NodeKind = "response"
)

// ConnectorType is the direction of a connector.
type ConnectorType string

const (
	In  ConnectorType = "in"
	Out ConnectorType = "out"
)

// Connector is a typed link endpoint. It refers to its owner by ID only.
type Connector struct {
	ID         string        `json:"id" yaml:"id"`
	Type       ConnectorType `json:"type" yaml:"type"`
	NodeID     string        `json:"node" yaml:"node"`
	ResponseID string        `json:"response,omitempty" yaml:"response,omitempty"`
}

// Response is a single choice inside a response node.
type Response struct {
	ID   string    `json:"id" yaml:"id"`
	Text string    `json:"text" yaml:"text"`
	Out  Connector `json:"out" yaml:"out"`
}

// Node is a dialogue unit. The base fields are shared by every kind;
// Text and Out are only meaningful for KindText, Responses only for KindResponse.
type Node struct {
	ID    string    `json:"id" yaml:"id"`
	Kind  NodeKind  `json:"kind" yaml:"kind"`
	Title string    `json:"title" yaml:"title"`
	Tag   string    `json:"tag" yaml:"tag"`
	X     float64   `json:"x" yaml:"x"`
	Y     float64   `json:"y" yaml:"y"`
	In    Connector `json:"in" yaml:"in"`

	Text string     `json:"text,omitempty" yaml:"text,omitempty"`
	Out  *Connector `json:"out,omitempty" yaml:"out,omitempty"`

	Responses []*Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// OutConnectors returns the node's OUT connectors in display order.
func (n *Node) OutConnectors() []Connector {
	switch n.Kind {
	case KindText:
		if n.Out != nil {
			return []Connector{*n.Out}
		}
		return nil
	case KindResponse:
		out := make([]Connector, 0, len(n.Responses))
		for _, r := range n.Responses {
			out = append(out, r.Out)
		}
		return out
	}
	return nil
}

// Connectors returns the IN connector followed by all OUT connectors.
func (n *Node) Connectors() []Connector {
	return append([]Connector{n.In}, n.OutConnectors()...)
}

// Response returns the response with the given ID.
func (n *Node) Response(id string) (*Response, int, bool) {
	for i, r := range n.Responses {
		if r.ID == id {
			return r, i, true
		}
	}
	return nil, -1, false
}

// Link is a directed edge from an OUT connector to an IN connector.
type Link struct {
	ID   string `json:"id" yaml:"id"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Project is the root entity. Nodes keep creation order.
type Project struct {
	Name   string  `json:"name" yaml:"name"`
	Syntax string  `json:"syntax,omitempty" yaml:"syntax,omitempty"`
	Nodes  []*Node `json:"nodes" yaml:"nodes"`
	Links  []Link  `json:"links" yaml:"links"`

	conns map[string]Connector
}

// NewProject returns an empty project.
func NewProject(name string) *Project {
	return &Project{Name: name, Nodes: []*Node{}, Links: []Link{}, conns: map[string]Connector{}}
}

var newID = uuid.NewString

func newConnector(t ConnectorType, nodeID, responseID string) Connector {
	return Connector{ID: newID(), Type: t, NodeID: nodeID, ResponseID: responseID}
}

// Reindex rebuilds the connector lookup table. Decoders call it after
// populating the exported fields.
func (p *Project) Reindex() {
	p.conns = make(map[string]Connector, len(p.Nodes)*2)
	for _, n := range p.Nodes {
		for _, c := range n.Connectors() {
			p.conns[c.ID] = c
		}
	}
}

func (p *Project) index() map[string]Connector {
	if p.conns == nil {
		p.Reindex()
	}
	return p.conns
}
