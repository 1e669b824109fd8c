package atlas

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
)

// View is the presentation form of a group tree. Order and counts are taken from
// the tree as-is.
type View struct {
	Axes   []FieldID  `json:"axes"`
	Total  int        `json:"total"`
	Groups []ViewNode `json:"groups"`
	// Cases is set when the chain is empty and the root itself is a leaf
	Cases []string `json:"cases,omitempty"`
}

// ViewNode is one rendered group
type ViewNode struct {
	Key      string     `json:"key"`
	Count    int        `json:"count"`
	Children []ViewNode `json:"children,omitempty"`
	Cases    []string   `json:"cases,omitempty"`
}

// BuildView converts a tree produced for axes into its presentation form
func BuildView(tree *GroupTree, axes []FieldID) View {
	view := View{
		Axes:   append([]FieldID{}, axes...),
		Total:  CountCases(tree),
		Groups: []ViewNode{},
	}
	if tree == nil {
		return view
	}
	if tree.IsLeaf() {
		view.Cases = caseIDs(tree)
		return view
	}
	view.Groups = viewNodes(tree)
	return view
}

func viewNodes(tree *GroupTree) []ViewNode {
	nodes := make([]ViewNode, 0, len(tree.Groups))
	for _, group := range tree.Groups {
		node := ViewNode{Key: group.Key, Count: CountCases(group.Tree)}
		if group.Tree.IsLeaf() {
			node.Cases = caseIDs(group.Tree)
		} else {
			node.Children = viewNodes(group.Tree)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func caseIDs(leaf *GroupTree) []string {
	ids := make([]string, len(leaf.Records))
	for i, record := range leaf.Records {
		ids[i] = record.ID
	}
	return ids
}

// RenderText renders the view as an indented list for terminals
func RenderText(view View) string {
	labels := make([]string, len(view.Axes))
	for i, id := range view.Axes {
		if spec, err := LookupField(id); err == nil {
			labels[i] = spec.Label
		} else {
			labels[i] = string(id)
		}
	}

	var sb strings.Builder
	if len(labels) > 0 {
		fmt.Fprintf(&sb, "Grouped by: %s\n", strings.Join(labels, " > "))
	}
	fmt.Fprintf(&sb, "Total: %d\n", view.Total)

	w := list.NewWriter()
	w.SetStyle(list.StyleConnectedLight)
	for _, id := range view.Cases {
		w.AppendItem(id)
	}
	appendNodes(w, view.Groups)
	if w.Length() > 0 {
		sb.WriteString(w.Render())
		sb.WriteString("\n")
	}
	return sb.String()
}

func appendNodes(w list.Writer, nodes []ViewNode) {
	for _, node := range nodes {
		w.AppendItem(fmt.Sprintf("%s (%d)", node.Key, node.Count))
		if len(node.Children) == 0 && len(node.Cases) == 0 {
			continue
		}
		w.Indent()
		for _, id := range node.Cases {
			w.AppendItem(id)
		}
		appendNodes(w, node.Children)
		w.UnIndent()
	}
}
