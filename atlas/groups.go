package atlas

import (
	"sort"

	"caseatlas-backend/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NodeKind distinguishes leaves from internal nodes of a group tree
type NodeKind string

const (
	NodeLeaf     NodeKind = "leaf"
	NodeInternal NodeKind = "internal"
)

// GroupTree is one level of the grouping hierarchy.
// Leaves hold the records in input order; internal nodes hold ordered child groups
// keyed by the formatted value of Axis.
type GroupTree struct {
	Kind    NodeKind             `json:"kind"`
	Axis    FieldID              `json:"axis,omitempty"`
	Groups  []Group              `json:"groups,omitempty"`
	Records []*models.CaseRecord `json:"records,omitempty"`
}

// Group is a keyed child of an internal node
type Group struct {
	Key  string     `json:"key"`
	Tree *GroupTree `json:"tree"`
}

// IsLeaf reports whether the node is a leaf
func (t *GroupTree) IsLeaf() bool {
	return t.Kind == NodeLeaf
}

// Keys returns the child keys in order
func (t *GroupTree) Keys() []string {
	keys := make([]string, len(t.Groups))
	for i, group := range t.Groups {
		keys[i] = group.Key
	}
	return keys
}

// Child returns the subtree for key, or nil
func (t *GroupTree) Child(key string) *GroupTree {
	for _, group := range t.Groups {
		if group.Key == key {
			return group.Tree
		}
	}
	return nil
}

// Depth returns the number of internal levels above the leaves.
// An internal node without children counts as one level.
func (t *GroupTree) Depth() int {
	if t.IsLeaf() {
		return 0
	}
	if len(t.Groups) == 0 {
		return 1
	}
	return 1 + t.Groups[0].Tree.Depth()
}

// ComputeGroups filters records for the axes and partitions them into a tree of
// depth len(axes). It never fails: invalid chains produce an empty tree.
func ComputeGroups(records []*models.CaseRecord, axes []FieldID) *GroupTree {
	b := &builder{
		axes:     axes,
		collator: collate.New(language.English),
	}
	return b.build(FilterRecords(records, axes), 0)
}

// CountCases returns the number of leaf entries under a node.
// With multi-valued axes a record is counted once per group it fans out to.
func CountCases(tree *GroupTree) int {
	if tree == nil {
		return 0
	}
	if tree.IsLeaf() {
		return len(tree.Records)
	}
	total := 0
	for _, group := range tree.Groups {
		total += CountCases(group.Tree)
	}
	return total
}

type builder struct {
	axes     []FieldID
	collator *collate.Collator
}

func (b *builder) build(records []*models.CaseRecord, axisIndex int) *GroupTree {
	if axisIndex == len(b.axes) {
		leaf := make([]*models.CaseRecord, len(records))
		copy(leaf, records)
		return &GroupTree{Kind: NodeLeaf, Records: leaf}
	}

	axis := b.axes[axisIndex]
	buckets := make(map[string][]*models.CaseRecord)
	for _, record := range records {
		for _, key := range groupKeys(FieldValue(record, axis), axis) {
			buckets[key] = append(buckets[key], record)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	b.sortKeys(keys)

	node := &GroupTree{Kind: NodeInternal, Axis: axis, Groups: make([]Group, 0, len(keys))}
	for _, key := range keys {
		node.Groups = append(node.Groups, Group{
			Key:  key,
			Tree: b.build(buckets[key], axisIndex+1),
		})
	}
	return node
}

// groupKeys returns the distinct keys a record is filed under for one axis
func groupKeys(raw any, axis FieldID) []string {
	list, ok := raw.([]string)
	if !ok || len(list) == 0 {
		return []string{FormatValue(raw, axis)}
	}

	keys := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, element := range list {
		key := FormatValue(element, axis)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// sortKeys orders keys by locale-aware comparison with "N/A" always last
func (b *builder) sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		if a == NotApplicable || c == NotApplicable {
			return c == NotApplicable && a != NotApplicable
		}
		if cmp := b.collator.CompareString(a, c); cmp != 0 {
			return cmp < 0
		}
		return a < c
	})
}
