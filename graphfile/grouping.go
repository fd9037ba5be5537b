package graphfile

import "strings"

type GroupingType int

const (
	GroupCluster GroupingType = iota
	GroupStacked
	GroupStackCluster
)

func (t GroupingType) String() string {
	switch t {
	case GroupStacked:
		return "stacked"
	case GroupStackCluster:
		return "stackcluster"
	default:
		return "cluster"
	}
}

// Grouping describes how bars within a cluster relate to each other and
// which legend titles the groups carry. The zero value is an untitled
// cluster grouping with a single implicit group.
type Grouping struct {
	Type      GroupingType
	Titles    []string
	Delimiter byte
}

// Groups is the number of groups rendered per cluster.
func (g Grouping) Groups() int {
	if len(g.Titles) == 0 {
		return 1
	}
	return len(g.Titles)
}

// Stacked reports whether the legend key must be inverted: stacked bars are
// drawn bottom-up, so the key is drawn top-down to match.
func (g Grouping) Stacked() bool {
	return g.Type == GroupStacked || g.Type == GroupStackCluster
}

var groupingNames = []struct {
	name string
	typ  GroupingType
}{
	// Longest first: "stacked" is a prefix of nothing, but "cluster"
	// must not shadow "stackcluster".
	{"stackcluster", GroupStackCluster},
	{"stacked", GroupStacked},
	{"cluster", GroupCluster},
}

// ParseGrouping matches the body of a =cluster/=stacked/=stackcluster
// directive. The character immediately after the name is the delimiter and
// the rest of the line is split on it into group titles. There is no escape
// mechanism: a delimiter character inside a title splits the title.
func ParseGrouping(body string) (Grouping, bool) {
	for _, gn := range groupingNames {
		if body == gn.name {
			return Grouping{Type: gn.typ}, true
		}
		if strings.HasPrefix(body, gn.name) {
			delim := body[len(gn.name)]
			titles := strings.Split(body[len(gn.name)+1:], string(delim))
			return Grouping{Type: gn.typ, Titles: titles, Delimiter: delim}, true
		}
	}
	return Grouping{}, false
}
