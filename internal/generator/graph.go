package generator

import (
	"fmt"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// Order topologically sorts the schema's tables by foreign-key
// dependency: every parent appears strictly before its children.
// Self-referencing edges are excluded, they are resolved within a single
// table's generation pass. Tables with no ordering constraint between
// them keep their schema declaration order, so the output is stable for
// a given schema.
func Order(s *schema.Schema) ([]*schema.TableSpec, error) {
	n := len(s.Tables)
	index := make(map[string]int, n)
	for i := range s.Tables {
		index[s.Tables[i].Name] = i
	}

	indegree := make([]int, n)
	children := make([][]int, n)
	for i := range s.Tables {
		for _, dep := range s.Tables[i].Dependencies() {
			p, ok := index[dep]
			if !ok {
				// Unresolved references are the validator's problem.
				continue
			}
			indegree[i]++
			children[p] = append(children[p], i)
		}
	}

	placed := make([]bool, n)
	order := make([]*schema.TableSpec, 0, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, fmt.Errorf("%w: %d tables unplaceable", ErrCyclicDependency, n-len(order))
		}
		placed[next] = true
		order = append(order, &s.Tables[next])
		for _, c := range children[next] {
			indegree[c]--
		}
	}

	return order, nil
}
