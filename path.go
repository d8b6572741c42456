package main

import (
	"fmt"
	"log"
)

// redirectAnnotationFormat renders a path entry that was reached via
// a redirect, per spec §4.F.
const redirectAnnotationFormat = "%s (Redirected from: %s)"

// parentEdge records, for one title discovered during the breadth-
// first search, which title discovered it and — if the hop went
// through a redirect — the alias it was discovered under.
type parentEdge struct {
	parent   string
	alias    string
	redirect bool
}

// ShortestPath finds a shortest-hop chain of article titles from src
// to dst, walking LINKS with redirect indirection (spec §4.F). Nodes
// reached via a redirect carry a "(Redirected from: ...)" annotation.
// It fails with an error when src has no PAGES row, or when the
// search frontier drains before dst is reached.
//
// The search intentionally reproduces a subtle property of the
// original implementation rather than "fixing" it: a link is recorded
// into the parent map (and thus may pick up a redirect alias) before
// it is checked against dst, so if the final hop into dst itself goes
// through a redirect, the returned path's last entry DOES carry the
// annotation. See path_test.go for an explicit test of this case —
// spec §9 calls this out as a behavior to verify, not assume.
func (s *Store) ShortestPath(src, dst string) ([]string, error) {
	if _, ok, err := s.pageID(src); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("source page %q not found", src)
	}

	if src == dst {
		return []string{src}, nil
	}

	parent := map[string]parentEdge{src: {parent: src}}
	queue := []string{src}

	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]

		id, ok, err := s.pageID(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Should not happen for src by precondition, but may occur
			// for intermediate nodes under a race with schema
			// evolution (spec §4.F step 1).
			log.Print("page vanished mid-search: ", cur)
			continue
		}

		links, err := s.outLinks(id)
		if err != nil {
			return nil, err
		}

		for _, raw := range links {
			linkTitle := raw
			alias := ""
			isRedirect := false

			exists, err := s.pageExists(raw)
			if err != nil {
				return nil, err
			}
			if !exists {
				target, ok, err := s.redirectOf(raw)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue // dangling link: silent skip
				}
				alias = raw
				isRedirect = true
				linkTitle = target
			}

			if _, seen := parent[linkTitle]; !seen {
				parent[linkTitle] = parentEdge{parent: cur, alias: alias, redirect: isRedirect}
				queue = append(queue, linkTitle)
			}

			if linkTitle == dst {
				found = true
				break
			}
		}
	}

	if _, ok := parent[dst]; !ok {
		return nil, fmt.Errorf("no path found from %q to %q", src, dst)
	}

	var path []string
	cur := dst
	for {
		edge := parent[cur]
		label := cur
		if edge.redirect {
			label = fmt.Sprintf(redirectAnnotationFormat, cur, edge.alias)
		}
		path = append([]string{label}, path...)
		if edge.parent == cur {
			break
		}
		cur = edge.parent
	}

	return path, nil
}

// MaxDepth runs a breadth-first search to exhaustion from src and
// reports the greatest number of hops reached by any page, following
// redirects the same way ShortestPath does. It backs the interactive
// shell's "depth" command (spec §6).
func (s *Store) MaxDepth(src string) (int, error) {
	if _, ok, err := s.pageID(src); err != nil {
		return 0, err
	} else if !ok {
		return 0, fmt.Errorf("source page %q not found", src)
	}

	type queued struct {
		title string
		depth int
	}

	seen := map[string]bool{src: true}
	queue := []queued{{src, 0}}
	maxDepth := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > maxDepth {
			maxDepth = cur.depth
		}

		id, ok, err := s.pageID(cur.title)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		links, err := s.outLinks(id)
		if err != nil {
			return 0, err
		}

		for _, raw := range links {
			linkTitle := raw
			exists, err := s.pageExists(raw)
			if err != nil {
				return 0, err
			}
			if !exists {
				target, ok, err := s.redirectOf(raw)
				if err != nil {
					return 0, err
				}
				if !ok {
					continue
				}
				linkTitle = target
			}
			if !seen[linkTitle] {
				seen[linkTitle] = true
				queue = append(queue, queued{linkTitle, cur.depth + 1})
			}
		}
	}

	return maxDepth, nil
}
