package sightline

import (
	"fmt"
	"log/slog"
	"os"
)

// debugLogger receives tree warnings from node operations, which have no
// Scene to log through. SetDebugMode points it at the scene's logger.
var debugLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// debugLog logs per-step dispatch counts.
func (s *Scene) debugLog(stats stepStats) {
	if !s.debug {
		return
	}
	s.log.Debug("step",
		"now", s.now,
		"mutations", stats.mutations,
		"timers", stats.timers,
		"frames", stats.frames,
		"pending_timers", len(s.timers),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("sightline debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds limit",
			"depth", depth, "limit", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds limit",
			"node", n.Name, "children", len(n.children), "limit", debugMaxChildCount)
	}
}
