package mcts

import (
	"math"

	"lukechampine.com/frand"

	"abalone-local/game"
	"abalone-local/types"
)

const explorationParam = 1.41

// node is a search tree node. Trees are owned by one worker at a time and
// need no locking.
type node struct {
	board    types.Board
	parent   *node
	children []*node
	untried  []types.Board
	expanded bool
	terminal bool

	visits int
	// wins are counted for the side that moved into this node
	wins float64
}

func newNode(parent *node, b types.Board) *node {
	return &node{
		board:    b,
		parent:   parent,
		terminal: game.Ended(b),
	}
}

func (n *node) mover() types.Color {
	return n.board.ToMove.Opponent()
}

func (n *node) expand() {
	if n.expanded {
		return
	}
	n.expanded = true
	n.untried = game.Successors(n.board)
	frand.Shuffle(len(n.untried), func(i, j int) {
		n.untried[i], n.untried[j] = n.untried[j], n.untried[i]
	})
}

// child returns the child holding b, if it was already created.
func (n *node) child(b types.Board) *node {
	for _, c := range n.children {
		if c.board == b {
			return c
		}
	}
	return nil
}

// detach turns n into a root.
func (n *node) detach() *node {
	n.parent = nil
	return n
}

func (n *node) ucb(parentVisits int) float64 {
	if n.visits == 0 {
		return math.Inf(1)
	}
	exploit := n.wins / float64(n.visits)
	explore := explorationParam * math.Sqrt(math.Log(float64(parentVisits))/float64(n.visits))
	return exploit + explore
}

// selectLeaf walks down the tree, expanding the first node with untried
// successors.
func (n *node) selectLeaf() *node {
	cur := n
	for !cur.terminal {
		cur.expand()
		if len(cur.untried) > 0 {
			last := len(cur.untried) - 1
			b := cur.untried[last]
			cur.untried = cur.untried[:last]
			c := newNode(cur, b)
			cur.children = append(cur.children, c)
			return c
		}
		if len(cur.children) == 0 {
			return cur
		}

		best := cur.children[0]
		bestScore := best.ucb(cur.visits)
		for _, c := range cur.children[1:] {
			if s := c.ucb(cur.visits); s > bestScore {
				best, bestScore = c, s
			}
		}
		cur = best
	}
	return cur
}

// backpropagate adds a playout result, given as Black's score in [0,1].
func (n *node) backpropagate(blackScore float64) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		if cur.mover() == types.Black {
			cur.wins += blackScore
		} else {
			cur.wins += 1 - blackScore
		}
	}
}
