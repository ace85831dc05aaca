package session

import (
	"errors"
	"fmt"

	"abalone-local/types"
)

var (
	// ErrChannelDisconnected means the other end of a link queue hung up.
	ErrChannelDisconnected = errors.New("channel disconnected")

	// ErrShutdownRace is returned when a session is started before the
	// previous one was joined.
	ErrShutdownRace = errors.New("previous session has not been joined")
)

// Commit is the interface's report of a played turn.
type Commit struct {
	Board types.Board
	Ended bool
}

func (c Commit) String() string {
	if c.Board.IsEmpty() {
		return fmt.Sprintf("commit(sentinel, ended=%t)", c.Ended)
	}
	return fmt.Sprintf("commit(ply %d, ended=%t)", c.Board.Ply, c.Ended)
}

// Link is the pair of queues between the interface and the coordinator.
// Inbound carries commits to the coordinator, Outbound carries boards chosen
// by engines to the interface.
type Link struct {
	Inbound  *Queue[Commit]
	Outbound *Queue[types.Board]
}

func NewLink() *Link {
	return &Link{
		Inbound:  NewQueue[Commit](),
		Outbound: NewQueue[types.Board](),
	}
}
