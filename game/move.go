package game

import "fmt"

// Move relocates the piece standing on Source to Target.
type Move struct {
	Source Cell `json:"source"`
	Target Cell `json:"target"`
}

func (m Move) String() string {
	return fmt.Sprintf("%d-%d", m.Source, m.Target)
}
