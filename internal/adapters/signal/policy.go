package signal

import (
	"fmt"

	"github.com/dkeye/Agora/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a session whose send queue is full.
type Policy interface {
	OnBackPressure(sid domain.SessionID) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.SessionID) BackpressureAction {
	return p.Action
}

// ParsePolicy maps the slow_consumer_policy config value to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown slow consumer policy %q", name)
	}
}
