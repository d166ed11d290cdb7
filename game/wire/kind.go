package wire

import "fmt"

// Kind is the msg_type of a server-to-client envelope
type Kind int

const (
	KindStart Kind = iota
	KindMoving
	KindWin
	KindFail
	KindOk
	KindError
	KindDraw
	KindOpponentLeft
)

var kindNames = [...]string{
	KindStart:        "start",
	KindMoving:       "moving",
	KindWin:          "win",
	KindFail:         "fail",
	KindOk:           "ok",
	KindError:        "error",
	KindDraw:         "draw",
	KindOpponentLeft: "opponent_left",
}

// Kinds lists every message kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Terminal reports whether a client receiving k should expect no further frames
func (k Kind) Terminal() bool {
	switch k {
	case KindWin, KindFail, KindDraw, KindOpponentLeft:
		return true
	}
	return false
}

// ParseKind maps a msg_type string back to its Kind
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown msg_type %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown msg_type %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
