package domain

type TargetPick struct {
	pitch Pitch
	fixed bool
}

func FixedTarget(p Pitch) TargetPick {
	return TargetPick{pitch: p, fixed: true}
}

func RandomTarget() TargetPick {
	return TargetPick{}
}

func (t TargetPick) Fixed() (Pitch, bool) {
	return t.pitch, t.fixed
}

func (t TargetPick) IsRandom() bool {
	return !t.fixed
}

func (t TargetPick) String() string {
	if t.fixed {
		return t.pitch.Name()
	}
	return "random"
}
