package engine

// MaxPick is the last pick covered by the value chart
const MaxPick = 300

// basePickValues is the trade-value chart for the first 50 picks
var basePickValues = [50]float64{
	200, 190, 182, 175, 168, 162, 156, 150, 145, 140,
	135, 130, 126, 122, 118, 114, 110, 106, 103, 100,
	97, 94, 91, 88, 85, 82, 79, 76, 73, 70,
	68, 66, 64, 62, 60, 58, 56, 54, 52, 50,
	48, 46, 44, 42, 40, 38, 36, 34, 32, 30,
}

// PickValueTable maps overall pick numbers 1..MaxPick to a draft value
type PickValueTable struct {
	values [MaxPick + 1]float64
}

// NewPickValueTable builds the standard value curve
func NewPickValueTable() *PickValueTable {
	t := &PickValueTable{}
	for pick := 1; pick <= MaxPick; pick++ {
		if pick <= len(basePickValues) {
			t.values[pick] = basePickValues[pick-1]
			continue
		}
		v := 24 - float64((pick-50)/10)
		if v < 1 {
			v = 1
		}
		t.values[pick] = v
	}
	return t
}

// Value returns the value for an overall pick. ok is false outside 1..MaxPick.
func (t *PickValueTable) Value(pick int) (value float64, ok bool) {
	if pick < 1 || pick > MaxPick {
		return 0, false
	}
	return t.values[pick], true
}

// valueOrZero is Value without the found flag
func (t *PickValueTable) valueOrZero(pick int) float64 {
	v, _ := t.Value(pick)
	return v
}
