package sim

import (
	"fmt"

	"github.com/vovakirdan/skyrocket/internal/core"
)

// Observation is the fixed-length state vector handed to a policy.
// Layout: [craft.left, craft.top, h1.left, h1.top, ..., hN.left, hN.top];
// unused hazard slots are (0, 0). Decorations never appear.
type Observation []float64

// Craft returns the craft's (left, top) position.
func (o Observation) Craft() (x, y float64) {
	if len(o) < 2 {
		return 0, 0
	}
	return o[0], o[1]
}

// Slots returns the number of hazard slots in the vector.
func (o Observation) Slots() int {
	if len(o) < 2 {
		return 0
	}
	return (len(o) - 2) / 2
}

// Hazard returns the i-th hazard slot. Empty slots read as (0, 0).
func (o Observation) Hazard(i int) (x, y float64) {
	j := 2 + 2*i
	if i < 0 || j+1 >= len(o) {
		return 0, 0
	}
	return o[j], o[j+1]
}

// Encoder builds observations of a fixed size.
type Encoder struct {
	slots int
}

// NewEncoder creates an encoder with one slot per allowed live hazard.
func NewEncoder(maxHazards int) Encoder {
	return Encoder{slots: maxHazards}
}

// Size returns the observation length, 2*maxHazards + 2.
func (enc Encoder) Size() int {
	return 2*enc.slots + 2
}

// Encode writes the craft position followed by every hazard's position.
// More hazards than slots is a capacity bug upstream and is reported rather
// than truncated.
func (enc Encoder) Encode(craft core.Rect, hazards []Entity) (Observation, error) {
	if len(hazards) > enc.slots {
		return nil, fmt.Errorf("sim: %d hazards for %d observation slots: %w", len(hazards), enc.slots, ErrInternalConsistency)
	}

	obs := make(Observation, 0, enc.Size())
	obs = append(obs, float64(craft.X), float64(craft.Y))
	for i := range hazards {
		x, y := hazards[i].Position()
		obs = append(obs, float64(x), float64(y))
	}
	// Unused slots are already zero in the backing array.
	return obs[:enc.Size()], nil
}
