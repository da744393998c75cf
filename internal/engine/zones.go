package engine

import (
	"fmt"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/game"
)

// ErrAngleOutOfRange rejects tap angles outside [0, 360) before any
// classification happens.
var ErrAngleOutOfRange = fmt.Errorf("tap angle must be in [0, 360)")

// zoneMultipliers maps zone rank (1=crit ... 5=injure) to the damage
// multiplier applied by the stats provider. This table is a fixed game
// constant, never configured per encounter.
var zoneMultipliers = map[int]float64{
	1: 1.5,
	2: 1.25,
	3: 1.0,
	4: 0.75,
	5: 0.5,
}

// ZoneMultiplier returns the fixed multiplier for a zone rank. Unknown
// ranks return 1.0 so a bad rank degrades to neutral damage rather than
// zeroing it.
func ZoneMultiplier(rank int) float64 {
	if m, ok := zoneMultipliers[rank]; ok {
		return m
	}
	return 1.0
}

// ClassifyAngle maps a tap angle onto a weapon's band layout. Band widths
// accumulate in fixed order (crit, normal, graze, miss); the angle lands in
// the first band whose cumulative upper bound exceeds it, and anything past
// the fourth bound is injure. The declared injure width is intentionally
// not checked: treating injure as the remainder guarantees the five bands
// cover all of [0,360) even when declared widths drift from 360.
func ClassifyAngle(angle float64, layout game.WeaponBandLayout) (game.Zone, error) {
	if angle < 0 || angle >= 360 {
		return "", fmt.Errorf("%w: got %.2f", ErrAngleOutOfRange, angle)
	}

	bounds := []struct {
		width float64
		zone  game.Zone
	}{
		{layout.CritDegrees, game.ZoneCrit},
		{layout.NormalDegrees, game.ZoneNormal},
		{layout.GrazeDegrees, game.ZoneGraze},
		{layout.MissDegrees, game.ZoneMiss},
	}

	upper := 0.0
	for _, b := range bounds {
		upper += b.width
		if angle < upper {
			return b.zone, nil
		}
	}
	return game.ZoneInjure, nil
}
