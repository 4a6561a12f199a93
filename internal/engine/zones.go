package engine

// Zone multipliers over critical pace, from slow edge to fast. Adjacent zones
// share a bound so the five bands tile the pace axis with no gaps.
var zoneBands = [5]struct {
	name string
	slow float64 // multiplier for the slower edge, 0 = open
	fast float64 // multiplier for the faster edge, 0 = open
}{
	{"recovery", 0, 1.35},
	{"aerobic base", 1.35, 1.20},
	{"tempo", 1.20, 1.08},
	{"threshold", 1.08, 0.97},
	{"max effort", 0.97, 0},
}

// DeriveZones converts an anaerobic threshold pace (critical pace) into the
// five training zones. Deterministic and total for any positive input; the
// caller guarantees positivity by only passing validated estimates.
func DeriveZones(criticalPaceSec float64) ZoneProfile {
	p := ZoneProfile{CriticalPaceSec: criticalPaceSec}
	for i, b := range zoneBands {
		p.Zones[i] = Zone{
			Number:  i + 1,
			Name:    b.name,
			SlowSec: b.slow * criticalPaceSec,
			FastSec: b.fast * criticalPaceSec,
		}
	}
	return p
}

// ZoneFor returns the zone containing the given pace. Bounds are half-open on
// the slow side so a pace sitting exactly on a shared bound lands in the
// faster zone.
func (p ZoneProfile) ZoneFor(paceSecPerKm float64) Zone {
	for _, z := range p.Zones {
		if z.SlowSec == 0 {
			if paceSecPerKm > z.FastSec {
				return z
			}
			continue
		}
		if z.FastSec == 0 {
			return z
		}
		if paceSecPerKm <= z.SlowSec && paceSecPerKm > z.FastSec {
			return z
		}
	}
	return p.Zones[4]
}
