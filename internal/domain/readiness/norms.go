package readiness

import "github.com/okian/vitals/internal/domain/model"

// Spread floors applied when no demographic is supplied.
const (
	defaultHRVSpreadFloor = 3.0 // ms
	defaultRHRSpreadFloor = 1.0 // bpm

	hrvFloorFraction = 0.10
	rhrFloorFraction = 0.03
)

// norm is a population reference for one demographic cell.
type norm struct {
	hrv float64 // median RMSSD, ms
	rhr float64 // median resting HR, bpm
}

// populationNorms are approximate medians for wearable-derived nightly
// RMSSD and resting heart rate.
var populationNorms = map[model.Gender]map[model.AgeBucket]norm{
	model.GenderMale: {
		model.Age18to29: {hrv: 52, rhr: 58},
		model.Age30to39: {hrv: 43, rhr: 59},
		model.Age40to49: {hrv: 35, rhr: 60},
		model.Age50to59: {hrv: 30, rhr: 61},
		model.Age60Plus: {hrv: 26, rhr: 61},
	},
	model.GenderFemale: {
		model.Age18to29: {hrv: 49, rhr: 62},
		model.Age30to39: {hrv: 41, rhr: 63},
		model.Age40to49: {hrv: 34, rhr: 63},
		model.Age50to59: {hrv: 29, rhr: 63},
		model.Age60Plus: {hrv: 25, rhr: 63},
	},
}

// lookupNorm returns the population norm for d. GenderOther averages the two
// tables.
func lookupNorm(d model.Demographic) (norm, bool) {
	if d.Gender == model.GenderOther {
		m, okM := populationNorms[model.GenderMale][d.AgeBucket]
		f, okF := populationNorms[model.GenderFemale][d.AgeBucket]
		if !okM || !okF {
			return norm{}, false
		}
		return norm{hrv: (m.hrv + f.hrv) / 2, rhr: (m.rhr + f.rhr) / 2}, true
	}
	n, ok := populationNorms[d.Gender][d.AgeBucket]
	return n, ok
}

// spreadFloors returns the minimum spread for HRV and RHR. A demographic only
// rescales these floors; the score transform keeps its shape.
func spreadFloors(d *model.Demographic) (hrv, rhr float64) {
	if d == nil {
		return defaultHRVSpreadFloor, defaultRHRSpreadFloor
	}
	n, ok := lookupNorm(*d)
	if !ok {
		return defaultHRVSpreadFloor, defaultRHRSpreadFloor
	}
	return n.hrv * hrvFloorFraction, n.rhr * rhrFloorFraction
}
