package projects

import "math"

// sigmoid is the standard logistic curve centered at 0, used throughout
// the cost/capacity/damper curves below.
func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// learningMultiplier implements learning(x) = (max(x,ε)/x_ref)^(-b), with
// b = log2(1/(1-LR)). A zero learning rate (no calibrated
// curve for the channel) returns 1.0 unconditionally.
func learningMultiplier(cumDeployGt, xRef, learningRate float64) float64 {
	if learningRate <= 0 {
		return 1.0
	}
	x := cumDeployGt
	if x < 1e-6 {
		x = 1e-6
	}
	b := math.Log2(1 / (1 - learningRate))
	return math.Pow(x/xRef, -b)
}

// cdrLearningTaper dampens the CDR learning rate with a sigmoid of
// cumulative deployment past a configurable midpoint and slope: early
// deployments learn fast, mature fleets see diminishing cost declines.
func cdrLearningTaper(cumDeployGt, taperMidpointGt, taperSlope float64) float64 {
	if taperSlope <= 0 {
		taperSlope = 10
	}
	return 1 - 0.5*sigmoid((cumDeployGt-taperMidpointGt)/taperSlope)
}

// depletion implements depletion(n) = 1 + 0.15*log10(n+1).
func depletion(nProjects int) float64 {
	return 1 + 0.15*math.Log10(float64(nProjects)+1)
}

// conventionalScarcity implements the CONVENTIONAL scarcity multiplier: a
// sigmoid centered at 70% of a 1000 Gt "easy" budget, up to 4x cost, with a
// 10% capacity floor at exhaustion.
func conventionalScarcity(cumDeployGt float64) (costMultiplier, capacityFloor float64) {
	const easyBudget = 1000.0
	center := 0.70 * easyBudget
	frac := sigmoid((cumDeployGt - center) / (easyBudget * 0.12))
	costMultiplier = 1 + frac*3.0 // up to 4x
	capacityFloor = 1 - frac*0.9  // down to 10%
	return
}

// cdrScarcity implements the CDR material-budget scarcity multiplier: a
// sigmoid centered at 60% of the configurable material budget, up to
// cdrMaterialCostMultiplier (default 4x), floor cdrMaterialCapacityFloor
// (default 0.25). Material inflation applies only to new builds, so this
// must only be applied at initiation, never to opex of existing projects.
func cdrScarcity(cumDeployGt, materialBudgetGt, costMultiplierMax, capacityFloorMin float64) (costMultiplier, capacityFloor, utilization float64) {
	if materialBudgetGt <= 0 {
		materialBudgetGt = 1
	}
	center := 0.60 * materialBudgetGt
	frac := sigmoid((cumDeployGt - center) / (materialBudgetGt * 0.12))
	costMultiplier = 1 + frac*(costMultiplierMax-1)
	capacityFloor = 1 - frac*(1-capacityFloorMin)
	utilization = cumDeployGt / materialBudgetGt
	if utilization > 1 {
		utilization = 1
	}
	return
}

// netZeroProximityPenalty implements the CONVENTIONAL net-zero proximity
// cost penalty: 1.0 at E:S ≥ 6, phasing exponentially to 100x at E:S = 1
func netZeroProximityPenalty(esRatio float64) float64 {
	if esRatio >= 6 {
		return 1.0
	}
	if esRatio <= 1 {
		return 100.0
	}
	// Exponential phase-in across the [1, 6] band: 1.0 at 6, 100.0 at 1.
	t := (6 - esRatio) / 5.0 // 0 at ratio=6, 1 at ratio=1
	return math.Pow(100, t)
}

// scaleDamper implements d(cum_global_gt): a normalized sigmoid from 15% at
// 0 Gt to 100% at fullScaleGt, with midpoint at ~30% of full scale
func scaleDamper(cumGlobalGt, fullScaleGt, slope float64) float64 {
	if fullScaleGt <= 0 {
		fullScaleGt = 30
	}
	if slope <= 0 {
		slope = fullScaleGt * 0.15
	}
	midpoint := 0.30 * fullScaleGt
	raw := sigmoid((cumGlobalGt - midpoint) / slope)
	// Normalize so raw(0) maps to 0.15 and raw(→∞) maps to 1.0.
	raw0 := sigmoid((0 - midpoint) / slope)
	if raw0 >= 1 {
		raw0 = 0.999
	}
	return 0.15 + (raw-raw0)/(1-raw0)*0.85
}

// countDamper caps the number of projects a channel may initiate in a year
// as a function of cumulative deployment: an independent sigmoid with a
// floor of minFraction (20–40%) of the channel's potential starts at low
// cumulative deployment.
func countDamper(cumGlobalGt, fullScaleGt, minFraction float64) float64 {
	if fullScaleGt <= 0 {
		fullScaleGt = 30
	}
	frac := sigmoid((cumGlobalGt - 0.25*fullScaleGt) / (fullScaleGt * 0.2))
	return minFraction + frac*(1-minFraction)
}

// urgencyMultiplier implements u(CO2, inflation): taper_start ranges
// 370–425 ppm based on normalized inflation, with progressively smaller
// multipliers in bands below taper_start, decaying faster under high
// inflation.
func urgencyMultiplier(co2PPM, inflationRatio float64) float64 {
	// inflationRatio: realized inflation / 2% baseline, clamped to a
	// sensible calibration band before blending.
	infl := inflationRatio
	if infl < 0 {
		infl = 0
	}
	if infl > 3 {
		infl = 3
	}
	taperStart := 370 + (infl/3.0)*55 // 370 at low inflation, up to 425 at high

	if co2PPM >= taperStart {
		return 1.0
	}

	highInflationFactor := 1.0
	if infl > 1.0 {
		highInflationFactor = 1.0 - 0.3*((infl-1.0)/2.0)
	}

	switch {
	case co2PPM >= 370:
		return 0.7
	case co2PPM >= 360:
		return 0.4
	case co2PPM >= 350:
		return 0.15 * highInflationFactor
	default:
		return 0.02 * highInflationFactor
	}
}

// retirementIntensification implements the below-350-ppm intensified
// per-project retirement probability: base bands of 0.15/0.22/0.30/0.40
// scaled by depth below 350 ppm, multiplied by an inflation-tier factor in
// [0.8, 1.4] and capped at 0.5.
func retirementIntensification(co2PPM, inflationRatio float64) float64 {
	if co2PPM >= 350 {
		return 0
	}
	depth := 350 - co2PPM
	var base float64
	switch {
	case depth <= 5:
		base = 0.15
	case depth <= 10:
		base = 0.22
	case depth <= 20:
		base = 0.30
	default:
		base = 0.40
	}

	infl := inflationRatio
	if infl < 0 {
		infl = 0
	}
	if infl > 3 {
		infl = 3
	}
	inflationFactor := 0.8 + (infl/3.0)*0.6 // 0.8..1.4

	p := base * inflationFactor
	if p > 0.5 {
		p = 0.5
	}
	return p
}
