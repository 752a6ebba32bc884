package sim

// Snapshot is one tick's annual output record, the row an external
// exporter or dashboard would consume. Each field corresponds to one
// output column but uses Go naming rather than the column's exact spelling
// (CO2_ppm is CO2PPM, CEA_Brake_Factor is BrakeFactor), so writing tabular
// rows takes a name mapping such as the one in the store package.
type Snapshot struct {
	Year int

	CO2PPM     float64
	BAUCO2PPM  float64
	CO2Avoided float64

	TemperatureAnomaly float64
	Inflation          float64

	MarketPrice float64
	PriceFloor  float64
	Sentiment   float64
	BrakeFactor float64

	XCRSupply           float64
	XCRMinted           float64
	XCRBurnedAnnual     float64
	XCRBurnedCumulative float64
	CobenefitBonusXCR   float64

	ProjectsTotal       int
	ProjectsOperational int
	ProjectsDevelopment int
	ProjectsFailed      int

	SequestrationTonnes           float64
	CDRSequestrationTonnes        float64
	ConventionalMitigationTonnes  float64
	AvoidedDeforestationTonnes    float64
	ReversalTonnes                float64

	CQESpent               float64
	AnnualCQESpent         float64
	AnnualCQEBudget        float64
	CQEBudgetUtilization   float64
	XCRPurchased           float64
	CQEBudgetTotal         float64

	ActiveCountries int

	OceanUptakeGtC        float64
	LandUptakeGtC         float64
	AirborneFraction      float64
	PermafrostEmissionsGtC float64
	FireEmissionsGtC      float64
	CumulativeEmissionsGtC float64
	ClimateRiskMultiplier float64

	NetCapitalFlow       float64
	CapitalDemandPremium float64
	ForwardGuidance      float64

	CDRCostPerTonne         float64
	ConventionalCostPerTonne float64
	CDRCumulativeGtCO2       float64
	ConventionalCumulativeGtCO2 float64
	CDRREffective            float64
	ConventionalREffective   float64
	ConventionalCapacityUtilization float64
	CDRMaterialUtilization   float64
	CDRBuildoutStopped       bool
}

// Diagnostic is a recorded numerical-clipping or exhaustion event, never an
// error.
type Diagnostic struct {
	Tick      int
	Component string
	Message   string
}

// CountryAttribution is the end-of-run per-country ledger.
type CountryAttribution struct {
	CountryID              int
	Name                   string
	CumulativeXCREarned    float64
	CumulativePurchaseUSD  float64
}
