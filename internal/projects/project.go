package projects

// Status is the project lifecycle state. Transitions are one-directional:
// DEVELOPMENT → OPERATIONAL → FAILED.
type Status int

const (
	DEVELOPMENT Status = iota
	OPERATIONAL
	FAILED
)

// Project is one carbon project. The identity, channel, host, cost, and
// R-value fields are never modified after Initiate constructs the value;
// only status, health, age, and the mint counter mutate.
type Project struct {
	ID                     int
	Channel                Channel
	HostCountryID          int
	StartYear              int
	DevelopmentYears       int
	AnnualSequestrationT   float64 // tonnes/year when operational
	MarginalCostPerTonne   float64 // locked at initiation
	BaseRValue             float64
	EffectiveRValue        float64

	Status            Status
	Health            float64
	YearsOperational  int
	TotalXCRMinted    float64

	developmentAge      int // years elapsed while in DEVELOPMENT, internal to Broker.Advance
	maxOperationalYears int
}

// MaxOperationalYears returns the channel-specific ceiling fixed at
// creation.
func (p *Project) MaxOperationalYears() int { return p.maxOperationalYears }

// IsGenerating reports whether the project currently contributes
// sequestration tonnes: only while OPERATIONAL.
func (p *Project) IsGenerating() bool { return p.Status == OPERATIONAL }
