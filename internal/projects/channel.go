// Package projects implements Project entities and the ProjectsBroker:
// initiation, learning curves, capacity limits, advancement, and
// retirement across the three mitigation channels.
package projects

// Channel is the project's mitigation pathway.
type Channel int

const (
	CDR Channel = iota
	CONVENTIONAL
	AVOIDED_DEFORESTATION
)

func (c Channel) String() string {
	switch c {
	case CDR:
		return "CDR"
	case CONVENTIONAL:
		return "CONVENTIONAL"
	case AVOIDED_DEFORESTATION:
		return "AVOIDED_DEFORESTATION"
	default:
		return "UNKNOWN"
	}
}

// channelStatic holds the per-channel constants colocated with the variant
// definition.
type channelStatic struct {
	MaxOperationalYears int
	LearningRate        float64 // default LR; 0 means no learning curve for this channel
	LearningXRef        float64
	FailureSensitivity  float64
	BaseCostPerTonne    float64
}

var channelTable = map[Channel]channelStatic{
	CDR:                   {MaxOperationalYears: 100, LearningRate: 0.20, LearningXRef: 1.0, FailureSensitivity: 1.0, BaseCostPerTonne: 250},
	CONVENTIONAL:          {MaxOperationalYears: 25, LearningRate: 0.12, LearningXRef: 5.0, FailureSensitivity: 1.2, BaseCostPerTonne: 40},
	AVOIDED_DEFORESTATION: {MaxOperationalYears: 50, LearningRate: 0, LearningXRef: 1, FailureSensitivity: 1.5, BaseCostPerTonne: 15},
}

// InitiationOrder is the strict per-tick channel processing order:
// avoided deforestation first, then conventional, then CDR.
var InitiationOrder = []Channel{AVOIDED_DEFORESTATION, CONVENTIONAL, CDR}
