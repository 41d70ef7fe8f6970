package montecarlo

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// studentTScale returns the student-t scale whose standard deviation is stdDev.
// The variance is undefined for nu <= 2, there stdDev is used as the scale.
func studentTScale(stdDev, nu float64) float64 {
	if nu <= 2 {
		return stdDev
	}
	return stdDev * math.Sqrt((nu-2)/nu)
}

// newShockSampler returns the zero-mean rate shock distribution of the config,
// drawing from src.
func newShockSampler(c Config, src rand.Source) distuv.Rander {
	switch c.distribution() {
	case DistributionStudentT:
		return distuv.StudentsT{
			Mu:    0,
			Sigma: studentTScale(c.RateShockStdDev, c.DegreesOfFreedom),
			Nu:    c.DegreesOfFreedom,
			Src:   src,
		}

	default:
		return distuv.Normal{
			Mu:    0,
			Sigma: c.RateShockStdDev,
			Src:   src,
		}
	}
}

// trialSeed derives an independent stream seed for each trial with the splitmix64
// finalizer, so a trial's draws depend only on the run seed and its index.
func trialSeed(seed uint64, trial int) uint64 {
	z := seed + uint64(trial+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// newTrialRand returns the private random stream of one trial
func newTrialRand(seed uint64, trial int) (rand.Source, *rand.Rand) {
	src := rand.NewSource(trialSeed(seed, trial))
	return src, rand.New(src)
}
