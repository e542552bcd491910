package citypandemic

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// xorshiftSource is a small, fast, fully-serializable math/rand.Source.
// The host simulator this core was designed against seeds its own PRNG
// with rand_xorshift::XorShiftRng (original_source/sim/src/pandemic/pandemic.rs);
// no library in the retrieval pack offers an equivalent Go xorshift
// generator, so this is implemented directly rather than reached for as a
// dependency — the algorithm is a dozen lines and its entire state is one
// uint64, which is exactly what a deterministic, round-trippable
// simulation PRNG needs (spec §6 "Persistence", §8 "Round-trip / idempotence").
type xorshiftSource struct {
	state uint64
}

func newXorshiftSource(seed int64) *xorshiftSource {
	s := &xorshiftSource{state: uint64(seed)}
	if s.state == 0 {
		s.state = 0x9E3779B97F4A7C15 // avoid the all-zero fixed point
	}
	return s
}

// next advances a xorshift64 state (shifts 13, 7, 17) and returns it
// scrambled by the xorshift64* output multiplier; shared by Int63 and
// Uint64.
func (x *xorshiftSource) next() uint64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 7
	x.state ^= x.state << 17
	return x.state * 0x2545F4914F6CDD1D
}

// Int63 implements math/rand.Source via xorshift64*.
func (x *xorshiftSource) Int63() int64 {
	return int64(x.next() >> 1)
}

// Uint64 implements math/rand.Source64 (and golang.org/x/exp/rand.Source),
// which gonum's stat/distuv generators accept as their RNG source.
func (x *xorshiftSource) Uint64() uint64 {
	return x.next()
}

// Seed implements math/rand.Source.
func (x *xorshiftSource) Seed(seed int64) {
	x.state = uint64(seed)
	if x.state == 0 {
		x.state = 0x9E3779B97F4A7C15
	}
}

// State returns the generator's full internal state, for persistence.
func (x *xorshiftSource) State() uint64 {
	return x.state
}

// SetState restores a previously captured internal state.
func (x *xorshiftSource) SetState(state uint64) {
	x.state = state
}

// diseaseRNG is the core's own PRNG, used for every sampling decision the
// disease state machine and the airborne exposure rule make. It is owned
// exclusively by PandemicModel (spec §5 "Shared resources"): nothing
// outside this package ever touches it, so sampling here can never
// perturb an unrelated RNG in the host.
type diseaseRNG struct {
	src *xorshiftSource
}

func newDiseaseRNG(seed int64) *diseaseRNG {
	return &diseaseRNG{src: newXorshiftSource(seed)}
}

// Exponential draws a single sample from Exp(lambda), used for the
// Sane -> Exposed waiting time (spec §4.C).
func (r *diseaseRNG) Exponential(lambda float64) Duration {
	d := distuv.Exponential{Rate: lambda, Src: r.src}
	return Duration(d.Rand())
}

// Normal draws a single sample from Normal(mu, sigma). Negative samples
// are returned as-is: they represent a duration and are tolerated, per
// spec §4.C, by scheduling a transition that is already in the past and
// therefore fires immediately.
func (r *diseaseRNG) Normal(mu, sigma float64) Duration {
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	return Duration(d.Rand())
}

// Bernoulli reports true with probability p, clamped into [0, 1]. It
// compares a uniform [0, 1) draw from the same xorshift source that
// Exponential and Normal use against p, so every trial is covered by
// State/SetState.
func (r *diseaseRNG) Bernoulli(p float64) bool {
	p = Clamp01(p)
	return float64(r.src.Uint64()>>11)/(1<<53) < p
}

// State returns the RNG's internal state for persistence.
func (r *diseaseRNG) State() uint64 {
	return r.src.State()
}

// SetState restores a previously captured internal state.
func (r *diseaseRNG) SetState(state uint64) {
	r.src.SetState(state)
}
