package engine

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

var (
	internalSeed = CreateRandomStateSeed()
	internalRng  = CreateRNG(&internalSeed)
)

func CreateRandomStateSeed() rand.PCG {
	var randBytes [16]byte
	_, err := cryptoRand.Read(randBytes[:])
	if err != nil {
		panic(err)
	}

	return *rand.NewPCG(binary.LittleEndian.Uint64(randBytes[0:8]), binary.LittleEndian.Uint64(randBytes[8:]))
}

func CreateRNG(seed *rand.PCG) *rand.Rand {
	return rand.New(seed)
}

// randIntN draws from [0, n) using a single Float64 call.
// All engine draws go through Float64 so a fixed test source can never stall rand's rejection sampling.
func randIntN(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}

	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}

	return i
}

// chance reports whether a uniform draw landed under p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
