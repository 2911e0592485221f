package rng_test

import (
	"crypto/sha256"
	"fmt"

	"github.com/dshills/traitforge/pkg/rng"
)

// ExampleNewRNG demonstrates deriving one RNG per scheduler worker.
func ExampleNewRNG() {
	masterSeed := uint64(123456789)
	requestHash := sha256.Sum256([]byte("request_v1"))

	worker0 := rng.NewRNG(masterSeed, "worker-0", requestHash[:])
	worker1 := rng.NewRNG(masterSeed, "worker-1", requestHash[:])

	fmt.Println(worker0.Seed() != worker1.Seed())

	// Same inputs always re-derive the same seed.
	worker0Again := rng.NewRNG(masterSeed, "worker-0", requestHash[:])
	fmt.Println(worker0.Seed() == worker0Again.Seed())

	// Output:
	// true
	// true
}

// ExampleRNG_Shuffle demonstrates deterministic shuffling: two RNGs with
// the same inputs shuffle a slice into the same order.
func ExampleRNG_Shuffle() {
	requestHash := sha256.Sum256([]byte("request"))
	a := rng.NewRNG(42, "worker-0", requestHash[:])
	b := rng.NewRNG(42, "worker-0", requestHash[:])

	traitsA := []string{"forest", "city", "volcano", "tundra"}
	traitsB := []string{"forest", "city", "volcano", "tundra"}
	a.Shuffle(len(traitsA), func(i, j int) { traitsA[i], traitsA[j] = traitsA[j], traitsA[i] })
	b.Shuffle(len(traitsB), func(i, j int) { traitsB[i], traitsB[j] = traitsB[j], traitsB[i] })

	match := true
	for i := range traitsA {
		if traitsA[i] != traitsB[i] {
			match = false
		}
	}
	fmt.Println(match)

	// Output:
	// true
}

// ExampleRNG_WeightedChoice demonstrates weighted trait sampling: a trait
// with rarity_weight 5 should be drawn roughly five times as often as one
// with rarity_weight 1 over many draws.
func ExampleRNG_WeightedChoice() {
	requestHash := sha256.Sum256([]byte("request"))
	r := rng.NewRNG(999, "worker-0", requestHash[:])

	// weight=1 ("Mythic") vs weight=5 ("Common"): higher weight draws more often.
	weights := []float64{1.0, 5.0}
	counts := [2]int{}
	const draws = 6000
	for i := 0; i < draws; i++ {
		counts[r.WeightedChoice(weights)]++
	}

	ratio := float64(counts[1]) / float64(counts[0])
	fmt.Println(ratio > 3.0 && ratio < 8.0)

	// Output:
	// true
}
