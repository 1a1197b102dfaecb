// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
)

var simulatedStrengths = []string{
	"Clear problem statement that is easy to communicate to investors.",
	"Addresses a market with visible and growing demand.",
	"Business model has a plausible path to recurring revenue.",
	"Idea can be validated quickly with a small pilot.",
	"Low initial capital requirement compared to similar ventures.",
	"Strong potential for network effects once users are onboarded.",
	"Technology choice fits the problem and can scale.",
	"Differentiates itself from obvious incumbents.",
}

var simulatedWeaknesses = []string{
	"Competitive landscape is not described in enough detail.",
	"Customer acquisition cost is uncertain.",
	"Go-to-market plan needs more concrete milestones.",
	"Revenue model depends on assumptions that are not yet tested.",
	"Regulatory requirements may slow down launch.",
	"Key risks and mitigation strategies are missing.",
	"Target segment is broad; a narrower beachhead would help.",
	"Unit economics are not yet demonstrated.",
}

const (
	weaknessNoTeam    = "Team composition and relevant experience are not described."
	weaknessNoFunding = "No external funding has been raised yet."
)

// Simulator produces a plausible analysis without calling out anywhere.
// Output is seeded from the idea text, so the same idea always gets the
// same result.
type Simulator struct{}

func NewSimulator() Simulator {
	return Simulator{}
}

func (Simulator) Analyze(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	seed := seedFor(req)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	dataScore := round2(simulatedDataScore(req, rng))
	ideaScore := round2(simulatedIdeaScore(req, rng))
	combined := CombineScores(dataScore, ideaScore)

	strengths := pick(simulatedStrengths, 2, rng)

	weaknesses := make([]string, 0, 3)
	if strings.TrimSpace(req.TeamDescription) == "" {
		weaknesses = append(weaknesses, weaknessNoTeam)
	}
	if req.FundingTotal <= 0 {
		weaknesses = append(weaknesses, weaknessNoFunding)
	}
	weaknesses = append(weaknesses, pick(simulatedWeaknesses, 3-len(weaknesses), rng)...)

	risk := RiskLevel(combined)

	return Result{
		Score:         combined,
		Strengths:     strengths,
		Weaknesses:    weaknesses,
		Summary:       fmt.Sprintf("Simulated assessment: %s risk, combined score %.1f/100.", risk, combined),
		Explanation:   "The AI service did not produce an analysis, so this result comes from the built-in simulator.",
		DataScore:     &dataScore,
		IdeaScore:     &ideaScore,
		CombinedScore: &combined,
		RiskLevel:     risk,
		Source:        SourceSimulated,
	}, nil
}

func seedFor(req Request) uint64 {
	h := fnv.New64a()
	for _, part := range []string{req.Title, req.Content, req.Market, req.TechService, req.TeamDescription} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// simulatedDataScore stands in for the historical-data model: funding,
// funding rounds and how much metadata was provided.
func simulatedDataScore(req Request, rng *rand.Rand) float64 {
	score := 30.0

	if req.FundingTotal > 0 {
		// 10k -> ~8, 1M -> ~12, 100M -> ~16
		score += math.Min(20, 2*math.Log10(req.FundingTotal+1))
	}
	score += math.Min(15, 3*float64(req.FundingRounds))

	for _, field := range []string{req.Market, req.TechService, req.Country, req.Region, req.City} {
		if strings.TrimSpace(field) != "" {
			score += 3
		}
	}

	score += rng.Float64() * 15
	return clamp(score, 0, 95)
}

// simulatedIdeaScore stands in for the pitch evaluation: longer, more
// detailed pitches and a described team score higher.
func simulatedIdeaScore(req Request, rng *rand.Rand) float64 {
	score := 35.0

	words := len(strings.Fields(req.Content))
	score += math.Min(25, float64(words)/8)

	if strings.TrimSpace(req.TeamDescription) != "" {
		score += 10
	}

	score += rng.Float64() * 20
	return clamp(score, 0, 98)
}

// pick returns n distinct entries of pool in random order
func pick(pool []string, n int, rng *rand.Rand) []string {
	if n <= 0 {
		return []string{}
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
