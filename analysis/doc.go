// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package analysis scores startup ideas.

# Remote Scoring

Client posts the idea to the external scoring service:

	client := analysis.NewClient("http://localhost:8001", 20*time.Second)
	result, err := client.Analyze(ctx, req)

The request body uses the service's snake_case field names (tech_service,
team_description, funding_total, ...). Non-2xx replies come back as
*StatusError; replies that do not decode or carry a score outside 0-100
wrap ErrInvalidResponse.

# Simulator

Simulator returns a deterministic analysis derived from the idea text. It
never fails and needs no network, which makes it the fallback scorer.

# Service

Service chains the two:

	svc := analysis.NewService(client, analysis.NewSimulator())

A nil remote means "simulator only". When the remote call fails for any
reason other than the caller going away, the error is logged and the
simulator answers instead. Result.Source records which path produced the
result ("ai" or "simulated").

# Scores

The combined score weighs the data model at 0.65 and the idea model at
0.35. RiskLevel buckets a score into high (<33), moderate (<66) or low.
*/
package analysis
