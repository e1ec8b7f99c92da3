// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

/*
Package metrics provides Prometheus collectors for observability.

Collectors are package-level variables registered through promauto at
init time; handlers and services record into them directly or through
the Record* helpers. Metrics are exposed at /metrics in Prometheus text
format.

The package covers:
  - API request throughput and latency (api_requests_total,
    api_request_duration_seconds)
  - Recommendation outcomes (recommend_requests_total,
    recommend_duration_seconds, recommend_result_count)
  - Catalog model builds (engine_builds_total,
    engine_build_duration_seconds, engine_model_version,
    engine_vocabulary_size, engine_documents)
  - Catalog store size and mutations (catalog_items,
    catalog_mutations_total)
  - External re-ranking (rerank_requests_total by outcome,
    rerank_duration_seconds)
  - Circuit breaker state and transitions (circuit_breaker_*)

Example PromQL:

	# recommendation p95 latency
	histogram_quantile(0.95, rate(recommend_duration_seconds_bucket[5m]))

	# share of requests served by the local fallback
	sum(rate(rerank_requests_total{outcome!="ok"}[5m]))
	/
	sum(rate(rerank_requests_total[5m]))

All recording functions are safe for concurrent use. Labels are kept at
fixed, low cardinality: endpoint labels carry route patterns, never raw
paths with IDs.
*/
package metrics
