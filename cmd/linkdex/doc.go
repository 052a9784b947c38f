// Package main hosts the linkdex service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, metrics, and link endpoints. A submitted URL is
//     validated, persisted as a PROCESSING record, processed synchronously, and returned settled;
//     clients poll GET /v1/links/{link_id} to observe a record's terminal state.
//   - Extraction: internal/extract chains a cheap Colly-based static fetch with a Chromedp headless
//     render. The static tier reports a tagged outcome; an explicit heuristic decides promotion
//     (fetch error, non-2xx status, empty body, or a client-rendered shell). Headless contexts are
//     torn down on every exit path and bounded by a navigation timeout plus a fixed settle delay.
//   - Enrichment: internal/enrich calls an OpenAI-compatible chat-completions endpoint for a
//     categorized, tagged, summarized result and degrades to a deterministic title-heuristic
//     fallback on any failure, so enrichment never blocks link creation.
//   - Persistence: internal/storage provides a Postgres store (pgx, UNIQUE url, JSONB metadata)
//     and an in-memory store for development. The uniqueness constraint on url is the only
//     coordination required between concurrent submissions of the same URL.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured
//     logging; Prometheus collectors track extraction tiers, enrichment paths, submissions, and
//     HTTP traffic via the metrics middleware and /metrics handler.
//
// Operational notes:
//   - Concurrency model: each submission runs within its own request goroutine; headless renders
//     share a semaphore sized by headless.max_parallel. No job queue is persisted — the record's
//     status field is the only durable progress marker.
//   - Run locally: go run ./cmd/linkdex -config config.yaml (or rely solely on LINKDEX_* env
//     overrides). With db.provider=memory no external services are required.
package main
