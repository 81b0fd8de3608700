// Package electionservice implements election administration inside the
// election-administration context.
//
// The module owns the election lifecycle (date-derived statuses with an
// explicit override path), ballot transaction handling with log-backed
// tallies, per-position results aggregation, and election event production
// through outbox-backed workers. Business rules live in the domain and
// application layers; storage and transport sit behind ports and adapters.
package electionservice
