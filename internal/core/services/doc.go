// Package services implements the core business logic as a set of
// cooperating agents. The coordinator routes work between the ingestion,
// retrieval and response agents using typed messages.
package services
