// Package domain contains the core business entities and rules for corpora.
// It has no dependencies on infrastructure - all types here are pure data
// structures and business logic that the ingestion and query pipelines share.
package domain
