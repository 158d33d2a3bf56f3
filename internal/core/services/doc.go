// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// KnowledgeService owns the ingestion and query pipelines,
// SourceService manages source configuration, and SettingsService
// persists application settings. Relevance scoring and citation
// building are internal helpers of the query path.
package services
