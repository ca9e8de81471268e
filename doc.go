// Package backend provides the PhishAware API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Admin authentication and session tokens
// - internal/tracking: Tracking token issuance and click recording
// - internal/quiz: Awareness quiz bank and grading
// - internal/scoring: Risk score computation
// - internal/reporting: Campaign and department aggregation
// - internal/email: Simulation email templates and SES delivery
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (rate limiting, etc.)
// - internal/cache: Redis caching for report endpoints

// See the individual package documentation for detailed API reference.
package backend
