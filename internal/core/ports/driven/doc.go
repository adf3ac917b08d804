// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FileStore: Workspace file persistence (memory or SQLite)
//   - DocumentEngine: PDF parsing, page copying and merging (pdfcpu)
//   - Rasterizer: Page preview rendering (MuPDF)
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
