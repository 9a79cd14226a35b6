// Package models defines the domain entities exchanged with the Forma API.
//
// The package contains plain data transfer objects:
//   - [User] : the authenticated account
//   - [FirmProfile] : firm branding attached to generated documents
//   - [LeadMagnet] : a generated or in-progress PDF lead magnet
//   - [Draft] : wizard answers that feed generation
//   - [PDFTemplate] : a selectable layout template
//   - [DashboardStats] : account activity counters
//   - [ValidChoices] : the server's canonical option lists
//
// choices.go carries local copies of the canonical option lists so the wizard
// can render selections before (or without) hitting the valid-choices endpoint.
package models
