// Package service implements the application services that mutate the entity
// store under its transactional and deduplication invariants: resources,
// highlights, study tracks, flashcards and the local user profile.
//
// Services are explicit instances constructed once at process start and
// handed to their callers; there is no package-level state. Cascade logic
// (resource delete, highlight delete) is centralized here and wrapped in one
// store transaction per cascade, since the store does not enforce foreign
// keys. Store errors propagate to callers unchanged.
package service
