// Package twob provides a personal AI assistant for the terminal.
// It routes free-form requests to explicit tools (task agent, web search,
// code generation, explanations, chat, reminders), backed by the Gemini
// API and a local SQLite store for reminders, settings, and conversation
// history.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package twob
