// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
//
// This package defines the core domain types used throughout the application
// for representing a journaling conversation.
//
// # Key Types
//
//   - Message: Single immutable message with role, content, and timestamp
//   - Role: Message role enumeration (user, assistant, system)
//   - Log: Append-only ordered sequence of messages
//
// # Usage
//
// Seed a log and append turns:
//
//	log := model.NewLog(model.NewAssistantMessage("Welcome back."))
//	log.Append(model.NewUserMessage("Today was a good day."))
package model
