// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides long-term knowledge storage and retrieval
// capabilities for persistent agent memory across sessions.
//
// The memory package implements the types.MemoryService interface to enable
// agents to store, search, and retrieve information from past conversations.
// The session manager archives sessions here before deleting them, so expired
// conversations stay searchable.
//
// # Basic Usage
//
//	memoryService := memory.NewInMemoryService()
//
//	// Store a session in memory.
//	err := memoryService.AddSessionToMemory(ctx, session)
//
//	// Search past conversations.
//	response, err := memoryService.SearchMemory(ctx, "myapp", "user123", "weather forecast")
//	for _, entry := range response.Memories {
//		fmt.Printf("%s: %v\n", entry.Author, entry.Content)
//	}
//
// [InMemoryService] matches on keywords rather than meaning and holds
// everything in process memory; it is intended for development and tests.
// Production deployments should implement types.MemoryService against a
// vector store or search index.
package memory
