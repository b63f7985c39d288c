package entity

import "time"

// DigestMetadata is the assembler's summary of what it produced.
type DigestMetadata struct {
	TotalGroups   int
	TotalArticles int
	HTMLSize      int
	TextSize      int
	AssemblyMS    int64
}

// DigestPayload is the assembler's output, the workflow's final result
// handed to the email-send subsystem.
type DigestPayload struct {
	UserID              string
	Email               string
	GenerationTimestamp time.Time
	HTMLBody            string
	TextBody            string
	GroupsSummary       []ArticleGroup
	Metadata            DigestMetadata
}
