package main

func scoreOf(f float64) *float64 { return &f }

// builtinFixtures give a fresh install something to look at: one article per
// lifecycle status plus an AI draft sitting in the review queue.
var builtinFixtures = []fixture{
	{
		Title:  "Getting Started with the Admin Console",
		Status: "published",
		Content: `# Getting Started with the Admin Console

Welcome to the content console. This guide walks through creating your first article, moving it through review, and publishing it.

## Creating an article

Open the editor and start typing. Drafts save with advisory warnings rather than hard failures, so a short outline is a fine place to start.

## The review queue

Articles submitted for review appear in the queue alongside any AI-generated drafts. A reviewer can publish, approve back to draft, or reject with notes.

## Publishing

Publishing stamps the article with its first publication time. Re-publishing after edits keeps the original timestamp.`,
		Category:       "documentation",
		Tags:           []string{"guide", "onboarding"},
		SEODescription: "Learn how to create, review, and publish articles in the content admin console with this step-by-step getting started guide.",
	},
	{
		Title:  "Editorial Style Notes",
		Status: "draft",
		Content: `# Editorial Style Notes

A working collection of style decisions for the publication.

## Headlines

Prefer sentence case. Keep titles under sixty characters where possible so search snippets do not truncate them.

## Structure

Every article longer than a few hundred words should carry at least two section headers.`,
		Category: "internal",
		Tags:     []string{"style"},
	},
	{
		Title:  "How Full-Text Search Ranks Your Articles",
		Status: "review",
		Content: `# How Full-Text Search Ranks Your Articles

The console searches titles and bodies together, with title matches weighted ahead of body matches.

## Query syntax

Quoted phrases match exactly, OR broadens a query, and a leading minus excludes a term.

## Ranking

Results come back ordered by cover density, so articles that address the query throughout rank above ones with a single passing mention.

## Snippets

Each result carries a highlighted fragment from the body showing the match in context.`,
		Category:       "documentation",
		Tags:           []string{"search", "guide"},
		SEODescription: "Understand how the console's full-text search weighs titles, ranks results by cover density, and highlights matching fragments.",
	},
	{
		Title:  "Five Habits of Productive Editorial Teams",
		Status: "draft",
		Content: `# Five Habits of Productive Editorial Teams

Editorial throughput is rarely limited by writing speed. It is limited by handoffs.

## Keep the queue short

A review queue longer than a day's work stops being a queue and becomes a backlog.

## Review in one pass

Collect every note before sending a piece back. Serial rejections burn author goodwill.

## Write rejections that teach

A rejection note should name the fix, not just the flaw.

## Separate editing from approving

The person polishing prose should not be the person deciding whether it ships.

## Measure the round trips

If most articles need three passes, the brief is broken, not the writers.`,
		Category:     "editorial",
		Tags:         []string{"process", "teams"},
		AIGenerated:  true,
		AIModel:      "claude-3-sonnet-20240229",
		QualityScore: scoreOf(8.5),
	},
	{
		Title:  "Legacy Import Notes (2024)",
		Status: "archived",
		Content: `# Legacy Import Notes (2024)

Record of the one-time migration from the previous CMS. Kept for audit purposes.

## Scope

All published posts and their publication dates were carried over. Draft material older than a year was dropped by agreement with the editorial leads.`,
		Category: "internal",
		Tags:     []string{"migration"},
	},
}
