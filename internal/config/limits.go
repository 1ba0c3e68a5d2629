package config

const (
	// MinTitleLength is the minimum article title length after trimming.
	// Shorter titles are rejected outright by the content validator.
	MinTitleLength = 5

	// MaxTitleLength is the soft ceiling for article titles. Longer titles
	// are flagged as a warning, not rejected, since some syndicated content
	// legitimately exceeds it.
	MaxTitleLength = 200

	// ShortContentWords and BriefContentWords are the advisory thresholds
	// for human-authored content. Below ShortContentWords the validator
	// warns that content is too short; below BriefContentWords it suggests
	// expanding.
	ShortContentWords = 100
	BriefContentWords = 300

	// MinAIContentWords is the hard floor for AI-generated content before
	// it may enter review.
	MinAIContentWords = 500

	// MinAIHeadings is the minimum number of markdown headings required in
	// AI-generated content.
	MinAIHeadings = 2

	// SEODescriptionMax and SEODescriptionMin bound the advisory length
	// checks on the seo_description attribute.
	SEODescriptionMax = 160
	SEODescriptionMin = 120

	// MinAcceptableQualityScore is the AI quality-check floor. Scores below
	// this reject the content rather than passing silently.
	MinAcceptableQualityScore = 7

	// ContentCallBudget and ImageCallBudget cap simultaneous outbound calls
	// to the text and image generation services. Excess callers wait.
	ContentCallBudget = 3
	ImageCallBudget   = 2
)
