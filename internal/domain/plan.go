package domain

import "time"

// OrganizationSuggestion is one bookmark's proposed destination category,
// as parsed out of a model response and validated against its batch.
type OrganizationSuggestion struct {
	BookmarkID        string   `json:"bookmarkId"`
	SuggestedCategory string   `json:"suggestedCategory"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
	SuggestedTags     []string `json:"suggestedTags,omitempty"`
}

// OrganizationConflict records a bookmark whose suggested category differs
// from where it currently sits. Advisory only; never blocks plan application.
type OrganizationConflict struct {
	BookmarkID        string  `json:"bookmarkId"`
	CurrentCategory   string  `json:"currentCategory"`
	SuggestedCategory string  `json:"suggestedCategory"`
	Confidence        float64 `json:"confidence"`
}

// PlanMetadata summarizes one organization run.
type PlanMetadata struct {
	TotalBookmarks  int       `json:"totalBookmarks"`
	TotalBatches    int       `json:"totalBatches"`
	FailedBatches   int       `json:"failedBatches"`
	SuggestionCount int       `json:"suggestionCount"`
	DuplicateGroups int       `json:"duplicateGroups"`
	ConflictCount   int       `json:"conflictCount"`
	ConfigsUsed     []string  `json:"configsUsed"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OrganizationPlan is the complete, user-reviewable output of one
// organization run. It is immutable once produced; applying it to a tree is
// a separate explicit step.
type OrganizationPlan struct {
	ID          string                   `json:"id"`
	Suggestions []OrganizationSuggestion `json:"suggestions"`
	Conflicts   []OrganizationConflict   `json:"conflicts"`
	Duplicates  []DuplicateGroup         `json:"duplicates"`
	NewFolders  []string                 `json:"newFolders"`
	Metadata    PlanMetadata             `json:"metadata"`
}
