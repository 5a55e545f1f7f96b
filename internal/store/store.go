package store

import (
	"context"
)

// State is the persisted lifecycle of an article. Only two states exist on
// disk: a record is either waiting for augmentation or has been augmented.
// There is deliberately no in-progress state, so a crash mid-augmentation
// leaves the record pending and it is simply re-selected on the next run.
type State int

const (
	StatePending State = iota
	StateAugmented
)

func (s State) String() string {
	if s == StateAugmented {
		return "augmented"
	}
	return "pending"
}

// Reference is a supporting link attached to an article when augmentation
// succeeds.
type Reference struct {
	Title string `bson:"title" json:"title"`
	Link  string `bson:"link" json:"link"`
}

// Article is the sole persisted entity. URL is the identity key: every upsert
// is keyed on it. OriginalContent holds the text exactly as scraped and is
// never overwritten by augmentation; Content starts equal to it and is
// replaced by the rewritten body once augmentation succeeds.
type Article struct {
	URL             string      `bson:"url" json:"url"`
	Title           string      `bson:"title" json:"title"`
	Date            string      `bson:"date,omitempty" json:"date,omitempty"`
	Content         string      `bson:"content" json:"content"`
	OriginalContent string      `bson:"originalContent" json:"originalContent"`
	IsUpdated       bool        `bson:"isUpdated" json:"isUpdated"`
	References      []Reference `bson:"references,omitempty" json:"references,omitempty"`
}

// State maps the persisted flag onto the explicit lifecycle enum.
func (a Article) State() State {
	if a.IsUpdated {
		return StateAugmented
	}
	return StatePending
}

// Store is the persistence contract shared by both pipeline phases and the
// read API. Implementations key on Article.URL for upserts and on the
// pending/augmented state for selection.
type Store interface {
	// UpsertScraped writes a freshly scraped article keyed by URL. Re-scraping
	// an existing URL updates the record in place and resets it to pending,
	// discarding any previous rewrite.
	UpsertScraped(ctx context.Context, a Article) error
	// FindByState returns all articles currently in the given state.
	FindByState(ctx context.Context, s State) ([]Article, error)
	// MarkAugmented replaces the article body with the rewritten text, attaches
	// the reference list, and moves the record to StateAugmented.
	MarkAugmented(ctx context.Context, url string, content string, refs []Reference) error
	// List returns every stored article, newest first.
	List(ctx context.Context) ([]Article, error)
}
