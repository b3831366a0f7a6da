package internal

import "time"

// Segment is one sentence-like unit produced by segmentation.
// Immutable once created; Tokens preserve surface order.
type Segment struct {
	SegID  string   `json:"seg_id"`
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// Sentence is a raw input sentence submitted to the pipeline, recorded
// for traceability of the pairs generated from it.
type Sentence struct {
	ID         string    `json:"id"`
	SourceText string    `json:"source_text"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Timestamp  time.Time `json:"timestamp"`
}
