package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"creative-approval-engine/internal/cache"
	"creative-approval-engine/internal/keywords"
)

// KeywordSource supplies a fresh set of keyword tables.
type KeywordSource interface {
	LoadKeywords(ctx context.Context) (keywords.Tables, error)
}

// ApprovalEngine evaluates submissions against a keyword snapshot and image
// thresholds. Evaluation is lock-free; the snapshot is swapped whole on reload.
type ApprovalEngine struct {
	th   Thresholds
	snap *cache.Snapshot[keywords.Tables]
}

func NewEngine(th Thresholds, tb keywords.Tables) *ApprovalEngine {
	return &ApprovalEngine{th: th, snap: cache.NewSnapshot(tb)}
}

// Keywords returns the current keyword snapshot.
func (e *ApprovalEngine) Keywords() keywords.Tables {
	tb, _ := e.snap.Load()
	return tb
}

// ReloadKeywords loads tables from src and swaps them in. On error the
// current snapshot stays in place.
func (e *ApprovalEngine) ReloadKeywords(ctx context.Context, src KeywordSource) error {
	tb, err := src.LoadKeywords(ctx)
	if err != nil {
		return err
	}
	e.snap.Store(tb)
	log.Info().Interface("sizes", tb.Sizes()).Msg("keyword tables reloaded")
	return nil
}

// Evaluate runs image, filename and metadata checks in that order and folds
// them into one Decision. It is pure given the snapshot it loads.
func (e *ApprovalEngine) Evaluate(sub Submission) Decision {
	tb := e.Keywords()

	findings := EvaluateImageProperties(sub.Image, e.th)
	byName := EvaluateFilename(tb, sub.Filename)
	byMeta := approved()
	if sub.Metadata != nil {
		byMeta = EvaluateMetadata(tb, *sub.Metadata)
	}

	return Aggregate(sub.Image, findings, byName, byMeta)
}

// Aggregate concatenates reasons in evaluation order (image, filename,
// metadata) and takes the most severe status.
func Aggregate(img ImageFacts, findings []Finding, results ...Result) Decision {
	d := Decision{
		Reasons: []string{},
		Format:  img.Format,
		Width:   img.Width,
		Height:  img.Height,
		Size:    img.Size,
	}

	worst := SeverityNone
	for _, f := range findings {
		d.Reasons = append(d.Reasons, f.Message)
		worst = max(worst, f.Severity)
	}
	for _, r := range results {
		d.Reasons = append(d.Reasons, r.Reasons...)
		worst = max(worst, r.Status.Severity())
	}

	// APPROVED iff no reasons
	if worst == SeverityNone && len(d.Reasons) > 0 {
		worst = SeverityReview
	}
	d.Status = worst.Status()
	return d
}
