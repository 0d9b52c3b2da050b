// internal/services/resolver.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/docs"
	"github.com/wakatake-dev/faqbot/internal/faq"
	"github.com/wakatake-dev/faqbot/internal/models"
	"github.com/wakatake-dev/faqbot/internal/textmatch"
)

// FallbackMessage is the only user-visible "no answer" text. Why no answer
// was found is deliberately not communicated.
const FallbackMessage = "No matching answer was found. Please try rephrasing your question; a staff handoff is also possible."

// documentIntro prefixes document citations so the reply reads as a
// suggestion rather than a definitive answer.
const documentIntro = "こちらが参考になるかもしれません: "

// FAQLoader provides the FAQ table rows.
type FAQLoader interface {
	Load(ctx context.Context) ([]faq.Row, error)
}

// DocumentFetcher provides the allow-listed document candidates.
type DocumentFetcher interface {
	FetchAll(ctx context.Context, urls []string) []docs.Document
}

// Resolution is an Answer plus the metadata the transport layer records.
type Resolution struct {
	Answer models.Answer `json:"answer"`
	Source string        `json:"source"`
	Score  float64       `json:"score"`
}

// Resolver decides what to answer: FAQ table first, allow-listed documents
// second, fixed fallback last. Each state runs at most once per question
// and the ordering never changes.
type Resolver struct {
	faqLoader    FAQLoader
	fetcher      DocumentFetcher
	allowList    []string
	expander     *textmatch.Expander
	scorer       textmatch.Scorer
	faqThreshold float64
	docThreshold float64
	logger       *logrus.Logger
}

func NewResolver(
	faqLoader FAQLoader,
	fetcher DocumentFetcher,
	allowList []string,
	expander *textmatch.Expander,
	scorer textmatch.Scorer,
	faqThreshold, docThreshold float64,
	logger *logrus.Logger,
) *Resolver {
	return &Resolver{
		faqLoader:    faqLoader,
		fetcher:      fetcher,
		allowList:    allowList,
		expander:     expander,
		scorer:       scorer,
		faqThreshold: faqThreshold,
		docThreshold: docThreshold,
		logger:       logger,
	}
}

// Resolve answers one question. Its only side effects are the outbound
// fetches; given identical remote data it is deterministic.
func (r *Resolver) Resolve(ctx context.Context, question string) (models.Answer, error) {
	res, err := r.ResolveDetailed(ctx, question)
	return res.Answer, err
}

// ResolveDetailed is Resolve plus the source and score used for analytics.
func (r *Resolver) ResolveDetailed(ctx context.Context, question string) (Resolution, error) {
	// Expanded exactly once, on the original text, and reused by both
	// lookup states.
	expanded := r.expander.Expand(question)

	rows, err := r.faqLoader.Load(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("faq table load failed: %w", err)
	}

	if row, score, ok := r.bestRow(rows, expanded); ok {
		r.logger.WithFields(logrus.Fields{
			"question": question,
			"score":    score,
		}).Debug("FAQ row matched")
		text := row.Answer
		if row.Source != "" {
			// Source notes are surfaced inline, never as the structured URL.
			text += "\n参考: " + row.Source
		}
		return Resolution{
			Answer: models.Answer{Text: text},
			Source: models.SourceFAQ,
			Score:  score,
		}, nil
	}

	if doc, score, ok := r.bestDocument(ctx, expanded); ok {
		r.logger.WithFields(logrus.Fields{
			"question": question,
			"url":      doc.URL,
			"score":    score,
		}).Debug("Document matched")
		return Resolution{
			Answer: models.Answer{Text: documentIntro + documentLabel(doc), URL: doc.URL},
			Source: models.SourceDocument,
			Score:  score,
		}, nil
	}

	return Resolution{
		Answer: models.Answer{Text: FallbackMessage},
		Source: models.SourceFallback,
	}, nil
}

// bestRow returns the highest-scoring FAQ row when it clears the FAQ
// threshold. Ties keep the first row found.
func (r *Resolver) bestRow(rows []faq.Row, expanded string) (faq.Row, float64, bool) {
	var best faq.Row
	bestScore := 0.0
	found := false
	for _, row := range rows {
		target := row.Question
		if target == "" {
			target = row.SearchableText
		}
		score := r.scorer.Score(expanded, target)
		if !found || score > bestScore {
			best = row
			bestScore = score
			found = true
		}
	}
	if !found || bestScore < r.faqThreshold {
		return faq.Row{}, 0, false
	}
	return best, bestScore, true
}

func (r *Resolver) bestDocument(ctx context.Context, expanded string) (docs.Document, float64, bool) {
	if len(r.allowList) == 0 {
		return docs.Document{}, 0, false
	}
	candidates := r.fetcher.FetchAll(ctx, r.allowList)

	var best docs.Document
	bestScore := 0.0
	found := false
	for _, doc := range candidates {
		score := r.scorer.Score(expanded, doc.Joined)
		if !found || score > bestScore {
			best = doc
			bestScore = score
			found = true
		}
	}
	if !found || bestScore < r.docThreshold {
		return docs.Document{}, 0, false
	}
	return best, bestScore, true
}

func documentLabel(doc docs.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return doc.Snippet
}
