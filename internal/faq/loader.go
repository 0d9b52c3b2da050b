package faq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/textmatch"
)

// Row is a single public FAQ entry loaded from the remote table. Rows are
// rebuilt on every load and carry no identity across fetches.
type Row struct {
	Question       string
	Answer         string
	Category       string
	Keywords       string
	Source         string
	Visibility     string
	SearchableText string
}

// FetchError reports a remote table fetch that failed outright (unreachable
// or non-2xx). It aborts the whole FAQ lookup; the transport layer surfaces
// it as a generic internal error.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed with status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// legacyAnswerColumn is the fixed fallback index (the 4th column) used to
// locate the answer when no header names it. Legacy sheets were exported
// without headers with the answer always in column D; this is a deliberate
// compatibility rule, not a guess.
const legacyAnswerColumn = 3

// BodyCache is the transport-layer TTL cache in front of the table fetch.
// A nil cache disables caching.
type BodyCache interface {
	GetFetchedBody(ctx context.Context, url string) (string, error)
	CacheFetchedBody(ctx context.Context, url, body string, ttl time.Duration) error
}

// Loader fetches and parses the remote CSV table into FAQ rows.
type Loader struct {
	tableURL  string
	client    *http.Client
	cache     BodyCache
	cacheTTL  time.Duration
	userAgent string
	logger    *logrus.Logger
}

func NewLoader(tableURL string, timeout time.Duration, userAgent string, cache BodyCache, cacheTTL time.Duration, logger *logrus.Logger) *Loader {
	return &Loader{
		tableURL:  tableURL,
		client:    &http.Client{Timeout: timeout},
		cache:     cache,
		cacheTTL:  cacheTTL,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Load fetches the table and returns the public rows. The fetch error is
// propagated; individual malformed rows are tolerated.
func (l *Loader) Load(ctx context.Context) ([]Row, error) {
	body, err := l.fetchBody(ctx)
	if err != nil {
		return nil, err
	}
	rows := ParseTable(body)
	l.logger.WithFields(logrus.Fields{
		"url":  l.tableURL,
		"rows": len(rows),
	}).Debug("FAQ table loaded")
	return rows, nil
}

func (l *Loader) fetchBody(ctx context.Context) (string, error) {
	if l.cache != nil {
		if cached, err := l.cache.GetFetchedBody(ctx, l.tableURL); err == nil {
			l.logger.Debug("FAQ table served from cache")
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.tableURL, nil)
	if err != nil {
		return "", &FetchError{URL: l.tableURL, Err: err}
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: l.tableURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: l.tableURL, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: l.tableURL, Err: err}
	}
	body := string(raw)

	if l.cache != nil {
		if err := l.cache.CacheFetchedBody(ctx, l.tableURL, body, l.cacheTTL); err != nil {
			l.logger.WithError(err).Warn("Failed to cache FAQ table body")
		}
	}
	return body, nil
}

// ParseTable parses CSV text into public FAQ rows. The first record is the
// header; semantic columns are located by case-insensitive name, with the
// legacy column-D fallback for the answer. Rows missing an answer or not
// marked public are dropped. Parse problems in individual records degrade
// to skipped records, never an error.
func ParseTable(body string) []Row {
	// Accept CRLF and bare CR row terminators alongside LF.
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	cols := locateColumns(header)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row, ok := buildRow(record, cols)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// columnIndexes holds the located semantic columns; -1 means absent.
type columnIndexes struct {
	question   int
	answer     int
	category   int
	keywords   int
	source     int
	visibility int
}

func locateColumns(header []string) columnIndexes {
	cols := columnIndexes{question: -1, answer: -1, category: -1, keywords: -1, source: -1, visibility: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question", "category_or_question":
			if cols.question == -1 {
				cols.question = i
			}
		case "answer":
			cols.answer = i
		case "category":
			cols.category = i
		case "source_url_or_note":
			cols.source = i
		case "keywords", "keywords(optional)":
			cols.keywords = i
		case "visibility":
			cols.visibility = i
		}
	}
	if cols.answer == -1 {
		cols.answer = legacyAnswerColumn
	}
	return cols
}

func buildRow(record []string, cols columnIndexes) (Row, bool) {
	row := Row{
		Question:   field(record, cols.question),
		Answer:     field(record, cols.answer),
		Category:   field(record, cols.category),
		Keywords:   field(record, cols.keywords),
		Source:     field(record, cols.source),
		Visibility: field(record, cols.visibility),
	}
	if row.Answer == "" {
		return Row{}, false
	}
	if row.Visibility != "" && !strings.EqualFold(row.Visibility, "public") {
		return Row{}, false
	}
	row.SearchableText = textmatch.Normalize(row.Question + " " + row.Category + " " + row.Keywords)
	return row, true
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
