package faq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(url string) *Loader {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewLoader(url, 5*time.Second, "faqbot-test/1.0", nil, time.Minute, logger)
}

func TestLoaderFetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "faqbot-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("question,answer,visibility\n配送料はいくらですか,1000円です,public\n"))
	}))
	defer server.Close()

	rows, err := testLoader(server.URL).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "配送料はいくらですか", rows[0].Question)
	assert.Equal(t, "1000円です", rows[0].Answer)
}

func TestLoaderNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testLoader(server.URL).Load(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestParseTableQuotedComma(t *testing.T) {
	rows := ParseTable("question,answer\n\"a,b\",c\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "a,b", rows[0].Question)
	assert.Equal(t, "c", rows[0].Answer)
}

func TestParseTableEscapedQuote(t *testing.T) {
	rows := ParseTable("question,answer\n\"say \"\"hi\"\"\",ok\n")
	require.Len(t, rows, 1)
	assert.Equal(t, `say "hi"`, rows[0].Question)
}

func TestParseTableRowTerminators(t *testing.T) {
	rows := ParseTable("question,answer\r\nq1,a1\rq2,a2\nq3,a3")
	require.Len(t, rows, 3)
	assert.Equal(t, "a2", rows[1].Answer)
}

func TestParseTableVisibilityFilter(t *testing.T) {
	body := "question,answer,visibility\n" +
		"公開の質問,公開の回答,public\n" +
		"非公開の質問,非公開の回答,private\n" +
		"大文字でも公開,回答,PUBLIC\n" +
		"列が空なら公開,回答,\n"
	rows := ParseTable(body)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.NotEqual(t, "非公開の質問", row.Question)
	}
}

func TestParseTableLegacyAnswerColumn(t *testing.T) {
	// No "answer" header: the 4th column is the answer by the legacy rule.
	body := "col_a,col_b,col_c,col_d\nカテゴリ,質問,メモ,これが回答\n"
	rows := ParseTable(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "これが回答", rows[0].Answer)
}

func TestParseTableDropsEmptyAnswer(t *testing.T) {
	rows := ParseTable("question,answer\n回答なし,\nある,答え\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "答え", rows[0].Answer)
}

func TestParseTableShortRecordTolerated(t *testing.T) {
	body := "question,answer,keywords\nだけ\nq,a,k1 k2\n"
	rows := ParseTable(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Answer)
}

func TestParseTableSearchableText(t *testing.T) {
	body := "question,answer,keywords\n配送料は？,1000円です,送料 運賃\n"
	rows := ParseTable(body)
	require.Len(t, rows, 1)
	// Derived, normalized concatenation of the matching-relevant columns.
	assert.Equal(t, "配送料は送料運賃", rows[0].SearchableText)
}

func TestParseTableHeaderAliases(t *testing.T) {
	body := "CATEGORY_OR_QUESTION,Answer,SOURCE_URL_OR_NOTE,Keywords(optional),Visibility\n" +
		"営業時間は？,平日9時から18時です,https://example.com/hours,営業 時間,public\n"
	rows := ParseTable(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "営業時間は？", rows[0].Question)
	assert.Equal(t, "https://example.com/hours", rows[0].Source)
	assert.Equal(t, "営業 時間", rows[0].Keywords)
}

func TestParseTableEmptyBody(t *testing.T) {
	assert.Empty(t, ParseTable(""))
}
