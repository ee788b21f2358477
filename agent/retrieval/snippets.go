// Package retrieval backs the two retriever tools with a Postgres
// snippet corpus: keyword match over corpus-tagged rows, ranked by the
// number of matched terms.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

type Corpus string

const (
	CorpusStoreInfo   Corpus = "store_info"
	CorpusProductInfo Corpus = "product_info"
)

const defaultSnippetLimit = 4

type snippetRow struct {
	bun.BaseModel `bun:"table:knowledge_snippets,alias:k"`

	ID      int64  `bun:"id,pk,autoincrement"`
	Corpus  string `bun:"corpus,notnull"`
	Title   string `bun:"title,notnull"`
	Content string `bun:"content,notnull"`
}

// SnippetStore serves one corpus; build one per retriever tool over a
// shared bun handle.
type SnippetStore struct {
	db     bun.IDB
	corpus Corpus
	limit  int
}

func NewSnippetStore(db bun.IDB, corpus Corpus) (*SnippetStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	if corpus != CorpusStoreInfo && corpus != CorpusProductInfo {
		return nil, fmt.Errorf("unknown corpus %q", corpus)
	}
	return &SnippetStore{db: db, corpus: corpus, limit: defaultSnippetLimit}, nil
}

// Init creates the snippet table if it does not exist yet.
func (s *SnippetStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*snippetRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create knowledge_snippets table: %w", err)
	}
	return nil
}

// Add inserts one snippet into the store's corpus.
func (s *SnippetStore) Add(ctx context.Context, title, content string) error {
	row := &snippetRow{Corpus: string(s.corpus), Title: title, Content: content}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// Search returns the top snippets matching the query, concatenated.
// ("", nil) means nothing matched; the tool layer renders the
// user-facing fallback.
func (s *SnippetStore) Search(ctx context.Context, query string) (string, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return "", nil
	}

	var rows []snippetRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("corpus = ?", string(s.corpus))

	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, term := range terms {
			q = q.WhereOr("content ILIKE ?", "%"+term+"%").
				WhereOr("title ILIKE ?", "%"+term+"%")
		}
		return q
	})

	if err := q.Limit(s.limit * 4).Scan(ctx); err != nil {
		return "", fmt.Errorf("search snippets: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	ranked := rankByHits(rows, terms)
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	var b strings.Builder
	for i, r := range ranked {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Title)
		b.WriteString(": ")
		b.WriteString(r.Content)
	}
	return b.String(), nil
}

// tokenize lowercases the query and keeps distinct terms of 3+ runes.
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.Trim(f, ".,;:!?¿¡\"'()")
		if len([]rune(trimmed)) < 3 {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func rankByHits(rows []snippetRow, terms []string) []snippetRow {
	type scored struct {
		row  snippetRow
		hits int
	}
	all := make([]scored, 0, len(rows))
	for _, r := range rows {
		haystack := strings.ToLower(r.Title + " " + r.Content)
		hits := 0
		for _, t := range terms {
			if strings.Contains(haystack, t) {
				hits++
			}
		}
		all = append(all, scored{row: r, hits: hits})
	}
	// Insertion sort by hits desc; corpora are small.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].hits > all[j-1].hits; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	out := make([]snippetRow, 0, len(all))
	for _, s := range all {
		out = append(out, s.row)
	}
	return out
}
