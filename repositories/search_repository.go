package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SearchFilter narrows a full-text search. Limit and Offset are applied
// together or not at all.
type SearchFilter struct {
	IsGuideline *bool
	TagName     string
	Limit       *int
	Offset      *int
}

// SearchRepository runs ranked full-text queries over the latest revision of
// every post. The document is title, summary and content space-joined, parsed
// with the english analyzer; ranking uses cover density.
type SearchRepository interface {
	// BaseQuery normalizes free text into tsquery form ("'eleph' & 'tortois'").
	// An input of nothing but stop words and punctuation comes back empty.
	BaseQuery(text string) (string, error)
	// SearchLatest returns post ids ordered by rank descending, ties broken
	// by revision created_at descending. The tsquery argument is expected in
	// the form BaseQuery returns, optionally with a trailing prefix marker.
	SearchLatest(tsquery string, filter SearchFilter) ([]uint, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

const revisionDocument = `to_tsvector('english',
	coalesce(r.title, '') || ' ' || coalesce(r.summary, '') || ' ' || coalesce(r.content, ''))`

func (s *searchRepository) BaseQuery(text string) (string, error) {
	var base string
	err := s.db.Raw("SELECT plainto_tsquery('english', ?)::text", text).Scan(&base).Error
	if err != nil {
		return "", err
	}
	return base, nil
}

func (s *searchRepository) SearchLatest(tsquery string, filter SearchFilter) ([]uint, error) {
	var sql strings.Builder
	args := []interface{}{tsquery}

	sql.WriteString(`
		SELECT posts.id
		FROM posts
		JOIN revisions r ON posts.latest_revision_id = r.id
		WHERE ` + revisionDocument + ` @@ to_tsquery('english', ?)`)

	if filter.IsGuideline != nil {
		sql.WriteString(" AND posts.is_guideline = ?")
		args = append(args, *filter.IsGuideline)
	}

	if filter.TagName != "" {
		sql.WriteString(`
		AND EXISTS (
			SELECT 1 FROM revision_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.revision_id = r.id AND t.name = ?
		)`)
		args = append(args, filter.TagName)
	}

	sql.WriteString(`
		ORDER BY ts_rank_cd(` + revisionDocument + `, to_tsquery('english', ?)) DESC,
			r.created_at DESC, r.id DESC`)
	args = append(args, tsquery)

	if filter.Limit != nil && filter.Offset != nil {
		sql.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", *filter.Limit, *filter.Offset))
	}

	var ids []uint
	err := s.db.Raw(sql.String(), args...).Scan(&ids).Error
	return ids, err
}
