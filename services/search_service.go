package services

import (
	"errors"
	"strconv"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"gorm.io/gorm"
)

type SearchService interface {
	// Search runs a ranked, filtered, paginated full-text query and returns
	// matching posts, each carrying its latest revision for display.
	Search(query string, params models.SearchParams) ([]models.Post, error)
}

type searchService struct {
	searchRepo repositories.SearchRepository
	postRepo   repositories.PostRepository
	tagRepo    repositories.TagRepository
}

func NewSearchService(
	searchRepo repositories.SearchRepository,
	postRepo repositories.PostRepository,
	tagRepo repositories.TagRepository,
) SearchService {
	return &searchService{searchRepo: searchRepo, postRepo: postRepo, tagRepo: tagRepo}
}

func (s *searchService) Search(query string, params models.SearchParams) ([]models.Post, error) {
	if query == "" {
		return nil, models.ErrorValidation{Message: "search query must not be empty"}
	}

	filter, err := s.buildFilter(params)
	if err != nil {
		return nil, err
	}

	base, err := s.searchRepo.BaseQuery(query)
	if err != nil {
		return nil, err
	}
	if base == "" {
		// Nothing but stop words and punctuation: empty result, not an
		// error, and no fall back to match-all.
		return []models.Post{}, nil
	}

	// Let the final token also match by prefix so incremental typing finds
	// partially entered words.
	ids, err := s.searchRepo.SearchLatest(base+":*", filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	posts, err := s.postRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	// Re-impose ranked order; IN queries return rows in storage order.
	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *searchService) buildFilter(params models.SearchParams) (repositories.SearchFilter, error) {
	var filter repositories.SearchFilter

	switch params.Type {
	case "", models.SearchTypeAny:
	case models.SearchTypeUpdate:
		isGuideline := false
		filter.IsGuideline = &isGuideline
	case models.SearchTypeGuideline:
		isGuideline := true
		filter.IsGuideline = &isGuideline
	default:
		return filter, models.ErrorValidation{Message: "type must be one of any, update, guideline"}
	}

	if params.Tag != "" {
		if _, err := s.tagRepo.GetByName(params.Tag); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return filter, models.ErrorValidation{Message: "unknown tag \"" + params.Tag + "\""}
			}
			return filter, err
		}
		filter.TagName = params.Tag
	}

	if (params.Page == "") != (params.PerPage == "") {
		return filter, models.ErrorValidation{
			Message: "page and results_per_page must be given together",
		}
	}
	if params.Page != "" {
		page, err := strconv.Atoi(params.Page)
		if err != nil || page < 0 {
			return filter, models.ErrorValidation{Message: "page and results_per_page fields must be numbers"}
		}
		perPage, err := strconv.Atoi(params.PerPage)
		if err != nil || perPage < 0 {
			return filter, models.ErrorValidation{Message: "page and results_per_page fields must be numbers"}
		}
		offset := page * perPage
		filter.Limit = &perPage
		filter.Offset = &offset
	}

	return filter, nil
}
