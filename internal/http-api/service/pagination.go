package service

import (
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/repository"
)

// PageResult is one page of a listing plus what the handler needs to build
// the envelope links.
type PageResult[T any] struct {
	Items  []T
	Count  int64
	Number int
	Size   int
}

// resolvePage applies the configured default size and the upper bound.
func resolvePage(q dto.PageQuery, defaultSize int) repository.Page {
	size := q.PageSize
	if size == 0 {
		size = defaultSize
	}
	return repository.Page{Number: q.Page, Size: size}.Normalize()
}

// checkPage rejects page numbers past the end. Page 1 is always valid.
func checkPage(page repository.Page, count int64) error {
	if page.Number > dto.LastPage(count, page.Size) {
		return ErrInvalidPage
	}
	return nil
}
