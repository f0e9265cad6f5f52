// Package directory implements the paginated user listing with free-text
// search across profile fields.
package directory

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"padron/cmd/identity"
)

// Page and limit bounds for directory queries. Out-of-range values are
// clamped rather than rejected.
const (
	DefaultLimit = 10
	MaxLimit     = 100

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// sortFields whitelists the accepted sortBy values.
var sortFields = map[string]bool{
	"createdAt": true,
	"email":     true,
	"username":  true,
}

// Query is a raw directory request as it arrives from the caller.
// Zero values mean "use the default".
type Query struct {
	Search    string
	Page      int64
	Limit     int64
	SortBy    string
	SortOrder string
}

// Result is one page of the directory plus the pagination bookkeeping the
// caller needs to render page controls.
type Result struct {
	Users      []identity.User
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// Service answers directory queries against the identity store.
type Service struct {
	log   *slog.Logger
	store identity.Store
}

// NewService constructs the directory service.
func NewService(log *slog.Logger, store identity.Store) (*Service, error) {
	if store == nil {
		return nil, identity.OpError{Op: "directory.NewService", Kind: identity.ErrInvalidInput, Msg: "nil identity store"}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{log: log, store: store}, nil
}

// Find runs a directory query. Invalid sort parameters are rejected; page
// and limit are clamped into range.
func (s *Service) Find(ctx context.Context, q Query) (Result, error) {
	const op = "directory.Find"

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	page, limit := clampPage(q.Page), clampLimit(q.Limit)

	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if !sortFields[sortBy] {
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: "unknown sortBy field"}
	}

	ascending, err := parseSortOrder(q.SortOrder)
	if err != nil {
		return Result{}, identity.OpError{Op: op, Kind: identity.ErrInvalidInput, Msg: err.Error()}
	}

	// The search term is matched literally; escape it so regex
	// metacharacters from the caller cannot change the query.
	search := regexp.QuoteMeta(strings.TrimSpace(q.Search))

	res, err := s.store.FindPage(ctx, identity.PageQuery{
		Search:    search,
		SortBy:    sortBy,
		Ascending: ascending,
		Skip:      (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Users:      res.Users,
		Total:      res.Total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(res.Total, limit),
	}, nil
}

func clampPage(page int64) int64 {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func parseSortOrder(order string) (ascending bool, err error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", SortOrderDesc:
		return false, nil
	case SortOrderAsc:
		return true, nil
	default:
		return false, errUnknownSortOrder
	}
}

var errUnknownSortOrder = identity.OpError{Op: "directory.parseSortOrder", Kind: identity.ErrInvalidInput, Msg: "sortOrder must be asc or desc"}

func totalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
