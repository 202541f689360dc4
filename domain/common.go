package domain

import (
	"errors"
)

const (
	DateLayout = "2006-01-02"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageSuccessPing          = "pong"
	MessageSomethingWentWrong   = "Something went wrong!"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
)

type (
	PaginationRequest struct {
		Page  int
		Limit int
	}

	PaginationResponse struct {
		CurrentPage  int   `json:"currentPage"`
		TotalPages   int64 `json:"totalPages"`
		TotalItems   int64 `json:"totalItems"`
		ItemsPerPage int   `json:"itemsPerPage"`
	}
)

func NewPagination(page, limit int, total int64) PaginationResponse {
	return PaginationResponse{
		CurrentPage:  page,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// Normalize applies the default page (1) and limit (20) and caps the limit at 100.
func (p PaginationRequest) Normalize() PaginationRequest {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}
