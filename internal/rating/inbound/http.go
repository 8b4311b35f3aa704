package inbound

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
	"github.com/shandysiswandi/growguard/internal/rating/usecase"
)

type uc interface {
	Create(ctx context.Context, in usecase.CreateInput) (int64, error)
	List(ctx context.Context, in usecase.ListInput) ([]usecase.RatingOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/ratings", end.Create) // need authenticated
	r.GET("/api/v1/ratings", end.List)    // need authenticated
}

type HTTPEndpoint struct {
	uc uc
}

type CreateRequest struct {
	Rating   int16  `json:"rating"`
	Feedback string `json:"feedback"`
}

type CreateResponse struct {
	ID string `json:"id"`
}

func (CreateResponse) StatusCode() int {
	return http.StatusCreated
}

func (CreateResponse) Message() string {
	return "Thank you for your feedback"
}

type RatingResponse struct {
	ID         string    `json:"id"`
	Rating     int16     `json:"rating"`
	Feedback   string    `json:"feedback"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
}

func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	var req CreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	id, err := h.uc.Create(r.Context(), usecase.CreateInput{Rating: req.Rating, Feedback: req.Feedback})
	if err != nil {
		return nil, err
	}

	return CreateResponse{ID: strconv.FormatInt(id, 10)}, nil
}

func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt("limit", 0)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.List(r.Context(), usecase.ListInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	return ListResponse{Ratings: lo.Map(out, func(o usecase.RatingOutput, _ int) RatingResponse {
		return RatingResponse{
			ID:         strconv.FormatInt(o.ID, 10),
			Rating:     o.Rating,
			Feedback:   o.Feedback,
			AuthorName: o.AuthorName,
			CreatedAt:  o.CreatedAt,
		}
	})}, nil
}
