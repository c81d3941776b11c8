package http

import (
	"time"

	"zenith-forums/internal/models"
)

const apiTimeout = 30 * time.Second

func newListResponse(items interface{}, count int, startTime time.Time) models.ListResponse {
	resp := models.ListResponse{Items: items}
	resp.Meta.Count = count
	resp.Meta.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return resp
}
