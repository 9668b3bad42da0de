package main

import (
	"github.com/hibiken/asynq"

	thoughtJob "happy-thoughts/internal/domains/thought/job"
	"happy-thoughts/internal/shared"
	"happy-thoughts/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	backfillTags *thoughtJob.BackfillTagsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		backfillTags: thoughtJob.NewBackfillTagsHandler(c.ThoughtService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeBackfillThoughtTags, h.backfillTags.ProcessTask)
}
