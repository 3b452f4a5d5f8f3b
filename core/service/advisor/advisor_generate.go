package advisor

import (
	"context"
	"fmt"
	"strings"

	"advisor_server/core/port/in"
	"advisor_server/core/service/prompt"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"

	"github.com/go-pkgz/pool"
)

// GenerateElement builds the regional image prompt, generates the image
// and optionally inserts it as a placeholder.
func (s *Service) GenerateElement(ctx context.Context, req *in.GenerateElementRequest) (*in.GenerateElementResult, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = strings.TrimSpace(req.Prompt)
	}
	if description == "" {
		return nil, apperr.MissingField("description")
	}

	elementType := strings.ToLower(strings.TrimSpace(req.Type))
	if elementType == "" {
		elementType = prompt.ImageDecoration
	}
	dims := prompt.DimensionsFor(elementType)
	if req.Dimensions != nil && req.Dimensions.Width > 0 && req.Dimensions.Height > 0 {
		dims = *req.Dimensions
	}

	result := &in.GenerateElementResult{
		Type:        elementType,
		Description: description,
		Prompt:      prompt.Image(elementType, description, s.kb.ImageStyle(req.Region)),
		Dimensions:  dims,
		AspectRatio: prompt.AspectRatio(dims),
	}

	url, err := s.apply.GenerateImage(ctx, result.Prompt, dims)
	if err != nil {
		return nil, err
	}
	result.ImageURL = url

	if req.Insert {
		node, err := s.apply.InsertImage(ctx, url, dims)
		if err != nil {
			return nil, err
		}
		result.Node = &node
	}
	return result, nil
}

// GenerateElements runs a batch on a bounded worker group. Per-item
// failures are reported in the item's Error field.
func (s *Service) GenerateElements(ctx context.Context, reqs []*in.GenerateElementRequest) ([]*in.GenerateElementResult, error) {
	switch {
	case len(reqs) == 0:
		return nil, apperr.BadRequest("no elements requested")
	case len(reqs) > MaxBatchElements:
		return nil, apperr.InvalidInput("elements", fmt.Sprintf("at most %d elements per batch", MaxBatchElements))
	}

	results := make([]*in.GenerateElementResult, len(reqs))
	log := logger.WithContext(ctx)

	worker := pool.WorkerFunc[int](func(ctx context.Context, i int) error {
		req := reqs[i]
		if req == nil {
			results[i] = &in.GenerateElementResult{Error: "empty request"}
			return nil
		}
		res, err := s.GenerateElement(ctx, req)
		if err != nil {
			log.WithError(err).WithField("index", i).Warn("batch element failed")
			results[i] = &in.GenerateElementResult{
				Type:        req.Type,
				Description: req.Description,
				Error:       apperr.AsAppError(err).Message,
			}
			return nil
		}
		results[i] = res
		return nil
	})

	workers := min(s.cfg.ImageWorkers, len(reqs))
	p := pool.New[int](workers, worker).WithContinueOnError()
	if err := p.Go(ctx); err != nil {
		return nil, apperr.InternalWithError(err)
	}
	for i := range reqs {
		p.Submit(i)
	}
	if err := p.Close(ctx); err != nil {
		return nil, apperr.InternalWithError(err)
	}

	for i, r := range results {
		if r == nil {
			results[i] = &in.GenerateElementResult{Error: "not processed"}
		}
	}
	return results, nil
}
