package server

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/draupnir/draupnir/internal/models"
)

// mimeTypes maps known corpus file extensions to MIME types.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
	".csv":  "text/csv",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
}

func guessMime(name string) string {
	return mimeTypes[strings.ToLower(path.Ext(name))]
}

func (s *Server) handleResourcesList(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	files, err := s.engine.List("")
	if err != nil {
		return nil, &models.RPCError{Code: models.JSONRPCInternalError, Message: err.Error()}
	}

	resources := make([]models.ResourceDescriptor, 0, len(files))
	for _, rel := range files {
		resources = append(resources, models.ResourceDescriptor{
			URI:         "file://" + rel,
			Name:        rel,
			Description: fmt.Sprintf("Static file %q from %s", rel, s.engine.Root()),
			MimeType:    guessMime(rel),
		})
	}
	return models.ResourcesListResult{Resources: resources}, nil
}

func (s *Server) handleResourcesRead(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	uri, _ := params(req)["uri"].(string)
	rel, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return nil, &models.RPCError{Code: models.JSONRPCInvalidParams, Message: "only file:// URIs are supported"}
	}

	text, err := s.engine.ReadText(rel)
	if err != nil {
		return nil, &models.RPCError{Code: models.JSONRPCInternalError, Message: err.Error()}
	}

	return models.ResourceReadResult{
		Contents: []models.ResourceContents{{
			URI:      uri,
			MimeType: guessMime(rel),
			Text:     text,
		}},
	}, nil
}
