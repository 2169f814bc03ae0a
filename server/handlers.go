package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/hierarchy/specificity"
)

// Health is the body of /healthz.
type Health struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Schemas    int    `json:"schemas"`
	Properties int    `json:"properties"`
	LoadedAt   string `json:"loadedAt"`
}

// SchemaView is one class with its label.
type SchemaView struct {
	Label string `json:"label"`
	*hierarchy.ResolvedSchema
}

// PropertyView is one property with its label.
type PropertyView struct {
	Label string `json:"label"`
	hierarchy.PropertyEntry
}

// PathsView lists the specificity paths of a class, each split into labels.
type PathsView struct {
	Label string     `json:"label"`
	Paths []string   `json:"paths"`
	Steps [][]string `json:"steps"`
}

func (s *Server) health(c *gin.Context) {
	snap := s.current.Load()
	success(c, Health{
		Status:     "ok",
		Version:    snap.version,
		Schemas:    len(snap.model.Schemas),
		Properties: len(snap.model.Properties),
		LoadedAt:   snap.loaded.Format(time.RFC3339),
	})
}

func (s *Server) listSchemas(c *gin.Context) {
	success(c, s.current.Load().model.Labels())
}

func (s *Server) getSchema(c *gin.Context) {
	label := c.Param("label")
	schema, ok := s.current.Load().model.Schemas[label]
	if !ok {
		fail(c, http.StatusNotFound, fmt.Sprintf("schema %q not found", label))
		return
	}
	success(c, SchemaView{Label: label, ResolvedSchema: schema})
}

// getSchemaProperties returns the property sets of a class. The optional
// "set" query selects own, all, or an ancestor label.
func (s *Server) getSchemaProperties(c *gin.Context) {
	label := c.Param("label")
	schema, ok := s.current.Load().model.Schemas[label]
	if !ok {
		fail(c, http.StatusNotFound, fmt.Sprintf("schema %q not found", label))
		return
	}

	switch set := c.Query("set"); set {
	case "":
		success(c, schema.Properties)
	case "own":
		success(c, schema.Properties.Own)
	case "all":
		success(c, schema.Properties.All)
	default:
		props, ok := schema.Properties.Ancestors[set]
		if !ok {
			fail(c, http.StatusBadRequest, fmt.Sprintf("%q is not an ancestor of %q", set, label))
			return
		}
		success(c, props)
	}
}

func (s *Server) listProperties(c *gin.Context) {
	success(c, s.current.Load().model.PropertyLabels())
}

func (s *Server) getProperty(c *gin.Context) {
	label := c.Param("label")
	entry, ok := s.current.Load().model.Properties[label]
	if !ok {
		fail(c, http.StatusNotFound, fmt.Sprintf("property %q not found", label))
		return
	}
	success(c, PropertyView{Label: label, PropertyEntry: entry})
}

func (s *Server) getPaths(c *gin.Context) {
	label := c.Param("label")
	node, ok := s.current.Load().graph.Node(label)
	if !ok {
		fail(c, http.StatusNotFound, fmt.Sprintf("schema %q not found", label))
		return
	}
	view := PathsView{
		Label: label,
		Paths: append([]string{}, node.SpecificityPaths...),
		Steps: make([][]string, 0, len(node.SpecificityPaths)),
	}
	for _, p := range node.SpecificityPaths {
		view.Steps = append(view.Steps, specificity.Split(p))
	}
	success(c, view)
}
