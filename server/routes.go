package main

import (
	"bytes"
	"errors"
	"mime"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/diagram"
)

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

type validateRequest struct {
	Connection        diagram.Connection                   `json:"connection"`
	Nodes             []diagram.Node                       `json:"nodes"`
	EdgeType          string                               `json:"edgeType"`
	Model             string                               `json:"model"`
	CustomConnections []diagram.CustomConnectionDefinition `json:"customConnections"`
	CustomNodes       []diagram.CustomNodeDefinition       `json:"customNodes"`
}

type geometryRequest struct {
	Source diagram.Node `json:"source"`
	Target diagram.Node `json:"target"`
}

type geometryResponse struct {
	Resolution diagram.Resolution `json:"resolution"`
	Params     diagram.Params     `json:"params"`
}

type previewRequest struct {
	From     diagram.Node     `json:"from"`
	Cursor   diagram.Point    `json:"cursor"`
	Nodes    []diagram.Node   `json:"nodes"`
	Viewport diagram.Viewport `json:"viewport"`
}

// fail writes an error body. Sentinel errors map to 404/422, everything else to 500.
func fail(c fiber.Ctx, err error) error {
	var ce *diagram.ConnectionError
	switch {
	case errors.As(err, &ce):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": ce.Result.Message, "result": ce.Result})
	case errors.Is(err, diagram.ErrDiagramNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "diagram not found"})
	case errors.Is(err, diagram.ErrNodeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "node not found"})
	case errors.Is(err, diagram.ErrEdgeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "edge not found"})
	case diagram.IsCode(err, diagram.ErrCodeInvalidFormat), diagram.IsCode(err, diagram.ErrCodeInvalidJSON):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badBody(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
}

// newApp wires the HTTP API over store.
func newApp(store diagram.Store, logger *log.Logger) *fiber.App {
	editor := diagram.NewEditor(store, logger)
	app := fiber.New()
	app.Use(requestLogger(logger))

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Stateless core ────────────────────────────────────────────────
	app.Get("/models", func(c fiber.Ctx) error {
		return c.JSON(diagram.Models())
	})

	app.Post("/validate", func(c fiber.Ctx) error {
		var req validateRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badBody(c)
		}
		cat := &diagram.Catalog{CustomNodes: req.CustomNodes, CustomConnections: req.CustomConnections}
		return c.JSON(diagram.RulesFor(req.Model).Validate(req.Connection, req.Nodes, req.EdgeType, cat))
	})

	app.Post("/geometry", func(c fiber.Ctx) error {
		var req geometryRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badBody(c)
		}
		return c.JSON(geometryResponse{
			Resolution: diagram.ResolveConnectionPoints(req.Source, req.Target),
			Params:     diagram.EdgeParams(req.Source, req.Target),
		})
	})

	app.Post("/preview", func(c fiber.Ctx) error {
		var req previewRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badBody(c)
		}
		return c.JSON(diagram.PreviewLine(req.From, req.Cursor, req.Nodes, req.Viewport))
	})

	// ── Catalog ───────────────────────────────────────────────────────
	app.Get("/catalog", func(c fiber.Ctx) error {
		cat, err := store.LoadCatalog(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cat)
	})

	app.Put("/catalog", func(c fiber.Ctx) error {
		var in diagram.Catalog
		if err := c.Bind().JSON(&in); err != nil {
			return badBody(c)
		}
		cat := &diagram.Catalog{}
		for _, def := range in.CustomNodes {
			cat.AddNode(def)
		}
		for _, def := range in.CustomConnections {
			cat.AddConnection(def)
		}
		if err := store.SaveCatalog(c.Context(), cat); err != nil {
			return fail(c, err)
		}
		return c.JSON(cat)
	})

	// ── Diagram (bulk) ────────────────────────────────────────────────
	app.Post("/diagrams", func(c fiber.Ctx) error {
		var d diagram.Diagram
		if err := c.Bind().JSON(&d); err != nil {
			return badBody(c)
		}
		result, err := store.CreateDiagram(c.Context(), &d)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	app.Get("/diagrams/:id", func(c fiber.Ctx) error {
		d, err := store.GetDiagram(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if d == nil {
			return fail(c, diagram.ErrDiagramNotFound)
		}
		return c.JSON(d)
	})

	app.Delete("/diagrams/:id", func(c fiber.Ctx) error {
		if err := store.DeleteDiagram(c.Context(), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/diagrams/:id/check", func(c fiber.Ctx) error {
		var req connectRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badBody(c)
		}
		res, err := editor.Check(c.Context(), c.Params("id"), diagram.Connection{Source: req.Source, Target: req.Target}, req.Type)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	})

	app.Post("/diagrams/:id/connect", func(c fiber.Ctx) error {
		var req connectRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badBody(c)
		}
		id, res, err := editor.Connect(c.Context(), c.Params("id"), diagram.Connection{Source: req.Source, Target: req.Target}, req.Type)
		if err != nil {
			return fail(c, err)
		}
		if !res.Valid {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": res.Message, "result": res})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "result": res})
	})

	app.Get("/diagrams/:id/process-check", func(c fiber.Ctx) error {
		results, err := editor.CheckProcess(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if results == nil {
			results = []diagram.Result{}
		}
		return c.JSON(results)
	})

	app.Get("/diagrams/:id/export", func(c fiber.Ctx) error {
		doc, err := editor.Export(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		var buf bytes.Buffer
		if err := diagram.WriteDocument(&buf, doc); err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": c.Params("id") + ".json"}))
		return c.Send(buf.Bytes())
	})

	app.Post("/import", func(c fiber.Ctx) error {
		doc, err := diagram.ReadDocument(bytes.NewReader(c.Body()))
		if err != nil {
			return fail(c, err)
		}
		if m := c.Query("model"); m != "" {
			doc.Model = m
		}
		d, err := editor.Import(c.Context(), c.Query("id"), doc)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	})

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/diagrams/:id/nodes", func(c fiber.Ctx) error {
		var node diagram.Node
		if err := c.Bind().JSON(&node); err != nil {
			return badBody(c)
		}
		id, err := store.AddNode(c.Context(), c.Params("id"), &node)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/diagrams/:id/nodes", func(c fiber.Ctx) error {
		nodes, err := store.ListNodes(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(nodes)
	})

	app.Get("/nodes/:id", func(c fiber.Ctx) error {
		n, err := store.GetNode(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if n == nil {
			return fail(c, diagram.ErrNodeNotFound)
		}
		return c.JSON(n)
	})

	app.Put("/nodes/:id", func(c fiber.Ctx) error {
		var node diagram.Node
		if err := c.Bind().JSON(&node); err != nil {
			return badBody(c)
		}
		node.ID = c.Params("id")
		if err := store.UpdateNode(c.Context(), &node); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Delete("/nodes/:id", func(c fiber.Ctx) error {
		if err := store.DeleteNode(c.Context(), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/diagrams/:id/edges", func(c fiber.Ctx) error {
		var edge diagram.Edge
		if err := c.Bind().JSON(&edge); err != nil {
			return badBody(c)
		}
		id, err := store.AddEdge(c.Context(), c.Params("id"), &edge)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/diagrams/:id/edges", func(c fiber.Ctx) error {
		edges, err := store.ListEdges(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(edges)
	})

	app.Get("/edges/:id", func(c fiber.Ctx) error {
		e, err := store.GetEdge(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if e == nil {
			return fail(c, diagram.ErrEdgeNotFound)
		}
		return c.JSON(e)
	})

	app.Get("/edges/:id/geometry", func(c fiber.Ctx) error {
		p, err := editor.EdgeGeometry(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	})

	app.Put("/edges/:id", func(c fiber.Ctx) error {
		var edge diagram.Edge
		if err := c.Bind().JSON(&edge); err != nil {
			return badBody(c)
		}
		edge.ID = c.Params("id")
		if err := store.UpdateEdge(c.Context(), &edge); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Delete("/edges/:id", func(c fiber.Ctx) error {
		if err := store.DeleteEdge(c.Context(), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	return app
}
