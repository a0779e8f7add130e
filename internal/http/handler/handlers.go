package handler

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nicecatcher/internal/http/middleware"
	"nicecatcher/internal/service"
)

// userID returns the authenticated user id stored by middleware.Auth.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDLocalKey).(string)
	return id
}

// Health reports liveness. The body is fixed and no dependency is probed;
// a running process answers.
func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// Capture accepts a multipart audio upload (field name: file) plus an
// optional attachments JSON field and runs the capture flow.
func Capture(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		audio, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		res, err := svc.Capture(c.UserContext(), userID(c), service.CaptureInput{
			Filename:       fh.Filename,
			ContentType:    fh.Header.Get("Content-Type"),
			Audio:          audio,
			AttachmentsRaw: c.FormValue("attachments"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateMemo applies a partial update to a memo. Only keys present in the
// body are applied; an explicit null clears the field.
func UpdateMemo(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch, err := parseMemoPatch(c.Body())
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		memo, err := svc.Update(c.UserContext(), userID(c), c.Params("id"), patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(memo)
	}
}

// parseMemoPatch decodes the tri-state update body. Decoding into raw
// messages first distinguishes absent keys from explicit nulls.
func parseMemoPatch(body []byte) (service.MemoPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return service.MemoPatch{}, err
	}

	var patch service.MemoPatch
	if raw, ok := fields["content"]; ok {
		patch.ContentSet = true
		if !isNull(raw) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return service.MemoPatch{}, err
			}
			patch.Content = &s
		}
	}
	if raw, ok := fields["project_id"]; ok {
		patch.ProjectIDSet = true
		if !isNull(raw) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return service.MemoPatch{}, err
			}
			patch.ProjectID = &s
		}
	}
	if raw, ok := fields["status"]; ok {
		patch.StatusSet = true
		if !isNull(raw) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return service.MemoPatch{}, err
			}
			patch.Status = &s
		}
	}
	if raw, ok := fields["new_project_name"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &patch.NewProjectName); err != nil {
			return service.MemoPatch{}, err
		}
	}
	return patch, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// ListMemos returns the caller's memos, optionally narrowed by the status
// and project_id query parameters.
func ListMemos(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memos, err := svc.List(c.UserContext(), userID(c), service.ListFilter{
			Status:    c.Query("status"),
			ProjectID: c.Query("project_id"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(memos)
	}
}

// ListProjects returns the caller's projects.
func ListProjects(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, err := svc.ListProjects(c.UserContext(), userID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(projects)
	}
}

// AddMedia attaches uploaded media files (multipart field name: files) to a
// memo.
func AddMedia(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		}
		files := form.File["files"]
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}

		uploads := make([]service.MediaUpload, 0, len(files))
		closers := make([]io.Closer, 0, len(files))
		defer func() {
			for _, cl := range closers {
				cl.Close()
			}
		}()
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			closers = append(closers, f)
			uploads = append(uploads, service.MediaUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			})
		}

		memo, err := svc.AddMedia(c.UserContext(), userID(c), c.Params("id"), uploads)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(memo)
	}
}

// AddLocation appends a location attachment to a memo. Both coordinates are
// required; their ranges are not validated.
func AddLocation(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if body.Lat == nil || body.Lng == nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LOCATION", "lat and lng are required")
		}

		memo, err := svc.AddLocation(c.UserContext(), userID(c), c.Params("id"), *body.Lat, *body.Lng)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(memo)
	}
}

// DeleteMemo removes a memo record. Blob cleanup happens in the background
// after the response.
func DeleteMemo(svc service.MemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SPAFallback serves the frontend's index.html for client-side routes.
// API-looking paths get the JSON 404 envelope instead so missing endpoints
// do not answer with HTML.
func SPAFallback(staticDir string) fiber.Handler {
	index := filepath.Join(staticDir, "index.html")
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range []string{"/api/", "/health", "/static/", "/assets/"} {
			if strings.HasPrefix(path, prefix) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			}
		}
		if _, err := os.Stat(index); err == nil {
			return c.SendFile(index)
		}
		if path == "/" {
			return c.Type("html").SendString("<h1>Nice Catcher API</h1>")
		}
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	}
}
