package httpapi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"go.trai.ch/stackhub/internal/build"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/zerr"
)

const serviceName = "stackhub"

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/update/:name/:version", s.handleUpdate)
	s.router.GET("/download/:name/:version", s.handleDownload)
	s.router.GET("/modules", s.handleListModules)
	s.router.GET("/modules/:name", s.handleGetModule)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"version": build.Version,
	})
}

// upload holds the decoded fields of a publish request.
type upload struct {
	stack  []byte
	stackm []byte
	values map[string][]string
}

func (s *Server) readUpload(c *gin.Context) (*upload, error) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return nil, zerr.Wrap(err, "failed to parse upload form")
	}
	form := c.Request.MultipartForm
	defer func() {
		_ = form.RemoveAll()
	}()

	stack, err := readFormFile(form, "stack")
	if err != nil {
		return nil, err
	}
	stackm, err := readFormFile(form, "stackm")
	if err != nil {
		return nil, err
	}
	return &upload{stack: stack, stackm: stackm, values: form.Value}, nil
}

func (u *upload) value(field string) (string, error) {
	v := u.values[field]
	if len(v) == 0 || v[0] == "" {
		return "", fmt.Errorf("%w: %s", errMissingField, field)
	}
	return v[0], nil
}

func readFormFile(form *multipart.Form, field string) ([]byte, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: %s", errMissingField, field)
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open form file"), "field", field)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read form file"), "field", field)
	}
	return data, nil
}

func (s *Server) handleUpload(c *gin.Context) {
	up, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	name, err := up.value("name")
	if err != nil {
		s.fail(c, err)
		return
	}
	version, err := up.value("version")
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.registry.CreateModule(c.Request.Context(), name, version, up.stack, up.stackm); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module uploaded successfully"})
}

func (s *Server) handleUpdate(c *gin.Context) {
	up, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	name, version := c.Param("name"), c.Param("version")
	if err := s.registry.AddVersion(c.Request.Context(), name, version, up.stack, up.stackm); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module version added successfully"})
}

func (s *Server) handleDownload(c *gin.Context) {
	name := c.Param("name")
	sel := domain.ParseSelector(c.Param("version"))

	rel, err := s.registry.GetRelease(c.Request.Context(), name, sel)
	if err != nil {
		s.fail(c, err)
		return
	}

	version := sel.String()
	if sel.IsLatest() {
		version = rel.Version()
	}

	etag := releaseETag(rel)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := s.archiver.Build(&buf, name, rel); err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.ArchiveFileName(name, version)))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// releaseETag derives a strong entity tag from the content of both blobs.
func releaseETag(rel domain.Release) string {
	var size [8]byte
	d := xxhash.New()
	binary.BigEndian.PutUint64(size[:], uint64(len(rel.Stack())))
	_, _ = d.Write(size[:])
	_, _ = d.Write(rel.Stack())
	_, _ = d.Write(rel.Stackm())
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", d.Sum64()))
}

func (s *Server) handleListModules(c *gin.Context) {
	summaries := s.registry.ListModules(c.Request.Context())
	out := make(map[string][]string, len(summaries))
	for _, m := range summaries {
		out[m.Name] = m.Versions
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetModule(c *gin.Context) {
	summary, err := s.registry.Module(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
